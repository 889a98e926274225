package recommendation

import "errors"

var (
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrInvalidAction          = errors.New("feedback action must be ACCEPT, SAVE or SWAP")
	ErrInvalidSentiment       = errors.New("sentiment must be POSITIVE, NEUTRAL or NEGATIVE")
	ErrEmptySelection         = errors.New("no recommendations to persist")
)
