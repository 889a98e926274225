package recommendation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action is a user reaction to a recommendation
type Action string

const (
	ActionAccept Action = "ACCEPT"
	ActionSave   Action = "SAVE"
	ActionSwap   Action = "SWAP"
)

// ParseAction resolves a feedback action case-insensitively
func ParseAction(raw string) (Action, bool) {
	switch Action(strings.ToUpper(strings.TrimSpace(raw))) {
	case ActionAccept:
		return ActionAccept, true
	case ActionSave:
		return ActionSave, true
	case ActionSwap:
		return ActionSwap, true
	default:
		return "", false
	}
}

// ResultingStatus maps an action to the recommendation status it sets
func (a Action) ResultingStatus() Status {
	switch a {
	case ActionAccept:
		return StatusAccepted
	case ActionSave:
		return StatusSaved
	case ActionSwap:
		return StatusSwapped
	default:
		return StatusShown
	}
}

// Sentiment is the user's attitude expressed with a feedback action
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentNegative Sentiment = "NEGATIVE"
)

// ParseSentiment resolves a sentiment case-insensitively
func ParseSentiment(raw string) (Sentiment, bool) {
	switch Sentiment(strings.ToUpper(strings.TrimSpace(raw))) {
	case SentimentPositive:
		return SentimentPositive, true
	case SentimentNeutral:
		return SentimentNeutral, true
	case SentimentNegative:
		return SentimentNegative, true
	default:
		return "", false
	}
}

// DefaultSentiment derives a sentiment when the caller gives none
func (a Action) DefaultSentiment() Sentiment {
	switch a {
	case ActionAccept, ActionSave:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// FeedbackEvent is created once per user action
type FeedbackEvent struct {
	ID               uuid.UUID
	RecommendationID uuid.UUID
	UserID           uuid.UUID
	Action           Action
	Sentiment        Sentiment
	Notes            *string
	CreatedAt        time.Time
}

// NewFeedbackEvent creates a feedback event, deriving the sentiment when empty
func NewFeedbackEvent(recommendationID, userID uuid.UUID, action Action, sentiment Sentiment, notes string) *FeedbackEvent {
	if sentiment == "" {
		sentiment = action.DefaultSentiment()
	}
	event := &FeedbackEvent{
		ID:               uuid.New(),
		RecommendationID: recommendationID,
		UserID:           userID,
		Action:           action,
		Sentiment:        sentiment,
		CreatedAt:        time.Now().UTC(),
	}
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		event.Notes = &trimmed
	}
	return event
}
