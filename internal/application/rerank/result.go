package rerank

import (
	"errors"

	"github.com/alchemorsel/personalization/internal/application/scoring"
	"github.com/google/uuid"
)

// ErrLLMRequired is returned inside a Fatal result when AI ranking is mandatory
// and no usable model ranking arrived.
var ErrLLMRequired = errors.New("ai ranking required but unavailable")

// Outcome distinguishes the three ways a rerank attempt can end
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeDegraded Outcome = "degraded"
	OutcomeFatal    Outcome = "fatal"
)

// Degraded reasons
const (
	ReasonDeterministicOnly = "deterministic_only"
	ReasonDisabled          = "disabled"
	ReasonNotConfigured     = "not_configured"
	ReasonCanceled          = "canceled"
	ReasonTimeout           = "timeout"
	ReasonRequestFailed     = "request_failed"
	ReasonNoJSON            = "no_json"
	ReasonInvalidPayload    = "invalid_payload"
	ReasonNoMatches         = "no_matching_candidates"
)

// Entry is one reranked pick
type Entry struct {
	Candidate    scoring.ScoredCandidate
	Rationale    string
	SwapCopy     string
	SwapRecipeID *uuid.UUID
	// FromModel is false for entries backfilled from the deterministic order
	FromModel bool
}

// Result is the outcome of a rerank attempt. Only OK carries entries; a
// Degraded result means the caller proceeds with deterministic ranking.
type Result struct {
	Outcome Outcome
	Entries []Entry
	Reason  string
	Err     error
}

// Ok wraps a usable model ranking
func Ok(entries []Entry) Result {
	return Result{Outcome: OutcomeOK, Entries: entries}
}

// Degraded signals that no usable ranking arrived
func Degraded(reason string) Result {
	return Result{Outcome: OutcomeDegraded, Reason: reason}
}

// Fatal signals the request must fail
func Fatal(reason string, err error) Result {
	return Result{Outcome: OutcomeFatal, Reason: reason, Err: err}
}

// IsOK reports whether the result carries a usable ranking
func (r Result) IsOK() bool { return r.Outcome == OutcomeOK }

// IsFatal reports whether the request must fail
func (r Result) IsFatal() bool { return r.Outcome == OutcomeFatal }
