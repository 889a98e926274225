// Package rerank asks a language model to reorder deterministically scored
// candidates. It never fails a request unless AI ranking is mandatory.
package rerank

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alchemorsel/personalization/internal/application/scoring"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/alchemorsel/personalization/internal/ports/outbound"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Options tunes the completion call and output bounds
type Options struct {
	MaxTokens          int
	Temperature        float64
	Timeout            time.Duration
	RationaleMaxLength int
	SwapMaxLength      int
}

// DefaultOptions returns the production defaults
func DefaultOptions() Options {
	return Options{
		MaxTokens:          800,
		Temperature:        0.2,
		Timeout:            12 * time.Second,
		RationaleMaxLength: 280,
		SwapMaxLength:      200,
	}
}

// Request is the input to one rerank attempt
type Request struct {
	Profile *profile.Profile
	// Candidates are in deterministic order
	Candidates        []scoring.ScoredCandidate
	Limit             int
	DeterministicOnly bool
}

// Adapter wraps a completion client with eligibility checks and strict parsing
type Adapter struct {
	client    outbound.CompletionClient
	flags     outbound.FeatureFlags
	validator *PayloadValidator
	opts      Options
	logger    *zap.Logger
}

// NewAdapter creates a rerank adapter
func NewAdapter(client outbound.CompletionClient, flags outbound.FeatureFlags, opts Options, logger *zap.Logger) (*Adapter, error) {
	validator, err := NewPayloadValidator()
	if err != nil {
		return nil, err
	}
	return &Adapter{
		client:    client,
		flags:     flags,
		validator: validator,
		opts:      opts,
		logger:    logger.Named("rerank"),
	}, nil
}

// Rerank attempts a model ranking. A Degraded result is never an error; a
// Fatal result only occurs when AI ranking is required and the caller did
// not ask for deterministic output.
func (a *Adapter) Rerank(ctx context.Context, req Request) Result {
	ctx, span := otel.Tracer("personalization").Start(ctx, "rerank.Rerank")
	defer span.End()

	res := a.attempt(ctx, req)
	if !res.IsOK() && !req.DeterministicOnly && a.flags.AIRankingRequired() {
		res = Fatal(res.Reason, fmt.Errorf("%w: %s", ErrLLMRequired, res.Reason))
	}

	span.SetAttributes(
		attribute.String("rerank.outcome", string(res.Outcome)),
		attribute.String("rerank.reason", res.Reason),
		attribute.Int("rerank.entries", len(res.Entries)),
	)
	return res
}

func (a *Adapter) attempt(ctx context.Context, req Request) Result {
	switch {
	case req.DeterministicOnly:
		return Degraded(ReasonDeterministicOnly)
	case !a.flags.LLMRerankingEnabled():
		return Degraded(ReasonDisabled)
	case a.client == nil || !a.client.Configured():
		return Degraded(ReasonNotConfigured)
	case len(req.Candidates) == 0:
		return Degraded(ReasonNoMatches)
	}

	userPrompt, err := buildUserPrompt(req.Profile, req.Candidates, req.Limit)
	if err != nil {
		a.logger.Error("Failed to build rerank prompt", zap.Error(err))
		return Degraded(ReasonRequestFailed)
	}

	callCtx := ctx
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	raw, err := a.client.Complete(callCtx, outbound.CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    a.opts.MaxTokens,
		Temperature:  a.opts.Temperature,
		JSONMode:     true,
	})
	if err != nil {
		reason := ReasonRequestFailed
		switch {
		case ctx.Err() != nil:
			reason = ReasonCanceled
		case errors.Is(callCtx.Err(), context.DeadlineExceeded):
			reason = ReasonTimeout
		}
		a.logger.Warn("Completion call failed, using deterministic ranking",
			zap.String("reason", reason),
			zap.Error(err),
		)
		return Degraded(reason)
	}
	if ctx.Err() != nil {
		return Degraded(ReasonCanceled)
	}

	payload, err := a.validator.Parse(raw)
	if err != nil {
		reason := ReasonInvalidPayload
		if errors.Is(err, errNoJSONObject) {
			reason = ReasonNoJSON
		}
		a.logger.Warn("Rejected completion payload",
			zap.String("reason", reason),
			zap.Error(err),
		)
		return Degraded(reason)
	}

	entries := a.match(payload, req)
	if len(entries) == 0 {
		a.logger.Warn("Completion referenced no known candidates")
		return Degraded(ReasonNoMatches)
	}
	return Ok(entries)
}

// match keeps only picks that reference known candidates, then backfills
// from the deterministic order up to the limit.
func (a *Adapter) match(payload *modelPayload, req Request) []Entry {
	byID := make(map[string]scoring.ScoredCandidate, len(req.Candidates))
	for _, c := range req.Candidates {
		byID[c.Recipe.ID.String()] = c
	}

	limit := req.Limit
	if limit <= 0 || limit > len(req.Candidates) {
		limit = len(req.Candidates)
	}

	seen := make(map[string]bool, limit)
	entries := make([]Entry, 0, limit)
	dropped := 0

	for _, pick := range payload.Recommendations {
		if len(entries) == limit {
			break
		}
		id := normalizeID(pick.RecipeID)
		c, ok := byID[id]
		if !ok || seen[id] {
			dropped++
			continue
		}
		seen[id] = true

		entry := Entry{
			Candidate: c,
			Rationale: Truncate(pick.Rationale, a.opts.RationaleMaxLength),
			SwapCopy:  Truncate(c.SwapCopy, a.opts.SwapMaxLength),
			FromModel: true,
		}
		if entry.Rationale == "" {
			entry.Rationale = Truncate(c.Rationale, a.opts.RationaleMaxLength)
		}
		if pick.HealthySwap != nil && strings.TrimSpace(*pick.HealthySwap) != "" {
			entry.SwapCopy = Truncate(*pick.HealthySwap, a.opts.SwapMaxLength)
		}
		if pick.SwapRecipeID != nil {
			swapID := normalizeID(*pick.SwapRecipeID)
			if swap, ok := byID[swapID]; ok && swapID != id {
				recipeID := swap.Recipe.ID
				entry.SwapRecipeID = &recipeID
			}
		}
		entries = append(entries, entry)
	}

	if dropped > 0 {
		a.logger.Debug("Dropped unmatched model picks", zap.Int("dropped", dropped))
	}
	if len(entries) == 0 {
		return nil
	}

	for _, c := range req.Candidates {
		if len(entries) == limit {
			break
		}
		id := c.Recipe.ID.String()
		if seen[id] {
			continue
		}
		seen[id] = true
		entries = append(entries, Entry{
			Candidate: c,
			Rationale: Truncate(c.Rationale, a.opts.RationaleMaxLength),
			SwapCopy:  Truncate(c.SwapCopy, a.opts.SwapMaxLength),
		})
	}
	return entries
}

// normalizeID canonicalizes an id so model casing does not matter
func normalizeID(raw string) string {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return id.String()
}
