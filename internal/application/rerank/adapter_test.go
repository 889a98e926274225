package rerank

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/alchemorsel/personalization/internal/application/scoring"
	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/alchemorsel/personalization/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockCompletionClient struct {
	mock.Mock
}

func (m *mockCompletionClient) Configured() bool {
	return m.Called().Bool(0)
}

func (m *mockCompletionClient) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type blockingClient struct{}

func (blockingClient) Configured() bool { return true }

func (blockingClient) Complete(ctx context.Context, _ outbound.CompletionRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type staticFlags struct {
	enabled  bool
	required bool
}

func (f staticFlags) LLMRerankingEnabled() bool { return f.enabled }
func (f staticFlags) AIRankingRequired() bool   { return f.required }

func scored(titles ...string) []scoring.ScoredCandidate {
	p := &profile.Profile{Goals: []profile.Goal{profile.GoalLeanMuscle}}
	out := make([]scoring.ScoredCandidate, 0, len(titles))
	for _, title := range titles {
		out = append(out, scoring.Score(catalog.CandidateRecipe{
			Recipe: catalog.Recipe{
				ID:     uuid.New(),
				Title:  title,
				Macros: catalog.Macros{ProteinGrams: catalog.Float(35)},
			},
			Inventory: catalog.InventoryState{Status: catalog.InventoryInStock, Quantity: 20, Unit: "meal"},
		}, p))
	}
	return out
}

func newAdapter(t *testing.T, client outbound.CompletionClient, flags staticFlags) *Adapter {
	t.Helper()
	opts := DefaultOptions()
	opts.RationaleMaxLength = 40
	opts.SwapMaxLength = 30
	a, err := NewAdapter(client, flags, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	return a
}

func configuredClient(response string, err error) *mockCompletionClient {
	c := new(mockCompletionClient)
	c.On("Configured").Return(true)
	c.On("Complete", mock.Anything, mock.MatchedBy(func(req outbound.CompletionRequest) bool {
		return req.JSONMode && strings.Contains(req.UserPrompt, "candidates")
	})).Return(response, err)
	return c
}

func TestRerank_Eligibility(t *testing.T) {
	candidates := scored("A", "B", "C")

	t.Run("deterministic only skips the model even when required", func(t *testing.T) {
		client := new(mockCompletionClient)
		a := newAdapter(t, client, staticFlags{enabled: true, required: true})

		res := a.Rerank(context.Background(), Request{Candidates: candidates, Limit: 3, DeterministicOnly: true, Profile: &profile.Profile{}})

		assert.Equal(t, OutcomeDegraded, res.Outcome)
		assert.Equal(t, ReasonDeterministicOnly, res.Reason)
		client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("feature flag off", func(t *testing.T) {
		a := newAdapter(t, new(mockCompletionClient), staticFlags{})
		res := a.Rerank(context.Background(), Request{Candidates: candidates, Limit: 3, Profile: &profile.Profile{}})
		assert.Equal(t, Degraded(ReasonDisabled), res)
	})

	t.Run("missing credentials", func(t *testing.T) {
		client := new(mockCompletionClient)
		client.On("Configured").Return(false)
		a := newAdapter(t, client, staticFlags{enabled: true})

		res := a.Rerank(context.Background(), Request{Candidates: candidates, Limit: 3, Profile: &profile.Profile{}})
		assert.Equal(t, ReasonNotConfigured, res.Reason)
		assert.False(t, res.IsFatal())
	})

	t.Run("required mode turns degraded into fatal", func(t *testing.T) {
		a := newAdapter(t, new(mockCompletionClient), staticFlags{required: true})

		res := a.Rerank(context.Background(), Request{Candidates: candidates, Limit: 3, Profile: &profile.Profile{}})

		assert.True(t, res.IsFatal())
		assert.ErrorIs(t, res.Err, ErrLLMRequired)
		assert.Equal(t, ReasonDisabled, res.Reason)
	})
}

func TestRerank_DegradesOnBadResponses(t *testing.T) {
	candidates := scored("A", "B", "C")
	id := candidates[0].Recipe.ID.String()

	tests := []struct {
		name     string
		response string
		err      error
		reason   string
	}{
		{"transport failure", "", errors.New("connection refused"), ReasonRequestFailed},
		{"prose only", "Sorry, I cannot help with that.", nil, ReasonNoJSON},
		{"broken json", `{"recommendations": [ {"recipeId": }`, nil, ReasonInvalidPayload},
		{"missing rationale", fmt.Sprintf(`{"recommendations":[{"recipeId":%q}]}`, id), nil, ReasonInvalidPayload},
		{"unexpected field", fmt.Sprintf(`{"recommendations":[{"recipeId":%q,"rationale":"x","score":9}]}`, id), nil, ReasonInvalidPayload},
		{"empty list", `{"recommendations":[]}`, nil, ReasonInvalidPayload},
		{"only unknown ids", fmt.Sprintf(`{"recommendations":[{"recipeId":%q,"rationale":"x"}]}`, uuid.NewString()), nil, ReasonNoMatches},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAdapter(t, configuredClient(tt.response, tt.err), staticFlags{enabled: true})

			res := a.Rerank(context.Background(), Request{Candidates: candidates, Limit: 3, Profile: &profile.Profile{}})

			assert.Equal(t, OutcomeDegraded, res.Outcome)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Empty(t, res.Entries)
		})
	}
}

func TestRerank_MatchesAndSanitizes(t *testing.T) {
	candidates := scored("A", "B", "C", "D")
	a0, b1, c2 := candidates[0].Recipe.ID, candidates[1].Recipe.ID, candidates[2].Recipe.ID
	longText := strings.Repeat("protein ", 20)

	response := "Here you go:\n```json\n" + fmt.Sprintf(`{"recommendations":[
		{"recipeId":%q,"rationale":"Best for you","healthySwap":"Add greens","swapRecipeId":%q},
		{"recipeId":%q,"rationale":"invented"},
		{"recipeId":%q,"rationale":%q,"swapRecipeId":%q},
		{"recipeId":%q,"rationale":"duplicate"},
		{"recipeId":%q,"rationale":"  ","swapRecipeId":%q}
	]}`,
		strings.ToUpper(c2.String()), a0.String(),
		uuid.NewString(),
		b1.String(), longText, uuid.NewString(),
		c2.String(),
		a0.String(), a0.String(),
	) + "\n```"

	a := newAdapter(t, configuredClient(response, nil), staticFlags{enabled: true})
	res := a.Rerank(context.Background(), Request{Candidates: candidates, Limit: 4, Profile: &profile.Profile{}})

	require.True(t, res.IsOK())
	require.Len(t, res.Entries, 4)

	first := res.Entries[0]
	assert.Equal(t, c2, first.Candidate.Recipe.ID)
	assert.Equal(t, "Best for you", first.Rationale)
	assert.Equal(t, "Add greens", first.SwapCopy)
	require.NotNil(t, first.SwapRecipeID)
	assert.Equal(t, a0, *first.SwapRecipeID)
	assert.True(t, first.FromModel)

	second := res.Entries[1]
	assert.Equal(t, b1, second.Candidate.Recipe.ID)
	assert.Nil(t, second.SwapRecipeID, "foreign swap ids are nulled")
	assert.True(t, strings.HasSuffix(second.Rationale, ellipsis))
	assert.LessOrEqual(t, len([]rune(second.Rationale)), 40)

	third := res.Entries[2]
	assert.Equal(t, a0, third.Candidate.Recipe.ID)
	assert.Nil(t, third.SwapRecipeID, "a meal cannot be its own swap")
	assert.Equal(t, Truncate(candidates[0].Rationale, 40), third.Rationale)

	backfill := res.Entries[3]
	assert.Equal(t, candidates[3].Recipe.ID, backfill.Candidate.Recipe.ID)
	assert.False(t, backfill.FromModel)
}

func TestRerank_RespectsLimit(t *testing.T) {
	candidates := scored("A", "B", "C", "D", "E")
	var picks []string
	for i := len(candidates) - 1; i >= 0; i-- {
		picks = append(picks, fmt.Sprintf(`{"recipeId":%q,"rationale":"pick"}`, candidates[i].Recipe.ID))
	}
	response := `{"recommendations":[` + strings.Join(picks, ",") + `]}`

	a := newAdapter(t, configuredClient(response, nil), staticFlags{enabled: true})
	res := a.Rerank(context.Background(), Request{Candidates: candidates, Limit: 3, Profile: &profile.Profile{}})

	require.True(t, res.IsOK())
	require.Len(t, res.Entries, 3)
	assert.Equal(t, candidates[4].Recipe.ID, res.Entries[0].Candidate.Recipe.ID)
}

func TestRerank_CancellationFallsBack(t *testing.T) {
	a := newAdapter(t, blockingClient{}, staticFlags{enabled: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := a.Rerank(ctx, Request{Candidates: scored("A", "B", "C"), Limit: 3, Profile: &profile.Profile{}})

	assert.Equal(t, OutcomeDegraded, res.Outcome)
	assert.Equal(t, ReasonCanceled, res.Reason)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("  short  ", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "héll…", Truncate("héllo wörld", 5))
	assert.Equal(t, "unbounded", Truncate("unbounded", 0))
}
