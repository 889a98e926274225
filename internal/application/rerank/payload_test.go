package rerank

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadValidator_Parse(t *testing.T) {
	v, err := NewPayloadValidator()
	require.NoError(t, err)

	pick := func(rationale, swap string) string {
		return fmt.Sprintf(`{"recommendations":[{"recipeId":"a1","rationale":%q,"healthySwap":%q}]}`, rationale, swap)
	}

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "fenced object", raw: "```json\n" + pick("Lean and filling", "Add greens") + "\n```"},
		{name: "null swap", raw: `{"recommendations":[{"recipeId":"a1","rationale":"ok","healthySwap":null}]}`},
		{name: "no object", raw: "I cannot help with that", wantErr: errNoJSONObject},
		{name: "extra field", raw: `{"recommendations":[{"recipeId":"a1","rationale":"ok","score":9}]}`, wantErr: errPayloadInvalid},
		{name: "missing rationale", raw: `{"recommendations":[{"recipeId":"a1"}]}`, wantErr: errPayloadInvalid},
		{name: "oversized rationale", raw: pick(strings.Repeat("a", 2001), "Add greens"), wantErr: errPayloadInvalid},
		{name: "oversized swap", raw: pick("ok", strings.Repeat("b", 2001)), wantErr: errPayloadInvalid},
		{name: "oversized recipe id", raw: `{"recommendations":[{"recipeId":"` + strings.Repeat("c", 65) + `","rationale":"ok"}]}`, wantErr: errPayloadInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := v.Parse(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, payload)
				return
			}
			require.NoError(t, err)
			require.Len(t, payload.Recommendations, 1)
			assert.Equal(t, "a1", payload.Recommendations[0].RecipeID)
		})
	}
}
