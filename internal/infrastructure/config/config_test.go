package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Cache.Provider)
	assert.Equal(t, 3, cfg.Recommendation.DefaultLimit)
	assert.Equal(t, 12, cfg.Recommendation.SampleCap)
	assert.Equal(t, "system", cfg.Recommendation.SystemPantrySlug)
	assert.Equal(t, 5*time.Minute, cfg.Recommendation.PantryCacheTTL)
	assert.Equal(t, 280, cfg.Recommendation.RationaleMaxLength)
	assert.Equal(t, 200, cfg.Recommendation.SwapMaxLength)
	assert.Equal(t, 12*time.Second, cfg.AI.Timeout())
	assert.False(t, cfg.Features.EnableLLMReranking)
	assert.NotEmpty(t, cfg.File())
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("ALCHEMORSEL_RECOMMENDATION_DEFAULT_LIMIT", "5")
	t.Setenv("ALCHEMORSEL_FEATURES_ENABLE_LLM_RERANKING", "true")

	cfg, err := Load(writeConfig(t, "app:\n  name: test\n"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Recommendation.DefaultLimit)
	assert.True(t, cfg.Features.EnableLLMReranking)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"limit out of range", "recommendation:\n  default_limit: 9\n", "default_limit"},
		{"unknown driver", "database:\n  driver: mysql\n", "database.driver"},
		{"unknown cache", "cache:\n  provider: memcached\n", "cache.provider"},
		{"unknown ai provider", "ai:\n  provider: bard\n", "ai.provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFeatureFlags(t *testing.T) {
	path := writeConfig(t, "features:\n  enable_llm_reranking: true\n  require_ai_ranking: true\n")

	flags, err := LoadFeatureFlags(path)
	require.NoError(t, err)
	assert.True(t, flags.EnableLLMReranking)
	assert.True(t, flags.RequireAIRanking)
}

func TestFeatureSwitch(t *testing.T) {
	sw := NewFeatureSwitch(FeatureFlags{EnableLLMReranking: true})
	assert.True(t, sw.LLMRerankingEnabled())
	assert.False(t, sw.AIRankingRequired())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sw.Store(FeatureFlags{EnableLLMReranking: i%2 == 0, RequireAIRanking: true})
			_ = sw.LLMRerankingEnabled()
		}(i)
	}
	wg.Wait()

	assert.True(t, sw.AIRankingRequired())
}
