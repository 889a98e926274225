package hotreload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alchemorsel/personalization/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFlagWatcher_ReloadsFeatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("features:\n  enable_llm_reranking: false\n"), 0o600))

	flags := config.NewFeatureSwitch(config.FeatureFlags{})
	watcher, err := NewFlagWatcher(path, flags, zaptest.NewLogger(t))
	require.NoError(t, err)
	watcher.debounce = 10 * time.Millisecond
	watcher.Start()
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte("features:\n  enable_llm_reranking: true\n  require_ai_ranking: true\n"), 0o600))

	assert.Eventually(t, func() bool {
		return flags.LLMRerankingEnabled() && flags.AIRankingRequired()
	}, 3*time.Second, 20*time.Millisecond)
}

func TestFlagWatcher_KeepsFlagsOnBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("features:\n  enable_llm_reranking: true\n"), 0o600))

	flags := config.NewFeatureSwitch(config.FeatureFlags{EnableLLMReranking: true})
	watcher, err := NewFlagWatcher(path, flags, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("features: [unterminated"), 0o600))
	watcher.reload()

	assert.True(t, flags.LLMRerankingEnabled())
	require.NoError(t, watcher.watcher.Close())
}

func TestNewFlagWatcher_RequiresPath(t *testing.T) {
	_, err := NewFlagWatcher("", config.NewFeatureSwitch(config.FeatureFlags{}), zaptest.NewLogger(t))
	assert.Error(t, err)
}
