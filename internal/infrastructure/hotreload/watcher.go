// Package hotreload watches the configuration file and applies feature flag
// changes without a restart
package hotreload

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/alchemorsel/personalization/internal/infrastructure/config"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 250 * time.Millisecond

// FlagWatcher reloads the features section whenever the config file changes
type FlagWatcher struct {
	path     string
	flags    *config.FeatureSwitch
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	done   chan struct{}
}

// NewFlagWatcher creates a watcher for the config file at path
func NewFlagWatcher(path string, flags *config.FeatureSwitch, logger *zap.Logger) (*FlagWatcher, error) {
	if path == "" {
		return nil, fmt.Errorf("no config file to watch")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Editors often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &FlagWatcher{
		path:     abs,
		flags:    flags,
		watcher:  watcher,
		debounce: defaultDebounce,
		logger:   logger.Named("flag-watcher"),
	}, nil
}

// Start begins watching in the background
func (fw *FlagWatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	fw.cancel = cancel
	fw.done = make(chan struct{})

	go fw.watchLoop(ctx)
	fw.logger.Info("Watching config for feature flag changes", zap.String("path", fw.path))
}

// Stop gracefully shuts down the watcher
func (fw *FlagWatcher) Stop() error {
	if fw.cancel != nil {
		fw.cancel()
		<-fw.done
	}

	fw.mu.Lock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.mu.Unlock()

	return fw.watcher.Close()
}

func (fw *FlagWatcher) watchLoop(ctx context.Context) {
	defer close(fw.done)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fw.schedule()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

// schedule debounces bursts of writes into one reload
func (fw *FlagWatcher) schedule() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, fw.reload)
}

func (fw *FlagWatcher) reload() {
	flags, err := config.LoadFeatureFlags(fw.path)
	if err != nil {
		// keep serving with the previous flags
		fw.logger.Error("Failed to reload feature flags", zap.Error(err))
		return
	}

	previous := fw.flags.Load()
	fw.flags.Store(flags)

	fw.logger.Info("Feature flags reloaded",
		zap.Bool("enable_llm_reranking", flags.EnableLLMReranking),
		zap.Bool("require_ai_ranking", flags.RequireAIRanking),
		zap.Bool("changed", previous != flags),
	)
}
