package config

import "sync/atomic"

// FeatureSwitch holds the live feature flags. Readers never block; Store
// replaces the whole set at once.
type FeatureSwitch struct {
	current atomic.Pointer[FeatureFlags]
}

// NewFeatureSwitch creates a switch holding flags
func NewFeatureSwitch(flags FeatureFlags) *FeatureSwitch {
	s := &FeatureSwitch{}
	s.Store(flags)
	return s
}

// Store swaps in a new flag set
func (s *FeatureSwitch) Store(flags FeatureFlags) {
	s.current.Store(&flags)
}

// Load returns the current flag set
func (s *FeatureSwitch) Load() FeatureFlags {
	return *s.current.Load()
}

// LLMRerankingEnabled reports whether model reranking may be attempted
func (s *FeatureSwitch) LLMRerankingEnabled() bool {
	return s.Load().EnableLLMReranking
}

// AIRankingRequired reports whether a request must fail without a model ranking
func (s *FeatureSwitch) AIRankingRequired() bool {
	return s.Load().RequireAIRanking
}
