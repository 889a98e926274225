package recommendation

import (
	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/google/uuid"
)

// Band is a coarse classification of an alignment score
type Band string

const (
	BandAligned    Band = "aligned"
	BandNeedsNudge Band = "needs_nudge"
	BandOffTrack   Band = "off_track"
)

// BandFor classifies a clamped alignment score
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandAligned
	case score >= 60:
		return BandNeedsNudge
	default:
		return BandOffTrack
	}
}

// AlignmentSample is one re-scored meal. It is derived at read time and never stored.
type AlignmentSample struct {
	RecommendationID uuid.UUID
	Recipe           catalog.Recipe
	Status           Status
	Score            int
	Band             Band
	Note             string
}

// MacroAverages holds null-safe per-macro means
type MacroAverages struct {
	Calories     *float64
	ProteinGrams *float64
	CarbsGrams   *float64
	FatGrams     *float64
}

// AlignmentReport aggregates samples for one user
type AlignmentReport struct {
	Goal             string
	AverageScore     float64
	SampleCount      int
	AlignedCount     int
	NeedsNudgeCount  int
	OffTrackCount    int
	UsedFallbackData bool
	MacroAverages    MacroAverages
	Samples          []AlignmentSample
}
