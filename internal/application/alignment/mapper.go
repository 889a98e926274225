package alignment

import (
	"github.com/alchemorsel/personalization/internal/domain/recommendation"
	"github.com/alchemorsel/personalization/internal/ports/inbound"
)

func toDTO(report recommendation.AlignmentReport) *inbound.AlignmentReportDTO {
	dto := &inbound.AlignmentReportDTO{
		Goal:             report.Goal,
		AverageScore:     report.AverageScore,
		SampleCount:      report.SampleCount,
		AlignedCount:     report.AlignedCount,
		NeedsNudgeCount:  report.NeedsNudgeCount,
		OffTrackCount:    report.OffTrackCount,
		UsedFallbackData: report.UsedFallbackData,
		MacroAverages: inbound.MacroAveragesDTO{
			Calories:     report.MacroAverages.Calories,
			ProteinGrams: report.MacroAverages.ProteinGrams,
			CarbsGrams:   report.MacroAverages.CarbsGrams,
			FatGrams:     report.MacroAverages.FatGrams,
		},
		Samples: make([]inbound.AlignmentSampleDTO, 0, len(report.Samples)),
	}
	for _, s := range report.Samples {
		m := s.Recipe.Macros
		dto.Samples = append(dto.Samples, inbound.AlignmentSampleDTO{
			RecommendationID: s.RecommendationID,
			RecipeID:         s.Recipe.ID,
			Title:            s.Recipe.Title,
			Status:           string(s.Status),
			Score:            s.Score,
			Band:             string(s.Band),
			Note:             s.Note,
			Macros: inbound.MacrosDTO{
				Calories:     m.Calories,
				ProteinGrams: m.ProteinGrams,
				CarbsGrams:   m.CarbsGrams,
				FatGrams:     m.FatGrams,
				Label:        m.Label(),
			},
		})
	}
	return dto
}
