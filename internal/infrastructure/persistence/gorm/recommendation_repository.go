package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/personalization/internal/domain/recommendation"
	"github.com/alchemorsel/personalization/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecommendationRepository implements the recommendation repository interface using GORM
type RecommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *gorm.DB) outbound.RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// CreateBatch inserts all recommendations of one request in a single transaction
func (r *RecommendationRepository) CreateBatch(ctx context.Context, recs []*recommendation.Recommendation) error {
	if len(recs) == 0 {
		return recommendation.ErrEmptySelection
	}

	models := make([]*RecommendationModel, 0, len(recs))
	for _, rec := range recs {
		models = append(models, RecommendationToModel(rec))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&models).Error
	})
	if err != nil {
		return fmt.Errorf("create recommendations: %w", err)
	}

	return nil
}

// RecordFeedback stores the event and flips the recommendation status in one transaction
func (r *RecommendationRepository) RecordFeedback(ctx context.Context, event *recommendation.FeedbackEvent) (*recommendation.Recommendation, error) {
	var updated *recommendation.Recommendation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model RecommendationModel
		result := tx.Where("id = ? AND user_id = ?", event.RecommendationID, event.UserID).First(&model)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return recommendation.ErrRecommendationNotFound
			}
			return result.Error
		}

		if err := tx.Create(FeedbackToModel(event)).Error; err != nil {
			return err
		}

		rec := ModelToRecommendation(&model)
		rec.Apply(event.Action)

		result = tx.Model(&RecommendationModel{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"status":     string(rec.Status),
				"updated_at": rec.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}

		updated = rec
		return nil
	})
	if err != nil {
		if errors.Is(err, recommendation.ErrRecommendationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("record feedback: %w", err)
	}

	return updated, nil
}

// FindEngaged returns the user's most recently updated recommendations in the given statuses
func (r *RecommendationRepository) FindEngaged(ctx context.Context, userID uuid.UUID, statuses []recommendation.Status, limit int) ([]*recommendation.Recommendation, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	var models []RecommendationModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, values).
		Order("updated_at DESC").
		Order("id ASC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("find engaged recommendations: %w", result.Error)
	}

	return toRecommendations(models), nil
}

// FindRecent returns the user's most recently created recommendations
func (r *RecommendationRepository) FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error) {
	var models []RecommendationModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id ASC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("find recent recommendations: %w", result.Error)
	}

	return toRecommendations(models), nil
}

func toRecommendations(models []RecommendationModel) []*recommendation.Recommendation {
	recs := make([]*recommendation.Recommendation, 0, len(models))
	for i := range models {
		recs = append(recs, ModelToRecommendation(&models[i]))
	}
	return recs
}
