package gorm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/alchemorsel/personalization/internal/ports/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProfileRepository implements the profile repository interface using GORM
type ProfileRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB, logger *zap.Logger) outbound.ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger.Named("profile-repository"),
	}
}

// FindUserByID finds a user by ID
func (r *ProfileRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*profile.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, profile.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", result.Error)
	}

	return ModelToUser(&model), nil
}

// FindUserByEmail finds a user by email, case-insensitively
func (r *ProfileRepository) FindUserByEmail(ctx context.Context, email string) (*profile.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, "email = ?", strings.ToLower(strings.TrimSpace(email)))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, profile.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", result.Error)
	}

	return ModelToUser(&model), nil
}

// FindProfile loads and parses the user's nutrition profile
func (r *ProfileRepository) FindProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	var model NutritionProfileModel

	result := r.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", result.Error)
	}

	p, unknown := profile.Build(ModelToRawProfile(&model))
	if len(unknown) > 0 {
		r.logger.Warn("Dropped unrecognized profile values",
			zap.String("user_id", userID.String()),
			zap.Strings("values", unknown),
		)
	}

	return p, nil
}
