// Package gorm provides GORM model definitions and repositories for personalization
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alchemorsel/personalization/internal/domain/recommendation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Profile *NutritionProfileModel `gorm:"foreignKey:UserID"`
}

// NutritionProfileModel represents a user's declared nutrition profile.
// Goals and preferences are stored as free text and parsed on read.
type NutritionProfileModel struct {
	ID                 uuid.UUID   `gorm:"type:char(36);primaryKey"`
	UserID             uuid.UUID   `gorm:"type:char(36);uniqueIndex;not null"`
	Goals              StringSlice `gorm:"type:json"`
	Allergens          StringSlice `gorm:"type:json"`
	DietaryPreferences StringSlice `gorm:"type:json"`
	TastePreferences   StringSlice `gorm:"type:json"`
	BudgetTargetCents  *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PantryModel represents a named inventory location
type PantryModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Slug      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecipeModel represents the GORM model for prepared meals
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Title       string    `gorm:"type:varchar(255);not null;index"`
	Description string    `gorm:"type:text"`
	ImageURL    string    `gorm:"type:text"`
	PriceCents  int       `gorm:"default:0"`

	// Per-serving macros, NULL when unknown
	Calories     *int
	ProteinGrams *float64
	CarbsGrams   *float64
	FatGrams     *float64

	Tags       StringSlice `gorm:"type:json"`
	Allergens  StringSlice `gorm:"type:json"`
	Highlights StringSlice `gorm:"type:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InventoryItemModel is the stock reading of one recipe in one pantry
type InventoryItemModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	PantryID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_inventory_pantry_recipe"`
	RecipeID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_inventory_pantry_recipe"`
	Status    string    `gorm:"type:varchar(20);not null"`
	Quantity  int       `gorm:"default:0"`
	Unit      string    `gorm:"type:varchar(20)"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Recipe RecipeModel `gorm:"foreignKey:RecipeID"`
}

// RecommendationModel represents a persisted pick
type RecommendationModel struct {
	ID                   uuid.UUID       `gorm:"type:char(36);primaryKey"`
	UserID               uuid.UUID       `gorm:"type:char(36);not null;index"`
	RecipeID             uuid.UUID       `gorm:"type:char(36);not null"`
	HealthySwapRecipeID  *uuid.UUID      `gorm:"type:char(36)"`
	Rationale            string          `gorm:"type:text;not null"`
	HealthySwapRationale *string         `gorm:"type:text"`
	SessionID            *string         `gorm:"type:varchar(255)"`
	Metadata             RankingMetadata `gorm:"type:json"`
	Status               string          `gorm:"type:varchar(20);not null;default:'SHOWN';index"`
	CreatedAt            time.Time       `gorm:"index"`
	UpdatedAt            time.Time
}

// FeedbackEventModel represents one user reaction to a recommendation
type FeedbackEventModel struct {
	ID               uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecommendationID uuid.UUID `gorm:"type:char(36);not null;index"`
	UserID           uuid.UUID `gorm:"type:char(36);not null;index"`
	Action           string    `gorm:"type:varchar(20);not null"`
	Sentiment        string    `gorm:"type:varchar(20);not null"`
	Notes            *string   `gorm:"type:text"`
	CreatedAt        time.Time
}

// AllModels lists every model for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&NutritionProfileModel{},
		&PantryModel{},
		&RecipeModel{},
		&InventoryItemModel{},
		&RecommendationModel{},
		&FeedbackEventModel{},
	}
}

// StringSlice custom type for handling string arrays in JSON columns
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// RankingMetadata stores recommendation.Metadata as a JSON column
type RankingMetadata recommendation.Metadata

// Scan implements the sql.Scanner interface
func (m *RankingMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = RankingMetadata{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into RankingMetadata", value)
	}
}

// Value implements the driver.Valuer interface
func (m RankingMetadata) Value() (driver.Value, error) {
	if m.Adjustments == nil {
		m.Adjustments = []recommendation.Adjustment{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for NutritionProfileModel
func (p *NutritionProfileModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for PantryModel
func (p *PantryModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for InventoryItemModel
func (i *InventoryItemModel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for FeedbackEventModel
func (f *FeedbackEventModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (UserModel) TableName() string {
	return "users"
}

func (NutritionProfileModel) TableName() string {
	return "nutrition_profiles"
}

func (PantryModel) TableName() string {
	return "pantries"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

func (RecommendationModel) TableName() string {
	return "recommendations"
}

func (FeedbackEventModel) TableName() string {
	return "recommendation_feedback"
}
