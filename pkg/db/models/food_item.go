package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// FoodItem is a catalogued product with its ingredient and dietary profile.
// Barcode is nullable so the unique index only applies to items that have one.
type FoodItem struct {
	ID                    uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name                  string         `gorm:"column:name;not null" json:"name"`
	Barcode               *string        `gorm:"column:barcode;uniqueIndex:uq_food_items_barcode" json:"barcode,omitempty"`
	Ingredients           pq.StringArray `gorm:"column:ingredients;type:text[];not null;default:'{}'" json:"ingredients"`
	ImageURL              string         `gorm:"column:image_url;not null;default:''" json:"imageUrl"`
	Source                string         `gorm:"column:source;not null" json:"source"`
	Tags                  pq.StringArray `gorm:"column:tags;type:text[];not null;default:'{}'" json:"tags"`
	Allergens             pq.StringArray `gorm:"column:allergens;type:text[];not null;default:'{}'" json:"allergens"`
	DietaryFlags          pq.StringArray `gorm:"column:dietary_flags;type:text[];not null;default:'{}'" json:"dietaryFlags"`
	IsSafeForDiabetics    bool           `gorm:"column:is_safe_for_diabetics;not null;default:false" json:"isSafeForDiabetics"`
	IsSafeDuringPregnancy bool           `gorm:"column:is_safe_during_pregnancy;not null;default:false" json:"isSafeDuringPregnancy"`
	SafetyScore           *int           `gorm:"column:safety_score" json:"safetyScore,omitempty"`
	UserNotes             *string        `gorm:"column:user_notes" json:"userNotes,omitempty"`
	CreatedAt             time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt             time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (FoodItem) TableName() string {
	return "food_items"
}
