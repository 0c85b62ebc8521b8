package food

import (
	"strings"

	"github.com/eatwise/eatwise-backend/pkg/db/models"
)

// DefaultSource labels items submitted without an explicit provenance.
const DefaultSource = "User Submission"

// MsgRequiredFields is returned when a submission lacks a name or ingredients.
const MsgRequiredFields = "Name and ingredients are required fields."

// CreateFoodRequest is the decoded submission form.
type CreateFoodRequest struct {
	Name                  string   `form:"name" validate:"required,max=200"`
	Ingredients           string   `form:"ingredients" validate:"required,max=5000"`
	Barcode               string   `form:"barcode" validate:"omitempty,max=64"`
	Source                string   `form:"source" validate:"omitempty,max=120"`
	Tags                  []string `form:"tags" validate:"max=50,dive,max=60"`
	Allergens             []string `form:"allergens" validate:"max=50,dive,max=60"`
	DietaryFlags          []string `form:"dietaryFlags" validate:"max=50,dive,max=60"`
	IsSafeForDiabetics    bool     `form:"isSafeForDiabetics"`
	IsSafeDuringPregnancy bool     `form:"isSafeDuringPregnancy"`
	SafetyScore           *int     `form:"safetyScore" validate:"omitempty,gte=0,lte=100"`
	UserNotes             string   `form:"userNotes" validate:"max=2000"`

	// ImageDataURI is the prepared image, empty when none was uploaded.
	ImageDataURI string `form:"-"`
}

// SplitIngredients splits a comma-separated list, trimming each token and
// dropping empty ones.
func SplitIngredients(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if token := strings.TrimSpace(part); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// toModel normalizes the request into a new item. ImageURL is filled in by
// the caller after upload.
func (r CreateFoodRequest) toModel() models.FoodItem {
	item := models.FoodItem{
		Name:                  strings.TrimSpace(r.Name),
		Ingredients:           SplitIngredients(r.Ingredients),
		Source:                strings.TrimSpace(r.Source),
		Tags:                  models.NormalizeTokens(r.Tags),
		Allergens:             models.NormalizeTokens(r.Allergens),
		DietaryFlags:          models.NormalizeTokens(r.DietaryFlags),
		IsSafeForDiabetics:    r.IsSafeForDiabetics,
		IsSafeDuringPregnancy: r.IsSafeDuringPregnancy,
		SafetyScore:           r.SafetyScore,
	}
	if item.Source == "" {
		item.Source = DefaultSource
	}
	if barcode := strings.TrimSpace(r.Barcode); barcode != "" {
		item.Barcode = &barcode
	}
	if notes := strings.TrimSpace(r.UserNotes); notes != "" {
		item.UserNotes = &notes
	}
	return item
}

// SeedResult summarizes an admin seed run.
type SeedResult struct {
	Inserted       int
	AlreadyExisted int
	Failed         int
}
