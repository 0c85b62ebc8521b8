package food

import (
	"context"
	"errors"
	"fmt"

	"github.com/eatwise/eatwise-backend/pkg/db/models"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/eatwise/eatwise-backend/pkg/metrics"
	"github.com/lib/pq"
	"go.uber.org/multierr"
)

const (
	seedSource   = "Admin Seeded"
	seedLockName = "admin_seed_food"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// SampleItems returns the fixed catalogue inserted by Seed.
func SampleItems() []models.FoodItem {
	return []models.FoodItem{
		{
			Name:         "Organic Apples",
			Barcode:      strPtr("000000000001"),
			Ingredients:  pq.StringArray{"Organic Apples"},
			Tags:         pq.StringArray{"fruit", "organic", "healthy"},
			Allergens:    pq.StringArray{},
			DietaryFlags: pq.StringArray{"vegan", "gluten-free", "halal", "kosher", "diabetic-friendly", "pregnancy-safe"},
			SafetyScore:  intPtr(95),
			UserNotes:    strPtr("Crisp and delicious. Great for snacking."),
			ImageURL:     "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6?q=80&w=800",
			Source:       seedSource,
		},
		{
			Name:         "Whole Wheat Bread",
			Barcode:      strPtr("000000000002"),
			Ingredients:  pq.StringArray{"Whole Wheat Flour", "Water", "Yeast", "Salt", "Sugar"},
			Tags:         pq.StringArray{"bread", "bakery", "whole-grain"},
			Allergens:    pq.StringArray{"gluten", "wheat"},
			DietaryFlags: pq.StringArray{"vegan", "halal", "kosher"},
			SafetyScore:  intPtr(80),
			UserNotes:    strPtr("Good for sandwiches. Contains gluten."),
			ImageURL:     "https://images.unsplash.com/photo-1598373182133-52452f7691ef?q=80&w=800",
			Source:       seedSource,
		},
		{
			Name:    "Almond Milk (Unsweetened)",
			Barcode: strPtr("000000000003"),
			Ingredients: pq.StringArray{
				"Water", "Almonds", "Calcium Carbonate", "Sea Salt", "Potassium Citrate", "Sunflower Lecithin",
				"Gellan Gum", "Vitamin A Palmitate", "Vitamin D2", "D-Alpha-Tocopherol (Natural Vitamin E)",
			},
			Tags:         pq.StringArray{"milk-alternative", "dairy-free", "vegan"},
			Allergens:    pq.StringArray{"nuts", "almonds"},
			DietaryFlags: pq.StringArray{"vegan", "gluten-free", "dairy-free", "halal", "kosher", "diabetic-friendly", "pregnancy-safe"},
			SafetyScore:  intPtr(90),
			UserNotes:    strPtr("Great alternative to dairy milk."),
			ImageURL:     "https://images.unsplash.com/photo-1620189507195-68309c04c4d0?q=80&w=800",
			Source:       seedSource,
		},
		{
			Name:    "Spicy Jalapeño Chips",
			Barcode: strPtr("000000000004"),
			Ingredients: pq.StringArray{
				"Potatoes",
				"Vegetable Oil (Sunflower, Corn, and/or Canola Oil)",
				"Jalapeño Seasoning (Maltodextrin [Made From Corn], Salt, Dextrose, Onion Powder, Torula Yeast, Spices, Whey, Paprika, Natural Flavors, Sunflower Oil, Garlic Powder, Jalapeño Pepper Powder, And Artificial Flavors)",
			},
			Tags:         pq.StringArray{"snacks", "chips", "spicy"},
			Allergens:    pq.StringArray{"dairy", "milk"},
			DietaryFlags: pq.StringArray{"vegetarian", "kosher"},
			SafetyScore:  intPtr(60),
			UserNotes:    strPtr("Very spicy! Contains dairy."),
			ImageURL:     "https://images.unsplash.com/photo-1599490659273-495f3c17c1b2?q=80&w=800",
			Source:       seedSource,
		},
		{
			Name:    "Canned Chickpeas",
			Barcode: strPtr("000000000005"),
			Ingredients: pq.StringArray{
				"Prepared Chickpeas", "Water", "Salt", "Calcium Chloride (Firming Agent)",
				"Disodium EDTA (To Promote Color Retention)",
			},
			Tags:         pq.StringArray{"legumes", "canned-food", "protein"},
			Allergens:    pq.StringArray{},
			DietaryFlags: pq.StringArray{"vegan", "gluten-free", "halal", "kosher", "diabetic-friendly", "pregnancy-safe"},
			SafetyScore:  intPtr(88),
			UserNotes:    strPtr("Versatile for salads, hummus, or stews."),
			ImageURL:     "https://images.unsplash.com/photo-1603513492128-ba7bc9b06358?q=80&w=800",
			Source:       seedSource,
		},
	}
}

// Seed inserts the sample items whose barcodes are not present yet. Inserts
// are independent: one failure does not stop the rest.
func (s *service) Seed(ctx context.Context) (*SeedResult, error) {
	if s.locker != nil {
		release, acquired, err := s.locker.AcquireLock(ctx, seedLockName, s.seedLockTTL)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed lock unavailable")
		}
		if !acquired {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "A seed run is already in progress")
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logg.Error(ctx, "food.seed.release_lock_failed", err)
			}
		}()
	}

	samples := SampleItems()
	barcodes := make([]string, 0, len(samples))
	for _, item := range samples {
		barcodes = append(barcodes, *item.Barcode)
	}

	existing, err := s.repo.ExistingBarcodes(ctx, barcodes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Error seeding food items")
	}

	result := &SeedResult{}
	var errs error
	for i := range samples {
		item := samples[i]
		if _, ok := existing[*item.Barcode]; ok {
			result.AlreadyExisted++
			continue
		}
		if err := s.repo.Create(ctx, &item); err != nil {
			if errors.Is(err, ErrDuplicateBarcode) {
				result.AlreadyExisted++
				continue
			}
			result.Failed++
			errs = multierr.Append(errs, fmt.Errorf("insert %s: %w", *item.Barcode, err))
			continue
		}
		result.Inserted++
	}

	s.metrics.AddSeeded(metrics.OutcomeInserted, result.Inserted)
	s.metrics.AddSeeded(metrics.OutcomeExisted, result.AlreadyExisted)
	s.metrics.AddSeeded(metrics.OutcomeFailed, result.Failed)

	if errs != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"inserted":        result.Inserted,
			"already_existed": result.AlreadyExisted,
			"failed":          result.Failed,
		})
		s.logg.Error(ctx, "food.seed.partial_failure", errs)
		if result.Inserted == 0 && result.AlreadyExisted == 0 {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, errs, "Error seeding food items")
		}
	}
	return result, nil
}

// SeedMessage renders the summary returned to the caller.
func SeedMessage(r SeedResult) string {
	return fmt.Sprintf("Food items seeded successfully. Inserted: %d new items. %d items already existed.", r.Inserted, r.AlreadyExisted)
}
