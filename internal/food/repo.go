package food

import (
	"context"
	"errors"
	"strings"

	"github.com/eatwise/eatwise-backend/internal/repo"
	"github.com/eatwise/eatwise-backend/pkg/db"
	"github.com/eatwise/eatwise-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SearchLimit caps the number of search results.
const SearchLimit = 20

const barcodeConstraint = "uq_food_items_barcode"

// ErrDuplicateBarcode is returned by Create when another item holds the barcode.
var ErrDuplicateBarcode = errors.New("food item barcode already exists")

// Repository persists food items.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository backed by the shared store handle.
func NewRepository(src db.Source) (*Repository, error) {
	base, err := repo.NewBase(src)
	if err != nil {
		return nil, err
	}
	return &Repository{base: base}, nil
}

// List returns every item, newest first.
func (r *Repository) List(ctx context.Context) ([]models.FoodItem, error) {
	items := []models.FoodItem{}
	err := r.base.Run(ctx, func(tx *gorm.DB) error {
		return tx.Order("created_at DESC").Order("id ASC").Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID returns gorm.ErrRecordNotFound when no item matches.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	err := r.base.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&item, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Search matches q as a literal, case-insensitive substring of the name or any
// ingredient, or exactly against the barcode. Barcode hits sort first.
func (r *Repository) Search(ctx context.Context, q string, limit int) ([]models.FoodItem, error) {
	if limit <= 0 || limit > SearchLimit {
		limit = SearchLimit
	}
	pattern := "%" + escapeLike(q) + "%"
	items := []models.FoodItem{}
	err := r.base.Run(ctx, func(tx *gorm.DB) error {
		return tx.
			Where("name ILIKE ? OR EXISTS (SELECT 1 FROM unnest(ingredients) AS ingredient WHERE ingredient ILIKE ?) OR barcode = ?", pattern, pattern, q).
			Order(clause.OrderBy{Expression: clause.Expr{SQL: "COALESCE(barcode = ?, false) DESC", Vars: []any{q}, WithoutParentheses: true}}).
			Order("lower(name) ASC").
			Order("id ASC").
			Limit(limit).
			Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts item and fills in the store-assigned fields.
func (r *Repository) Create(ctx context.Context, item *models.FoodItem) error {
	err := r.base.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(item).Error
	})
	if db.IsUniqueViolation(err, barcodeConstraint) {
		return ErrDuplicateBarcode
	}
	return err
}

// ExistingBarcodes reports which of barcodes are already held by an item.
func (r *Repository) ExistingBarcodes(ctx context.Context, barcodes []string) (map[string]struct{}, error) {
	existing := map[string]struct{}{}
	if len(barcodes) == 0 {
		return existing, nil
	}
	var found []string
	err := r.base.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&models.FoodItem{}).Where("barcode IN ?", barcodes).Pluck("barcode", &found).Error
	})
	if err != nil {
		return nil, err
	}
	for _, b := range found {
		existing[b] = struct{}{}
	}
	return existing, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards using the default backslash escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
