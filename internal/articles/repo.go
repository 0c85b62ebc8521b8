package articles

import (
	"context"
	"errors"

	"github.com/eatwise/eatwise-backend/internal/repo"
	"github.com/eatwise/eatwise-backend/pkg/db"
	"github.com/eatwise/eatwise-backend/pkg/db/models"
	"github.com/eatwise/eatwise-backend/pkg/enums"
	"github.com/eatwise/eatwise-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound      = errors.New("article not found")
	ErrDuplicateSlug = errors.New("article slug already exists")
)

// Repository persists blog articles.
type Repository struct {
	base repo.Base
}

func NewRepository(src db.Source) (*Repository, error) {
	base, err := repo.NewBase(src)
	if err != nil {
		return nil, err
	}
	return &Repository{base: base}, nil
}

// ListPublished returns up to limit published articles, newest first,
// starting after cursor when one is given.
func (r *Repository) ListPublished(ctx context.Context, q ListQuery, cursor *pagination.Cursor, limit int) ([]models.BlogArticle, error) {
	out := []models.BlogArticle{}
	err := r.base.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Where("status = ?", enums.ArticleStatusPublished)
		if q.Category != "" {
			query = query.Where("category = ?", q.Category)
		}
		if q.Tag != "" {
			query = query.Where("? = ANY(tags)", q.Tag)
		}
		if cursor != nil {
			query = query.Where("(created_at < ?) OR (created_at = ? AND id > ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		}
		return query.Order("created_at DESC").Order("id ASC").Limit(limit).Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ViewPublished increments the view counter of the published article with
// slug in a single statement and returns the updated row.
func (r *Repository) ViewPublished(ctx context.Context, slug string) (*models.BlogArticle, error) {
	var article models.BlogArticle
	err := r.base.Run(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&article).
			Clauses(clause.Returning{}).
			Where("slug = ? AND status = ?", slug, enums.ArticleStatusPublished).
			UpdateColumn("views", gorm.Expr("views + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *Repository) Create(ctx context.Context, article *models.BlogArticle) error {
	err := r.base.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(article).Error
	})
	if db.IsUniqueViolation(err, "uq_blog_articles_slug") {
		return ErrDuplicateSlug
	}
	return err
}
