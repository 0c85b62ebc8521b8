package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eatwise/eatwise-backend/pkg/db/models"
	"github.com/eatwise/eatwise-backend/pkg/enums"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/eatwise/eatwise-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service exposes the blog operations.
type Service interface {
	List(ctx context.Context, q ListQuery) (*ListResult, error)
	View(ctx context.Context, slug string) (*models.BlogArticle, error)
	Create(ctx context.Context, authorID uuid.UUID, req CreateArticleRequest) (*models.BlogArticle, error)
}

type repository interface {
	ListPublished(ctx context.Context, q ListQuery, cursor *pagination.Cursor, limit int) ([]models.BlogArticle, error)
	ViewPublished(ctx context.Context, slug string) (*models.BlogArticle, error)
	Create(ctx context.Context, article *models.BlogArticle) error
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("articles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	q.Category = strings.TrimSpace(q.Category)
	q.Tag = strings.ToLower(strings.TrimSpace(q.Tag))
	q.Limit = pagination.NormalizeLimit(q.Limit)

	cursor, err := pagination.ParseCursor(q.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	items, err := s.repo.ListPublished(ctx, q, cursor, pagination.LimitWithBuffer(q.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list articles")
	}

	result := &ListResult{Articles: items}
	if len(items) > q.Limit {
		result.Articles = items[:q.Limit]
		last := result.Articles[q.Limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

// View returns a published article and counts the read.
func (s *service) View(ctx context.Context, slug string) (*models.BlogArticle, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Article not found")
	}
	article, err := s.repo.ViewPublished(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Article not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load article")
	}
	return article, nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, req CreateArticleRequest) (*models.BlogArticle, error) {
	if authorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "author required")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Title and content are required fields.")
	}

	slug := Slugify(req.Slug)
	if strings.TrimSpace(req.Slug) == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug could not be derived from title").
			WithDetails(map[string]string{"slug": "is required"})
	}

	status := enums.ArticleStatusDraft
	if req.Status != "" {
		parsed, err := enums.ParseArticleStatus(req.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		status = parsed
	}

	article := &models.BlogArticle{
		Title:          title,
		Slug:           slug,
		Content:        req.Content,
		Excerpt:        trimmedPtr(req.Excerpt),
		AuthorID:       authorID,
		Category:       strings.TrimSpace(req.Category),
		Tags:           models.NormalizeTokens(req.Tags),
		Status:         status,
		FeaturedImage:  trimmedPtr(req.FeaturedImage),
		SEOTitle:       trimmedPtr(req.SEOTitle),
		SEODescription: trimmedPtr(req.SEODescription),
	}
	if err := s.repo.Create(ctx, article); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "An article with this slug already exists.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create article")
	}
	return article, nil
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
