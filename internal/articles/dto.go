package articles

import (
	"github.com/eatwise/eatwise-backend/pkg/db/models"
)

// ListQuery filters the published article listing. Empty fields match all.
// Cursor is the opaque value returned as NextCursor by the previous page.
type ListQuery struct {
	Category string
	Tag      string
	Limit    int
	Cursor   string
}

// ListResult is one page of published articles.
type ListResult struct {
	Articles   []models.BlogArticle `json:"articles"`
	NextCursor string               `json:"nextCursor,omitempty"`
}

// CreateArticleRequest is the admin payload for a new article.
type CreateArticleRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Slug           string   `json:"slug" validate:"omitempty,max=120"`
	Content        string   `json:"content" validate:"required"`
	Excerpt        *string  `json:"excerpt" validate:"omitempty,max=500"`
	Category       string   `json:"category" validate:"max=60"`
	Tags           []string `json:"tags" validate:"max=20,dive,max=40"`
	Status         string   `json:"status" validate:"omitempty,oneof=draft published"`
	FeaturedImage  *string  `json:"featuredImage" validate:"omitempty,url"`
	SEOTitle       *string  `json:"seoTitle" validate:"omitempty,max=70"`
	SEODescription *string  `json:"seoDescription" validate:"omitempty,max=160"`
}
