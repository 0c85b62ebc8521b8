package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/eatwise/eatwise-backend/pkg/enums"
)

// BlogArticle is an editorial piece surfaced on the blog.
type BlogArticle struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title          string              `gorm:"column:title;not null" json:"title"`
	Slug           string              `gorm:"column:slug;not null;uniqueIndex:uq_blog_articles_slug" json:"slug"`
	Content        string              `gorm:"column:content;not null" json:"content"`
	Excerpt        *string             `gorm:"column:excerpt" json:"excerpt,omitempty"`
	AuthorID       uuid.UUID           `gorm:"column:author_id;type:uuid;not null" json:"authorId"`
	Category       string              `gorm:"column:category;not null;default:''" json:"category"`
	Tags           pq.StringArray      `gorm:"column:tags;type:text[];not null;default:'{}'" json:"tags"`
	Status         enums.ArticleStatus `gorm:"column:status;not null;default:'draft'" json:"status"`
	FeaturedImage  *string             `gorm:"column:featured_image" json:"featuredImage,omitempty"`
	SEOTitle       *string             `gorm:"column:seo_title" json:"seoTitle,omitempty"`
	SEODescription *string             `gorm:"column:seo_description" json:"seoDescription,omitempty"`
	Views          int                 `gorm:"column:views;not null;default:0" json:"views"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (BlogArticle) TableName() string {
	return "blog_articles"
}
