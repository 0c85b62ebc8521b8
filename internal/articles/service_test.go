package articles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eatwise/eatwise-backend/pkg/db/models"
	"github.com/eatwise/eatwise-backend/pkg/enums"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/eatwise/eatwise-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	listQuery  ListQuery
	listCursor *pagination.Cursor
	listLimit  int
	listed     []models.BlogArticle
	articles  map[string]*models.BlogArticle
	created   []*models.BlogArticle
	createErr error
}

func (r *stubRepo) ListPublished(ctx context.Context, q ListQuery, cursor *pagination.Cursor, limit int) ([]models.BlogArticle, error) {
	r.listQuery = q
	r.listCursor = cursor
	r.listLimit = limit
	if len(r.listed) > limit {
		return r.listed[:limit], nil
	}
	return r.listed, nil
}

func (r *stubRepo) ViewPublished(ctx context.Context, slug string) (*models.BlogArticle, error) {
	a, ok := r.articles[slug]
	if !ok || a.Status != enums.ArticleStatusPublished {
		return nil, ErrNotFound
	}
	a.Views++
	return a, nil
}

func (r *stubRepo) Create(ctx context.Context, article *models.BlogArticle) error {
	if r.createErr != nil {
		return r.createErr
	}
	article.ID = uuid.New()
	r.created = append(r.created, article)
	return nil
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":             "hello-world",
		"  Halal & Vegan: A Guide ": "halal-vegan-a-guide",
		"Crème Brûlée":              "cr-me-br-l-e",
		"---":                       "",
		"2025 Top 10":               "2025-top-10",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCreateDerivesSlugAndDefaults(t *testing.T) {
	r := &stubRepo{}
	svc, err := NewService(r)
	require.NoError(t, err)
	author := uuid.New()

	article, err := svc.Create(context.Background(), author, CreateArticleRequest{
		Title:   " Reading Food Labels ",
		Content: "Start with the ingredient list.",
		Tags:    []string{"Labels", "labels", "Basics"},
	})
	require.NoError(t, err)

	assert.Equal(t, "reading-food-labels", article.Slug)
	assert.Equal(t, "Reading Food Labels", article.Title)
	assert.Equal(t, enums.ArticleStatusDraft, article.Status)
	assert.Equal(t, author, article.AuthorID)
	assert.Equal(t, []string{"labels", "basics"}, []string(article.Tags))
}

func TestCreateUsesExplicitSlug(t *testing.T) {
	r := &stubRepo{}
	svc, _ := NewService(r)

	article, err := svc.Create(context.Background(), uuid.New(), CreateArticleRequest{
		Title: "Anything", Slug: "My Custom Slug", Content: "x", Status: "published",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-custom-slug", article.Slug)
	assert.Equal(t, enums.ArticleStatusPublished, article.Status)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := NewService(&stubRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateArticleRequest{Title: " ", Content: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), uuid.New(), CreateArticleRequest{Title: "!!!", Content: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), uuid.New(), CreateArticleRequest{Title: "t", Content: "x", Status: "archived"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), uuid.Nil, CreateArticleRequest{Title: "t", Content: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestCreateDuplicateSlugIsConflict(t *testing.T) {
	svc, _ := NewService(&stubRepo{createErr: ErrDuplicateSlug})
	_, err := svc.Create(context.Background(), uuid.New(), CreateArticleRequest{Title: "t", Content: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestViewCountsReads(t *testing.T) {
	r := &stubRepo{articles: map[string]*models.BlogArticle{
		"published": {Slug: "published", Status: enums.ArticleStatusPublished},
		"draft":     {Slug: "draft", Status: enums.ArticleStatusDraft},
	}}
	svc, _ := NewService(r)

	article, err := svc.View(context.Background(), " Published ")
	require.NoError(t, err)
	assert.Equal(t, 1, article.Views)

	_, err = svc.View(context.Background(), "draft")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.View(context.Background(), "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListNormalizesFilters(t *testing.T) {
	r := &stubRepo{}
	svc, _ := NewService(r)

	_, err := svc.List(context.Background(), ListQuery{Category: " Nutrition ", Tag: " Vegan "})
	require.NoError(t, err)
	assert.Equal(t, ListQuery{Category: "Nutrition", Tag: "vegan", Limit: pagination.DefaultLimit}, r.listQuery)
	assert.Nil(t, r.listCursor)
	assert.Equal(t, pagination.DefaultLimit+1, r.listLimit)
}

func TestListReturnsNextCursorWhenMoreRowsExist(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r := &stubRepo{}
	for i := 0; i < 3; i++ {
		r.listed = append(r.listed, models.BlogArticle{ID: uuid.New(), CreatedAt: base.Add(-time.Duration(i) * time.Hour)})
	}
	svc, _ := NewService(r)

	page, err := svc.List(context.Background(), ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Articles, 2)
	require.NotEmpty(t, page.NextCursor)

	cursor, err := pagination.ParseCursor(page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, r.listed[1].ID, cursor.ID)
	assert.True(t, r.listed[1].CreatedAt.Equal(cursor.CreatedAt))

	_, err = svc.List(context.Background(), ListQuery{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.NotNil(t, r.listCursor)
	assert.Equal(t, r.listed[1].ID, r.listCursor.ID)
}

func TestListLastPageHasNoCursor(t *testing.T) {
	r := &stubRepo{listed: []models.BlogArticle{{ID: uuid.New()}}}
	svc, _ := NewService(r)

	page, err := svc.List(context.Background(), ListQuery{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Articles, 1)
	assert.Empty(t, page.NextCursor)
}

func TestListRejectsMalformedCursor(t *testing.T) {
	svc, _ := NewService(&stubRepo{})
	_, err := svc.List(context.Background(), ListQuery{Cursor: "not-a-cursor"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

type failingRepo struct{ stubRepo }

func (failingRepo) ListPublished(context.Context, ListQuery, *pagination.Cursor, int) ([]models.BlogArticle, error) {
	return nil, errors.New("boom")
}

func TestListWrapsErrors(t *testing.T) {
	svc, _ := NewService(&failingRepo{})
	_, err := svc.List(context.Background(), ListQuery{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}
