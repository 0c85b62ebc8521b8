package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eatwise/eatwise-backend/api/responses"
	"github.com/eatwise/eatwise-backend/api/validators"
	"github.com/eatwise/eatwise-backend/internal/articles"
	"github.com/eatwise/eatwise-backend/pkg/logger"
	"github.com/eatwise/eatwise-backend/pkg/pagination"
)

// ListArticles returns a page of published articles filtered by ?category=
// and ?tag=, continued with ?cursor=.
func ListArticles(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), articles.ListQuery{
			Category: validators.QueryString(r, "category", 60),
			Tag:      validators.QueryString(r, "tag", 40),
			Limit:    limit,
			Cursor:   validators.QueryString(r, "cursor", 200),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Articles fetched successfully", page)
	}
}

func GetArticle(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		article, err := svc.View(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Article fetched successfully", article)
	}
}

// AdminCreateArticle creates an article authored by the caller.
func AdminCreateArticle(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req articles.CreateArticleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		article, err := svc.Create(r.Context(), uid, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "Article created successfully", article)
	}
}
