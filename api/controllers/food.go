package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eatwise/eatwise-backend/api/responses"
	"github.com/eatwise/eatwise-backend/api/validators"
	"github.com/eatwise/eatwise-backend/internal/food"
	"github.com/eatwise/eatwise-backend/internal/media"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/eatwise/eatwise-backend/pkg/logger"
)

const maxSearchQueryLen = 200

// ListFood returns every food item, newest first.
func ListFood(svc food.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Food items fetched successfully", items)
	}
}

// GetFood returns a single item by id.
func GetFood(svc food.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Food item fetched successfully", item)
	}
}

// SearchFood matches ?q= against names, ingredients and barcodes.
func SearchFood(svc food.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := validators.RequireQueryMaxLen(r, "q", maxSearchQueryLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.Search(r.Context(), q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Food items fetched successfully based on search query", items)
	}
}

// CreateFood accepts a multipart submission with an optional imageFile.
func CreateFood(svc food.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseMultipartForm(w, r, maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, err := decodeCreateFoodForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fh, err := validators.FormFile(r, "imageFile")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if fh != nil {
			file, err := fh.Open()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read image file"))
				return
			}
			dataURI, err := media.PrepareImage(file, maxUploadBytes)
			_ = file.Close()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			req.ImageDataURI = dataURI
		}

		item, err := svc.Create(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "Food item created successfully!", item)
	}
}

func decodeCreateFoodForm(r *http.Request) (food.CreateFoodRequest, error) {
	req := food.CreateFoodRequest{
		Name:                  validators.FormString(r, "name"),
		Ingredients:           validators.FormString(r, "ingredients"),
		Barcode:               validators.FormString(r, "barcode"),
		Source:                validators.FormString(r, "source"),
		Tags:                  validators.FormStrings(r, "tags"),
		Allergens:             validators.FormStrings(r, "allergens"),
		DietaryFlags:          validators.FormStrings(r, "dietaryFlags"),
		IsSafeForDiabetics:    r.FormValue("isSafeForDiabetics") == "true",
		IsSafeDuringPregnancy: r.FormValue("isSafeDuringPregnancy") == "true",
		UserNotes:             validators.FormString(r, "userNotes"),
	}
	if req.Name == "" || len(food.SplitIngredients(req.Ingredients)) == 0 {
		return req, pkgerrors.New(pkgerrors.CodeValidation, food.MsgRequiredFields)
	}

	if raw := validators.FormString(r, "safetyScore"); raw != "" {
		score, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return req, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed").
				WithDetails(map[string]string{"safetyScore": "must be an integer"})
		}
		req.SafetyScore = &score
	}

	if err := validators.ValidateStruct(&req); err != nil {
		return req, err
	}
	return req, nil
}
