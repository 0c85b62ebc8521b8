package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/eatwise/eatwise-backend/api/middleware"
	"github.com/eatwise/eatwise-backend/api/responses"
	"github.com/eatwise/eatwise-backend/api/validators"
	"github.com/eatwise/eatwise-backend/internal/users"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/eatwise/eatwise-backend/pkg/logger"
)

// UserProfile returns the signed-in user's account and preferences.
func UserProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Profile(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "User profile fetched successfully", profile)
	}
}

// UserUpdatePreferences applies a partial preference update.
func UserUpdatePreferences(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req users.UpdatePreferencesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdatePreferences(r.Context(), uid, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Preferences updated successfully", profile)
	}
}

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return uid, nil
}
