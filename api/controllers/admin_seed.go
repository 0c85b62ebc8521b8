package controllers

import (
	"net/http"

	"github.com/eatwise/eatwise-backend/api/responses"
	"github.com/eatwise/eatwise-backend/internal/food"
	"github.com/eatwise/eatwise-backend/pkg/logger"
)

type seedResponse struct {
	Message        string `json:"message"`
	Inserted       int    `json:"inserted"`
	AlreadyExisted int    `json:"alreadyExisted"`
	Failed         int    `json:"failed,omitempty"`
}

// AdminSeedFood inserts the sample catalogue items that are not present yet.
func AdminSeedFood(svc food.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Seed(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"inserted":        result.Inserted,
				"already_existed": result.AlreadyExisted,
				"failed":          result.Failed,
			})
			logg.Info(ctx, "food.seed.complete")
		}
		responses.WriteJSON(w, http.StatusCreated, seedResponse{
			Message:        food.SeedMessage(*result),
			Inserted:       result.Inserted,
			AlreadyExisted: result.AlreadyExisted,
			Failed:         result.Failed,
		})
	}
}
