package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/eatwise/eatwise-backend/api/responses"
	"github.com/eatwise/eatwise-backend/pkg/config"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/eatwise/eatwise-backend/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// ReadinessCheck pings one dependency.
type ReadinessCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EatWise-Env", cfg.App.Env)
		responses.WriteSuccess(w, "ok", map[string]string{"status": "live"})
	}
}

// HealthReady reports 503 when any configured dependency fails its ping.
func HealthReady(cfg *config.Config, checks []ReadinessCheck, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EatWise-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		failures := map[string]string{}
		for _, check := range checks {
			if check.Ping == nil {
				continue
			}
			if err := check.Ping(ctx); err != nil {
				failures[check.Name] = err.Error()
			}
		}
		if len(failures) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(failures))
			return
		}
		responses.WriteSuccess(w, "ok", map[string]string{"status": "ready"})
	}
}
