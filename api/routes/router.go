package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eatwise/eatwise-backend/api/controllers"
	"github.com/eatwise/eatwise-backend/api/middleware"
	"github.com/eatwise/eatwise-backend/api/responses"
	"github.com/eatwise/eatwise-backend/internal/articles"
	"github.com/eatwise/eatwise-backend/internal/auth"
	"github.com/eatwise/eatwise-backend/internal/food"
	"github.com/eatwise/eatwise-backend/internal/users"
	"github.com/eatwise/eatwise-backend/pkg/config"
	"github.com/eatwise/eatwise-backend/pkg/enums"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/eatwise/eatwise-backend/pkg/logger"
	"github.com/eatwise/eatwise-backend/pkg/metrics"
	"github.com/eatwise/eatwise-backend/pkg/redis"
)

// Services groups the domain services the HTTP surface dispatches to.
type Services struct {
	Food     food.Service
	Auth     auth.Service
	Users    users.Service
	Articles articles.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	redisClient *redis.Client,
	readiness []controllers.ReadinessCheck,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method Not Allowed"})
	})

	submissionPolicy := middleware.NewRateLimitPolicy(
		"food_submission",
		cfg.RateLimit.SubmissionWindow,
		cfg.RateLimit.SubmissionLimit,
		0,
	)
	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginLimit,
		cfg.RateLimit.LoginLimit,
	)
	requireAuth := middleware.Auth(cfg.JWT, logg)
	requireAdmin := middleware.RequireRole(enums.UserRoleAdmin, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route("/food", func(r chi.Router) {
		r.Get("/", controllers.ListFood(svc.Food, logg))
		r.Get("/search", controllers.SearchFood(svc.Food, logg))
		r.Get("/{id}", controllers.GetFood(svc.Food, logg))
		r.With(rateLimit(submissionPolicy, redisClient, logg)).
			Post("/", controllers.CreateFood(svc.Food, cfg.Media.MaxUploadBytes(), logg))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(svc.Auth, logg))
		r.With(rateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
	})

	r.Route("/users/me", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.UserProfile(svc.Users, logg))
		r.Put("/preferences", controllers.UserUpdatePreferences(svc.Users, logg))
	})

	r.Route("/blog", func(r chi.Router) {
		r.Get("/", controllers.ListArticles(svc.Articles, logg))
		r.Get("/{slug}", controllers.GetArticle(svc.Articles, logg))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.Admin.SeedRequireAuth {
				r.Use(requireAuth, requireAdmin)
			}
			r.Post("/seed-food", controllers.AdminSeedFood(svc.Food, logg))
		})
		r.With(requireAuth, requireAdmin).Post("/blog", controllers.AdminCreateArticle(svc.Articles, logg))
	})

	return r
}

// rateLimit leaves the route unthrottled when redis is not configured.
func rateLimit(policy middleware.RateLimitPolicy, client *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if client == nil {
		return middleware.RateLimit(policy, nil, logg)
	}
	return middleware.RateLimit(policy, client, logg)
}
