package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/eatwise/eatwise-backend/api/controllers"
	"github.com/eatwise/eatwise-backend/api/routes"
	"github.com/eatwise/eatwise-backend/internal/articles"
	"github.com/eatwise/eatwise-backend/internal/auth"
	"github.com/eatwise/eatwise-backend/internal/food"
	"github.com/eatwise/eatwise-backend/internal/media"
	"github.com/eatwise/eatwise-backend/internal/moderation"
	"github.com/eatwise/eatwise-backend/internal/users"
	"github.com/eatwise/eatwise-backend/pkg/config"
	"github.com/eatwise/eatwise-backend/pkg/db"
	"github.com/eatwise/eatwise-backend/pkg/instance"
	"github.com/eatwise/eatwise-backend/pkg/logger"
	"github.com/eatwise/eatwise-backend/pkg/metrics"
	"github.com/eatwise/eatwise-backend/pkg/migrate"
	"github.com/eatwise/eatwise-backend/pkg/pubsub"
	"github.com/eatwise/eatwise-backend/pkg/redis"
	"github.com/eatwise/eatwise-backend/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Env:         cfg.App.Env,
		Format:      cfg.App.LogFormat,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   bool(cfg.App.LogWarnStack),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connector, err := db.NewConnector(cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := connector.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, connector); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	foodMetrics := metrics.NewFoodMetrics(registry)

	readiness := []controllers.ReadinessCheck{{Name: "postgres", Ping: connector.Ping}}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		readiness = append(readiness, controllers.ReadinessCheck{Name: "redis", Ping: redisClient.Ping})
	} else {
		logg.Warn(ctx, "redis not configured; rate limiting and seed lock disabled")
	}

	var uploader media.Uploader = media.Disabled{}
	if cfg.GCS.Enabled() {
		gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		requireResource(ctx, logg, "gcs", err)
		defer gcsClient.Close()
		uploader, err = media.NewService(gcsClient, cfg.Media.Folder)
		requireResource(ctx, logg, "media service", err)
		readiness = append(readiness, controllers.ReadinessCheck{Name: "gcs", Ping: gcsClient.Ping})
	} else {
		logg.Warn(ctx, "gcs bucket not configured; image uploads disabled")
	}

	var notifier moderation.Notifier = moderation.Noop{}
	if cfg.PubSub.Enabled() {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		requireResource(ctx, logg, "pubsub", err)
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		notifier, err = moderation.NewNotifier(pubsub.WrapPublisher(pubsubClient.ModerationPublisher()), logg, foodMetrics)
		requireResource(ctx, logg, "moderation notifier", err)
		readiness = append(readiness, controllers.ReadinessCheck{Name: "pubsub", Ping: pubsubClient.Ping})
	}

	foodRepo, err := food.NewRepository(connector)
	requireResource(ctx, logg, "food repository", err)
	foodParams := food.ServiceParams{
		Repo:        foodRepo,
		Uploader:    uploader,
		Notifier:    notifier,
		SeedLockTTL: cfg.Admin.SeedLockTTL,
		Metrics:     foodMetrics,
		Logger:      logg,
	}
	if redisClient != nil {
		foodParams.Locker = redisClient
	}
	foodService, err := food.NewService(foodParams)
	requireResource(ctx, logg, "food service", err)

	accounts, err := users.NewRepository(connector, cfg.Password)
	requireResource(ctx, logg, "users repository", err)
	userService, err := users.NewService(accounts)
	requireResource(ctx, logg, "users service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		Accounts:  accounts,
		JWTConfig: cfg.JWT,
	})
	requireResource(ctx, logg, "auth service", err)

	articleRepo, err := articles.NewRepository(connector)
	requireResource(ctx, logg, "articles repository", err)
	articleService, err := articles.NewService(articleRepo)
	requireResource(ctx, logg, "articles service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, registry, httpMetrics, redisClient, readiness, routes.Services{
			Food:     foodService,
			Auth:     authService,
			Users:    userService,
			Articles: articleService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(context.Background(), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
		if err := notifier.Drain(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "moderation events not flushed", err)
		}
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
