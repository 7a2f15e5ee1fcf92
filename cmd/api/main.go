package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/devmart/media-pipeline-go/internal/config"
	"github.com/devmart/media-pipeline-go/internal/db"
	"github.com/devmart/media-pipeline-go/internal/handler/api"
	"github.com/devmart/media-pipeline-go/internal/logger"
	cMiddleware "github.com/devmart/media-pipeline-go/internal/middleware"
	"github.com/devmart/media-pipeline-go/internal/port"
	"github.com/devmart/media-pipeline-go/internal/ratelimit"
	"github.com/devmart/media-pipeline-go/internal/repository/postgres"
	"github.com/devmart/media-pipeline-go/internal/storage"
	"github.com/devmart/media-pipeline-go/internal/transcoder"
	imageSvc "github.com/devmart/media-pipeline-go/internal/usecase/image"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	strg := initStorage(ctx, cfg)
	if err := strg.InitBucket(cfg.MediaBucket); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.MediaBucket, err)
		os.Exit(1)
	}

	profileRepo := postgres.NewProfileRepository(database)

	var limiter port.RateLimiter
	if cfg.RedisAddr != "" {
		limiter = ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RateLimitMax, cfg.RateLimitWindow)
		logger.Info(ctx, "✅  Redis rate limiting enabled")
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
		logger.Warn(ctx, "⚠️  Redis not configured — rate limits are per-process only")
	}

	r := initRouter(ctx)

	uploaderSvc := imageSvc.NewSectionImageUploader(transcoder.NewWebPTranscoder(), strg, cfg.MediaBucket)
	r.With(cMiddleware.WithEditorAuth(cfg.JWTSecret, profileRepo), cMiddleware.WithRateLimit(limiter)).
		Post("/sections/{sectionType}/{sectionId}/image", api.UploadSectionImageHandler(uploaderSvc))

	r.Get("/healthz", api.HealthzHandler())

	listenRouter(ctx, r, cfg, database)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

func initRouter(ctx context.Context) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	strg, err := storage.NewStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.PublicBaseURL,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	database.Close()
}
