package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/auth"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/cache"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/database"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/logging"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/repository"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/routes"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	stdoutHandler := logging.Setup(os.Getenv("APP_ENV"))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdoutHandler, pgLogHandler)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, logging.LogRetention, cleanupDone)

	// Redis list cache; advisory, so a dead server only costs cache hits
	var contentCache services.ContentCache
	var cachePinger handlers.Pinger
	var redisCache *cache.ContentCache
	if cfg.RedisHost != "" {
		redisCache = cache.NewContentCache(cache.NewRedisClient(cfg), cfg.CacheTTL())
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, serving lists from the database", "addr", cfg.RedisAddr(), "error", err)
		} else {
			slog.Info("redis connected", "addr", cfg.RedisAddr())
		}
		cancel()
		contentCache = redisCache
		cachePinger = redisCache
	} else {
		slog.Info("redis cache disabled")
	}

	// Auth
	codec, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenExpiry())
	if err != nil {
		slog.Error("token codec setup failed", "error", err)
		os.Exit(1)
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	// Text analysis
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set; analysis requests will fail")
	}
	analyzer := analysis.NewClient(cfg)

	// Services
	userService := services.NewUserService(repository.NewUserRepository(db), hasher, codec)
	contentService := services.NewContentService(repository.NewContentRepository(db), analyzer, contentCache)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	contentHandler := handlers.NewContentHandler(contentService)
	healthHandler := handlers.NewHealthHandler(handlers.PingFunc(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}), cachePinger)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Intelligent Content API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))

	// Routes
	routes.Setup(app, cfg, codec, userHandler, contentHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			slog.Warn("redis close error", "error", err)
		}
	}
	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
