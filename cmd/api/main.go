// Package main is the entrypoint for the Libretto API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/libretto/libretto/internal/auth"
	"github.com/libretto/libretto/internal/cache"
	"github.com/libretto/libretto/internal/config"
	"github.com/libretto/libretto/internal/handler"
	"github.com/libretto/libretto/internal/metrics"
	"github.com/libretto/libretto/internal/middleware"
	"github.com/libretto/libretto/internal/repository"
	"github.com/libretto/libretto/internal/server"
	"github.com/libretto/libretto/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	tokens, err := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("failed to configure token service", "error", err)
		os.Exit(1)
	}

	// Services
	recorder := metrics.NewInMemory()
	accountService := service.NewAccountService(repo, repo, repo, tokens, recorder)
	bookService := service.NewBookService(repo, recorder)
	libraryService := service.NewLibraryService(repo, cacheClient, recorder)
	noteService := service.NewNoteService(repo, recorder)

	// Handlers
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(recorder)
	authHandler := handler.NewAuthHandler(accountService, logger)
	bookHandler := handler.NewBookHandler(bookService, logger)
	libraryHandler := handler.NewLibraryHandler(libraryService, logger)
	noteHandler := handler.NewNoteHandler(noteService, logger)

	r := setupRouter(
		healthHandler,
		metricsHandler,
		authHandler,
		bookHandler,
		libraryHandler,
		noteHandler,
		tokens,
		cfg,
		logger,
	)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
// The book listing stays public; everything else behind /verify-level
// auth requires a bearer token.
func setupRouter(
	healthHandler *handler.HealthHandler,
	metricsHandler *handler.MetricsHandler,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	libraryHandler *handler.LibraryHandler,
	noteHandler *handler.NoteHandler,
	tokens *auth.TokenService,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	corsCfg := middleware.DefaultCORSConfig()
	if origins := cfg.GetCORSAllowedOrigins(); origins != nil {
		corsCfg.AllowedOrigins = origins
	}
	r.Use(middleware.CORS(corsCfg))

	// Health and metrics endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", handler.Hello)

	// Public endpoints
	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)
	r.Get("/books", bookHandler.List)

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{
			Logger: logger,
			Tokens: tokens,
		}))

		r.Get("/verify", authHandler.Verify)
		r.Get("/user", authHandler.Profile)

		r.Post("/books", bookHandler.Create)
		r.Get("/books/{bookID}", bookHandler.Get)
		r.Delete("/books/{bookID}", bookHandler.Delete)

		r.Post("/libraries", libraryHandler.Create)
		r.Get("/libraries", libraryHandler.List)
		r.Get("/libraries/{libraryID}", libraryHandler.Get)
		r.Put("/libraries/{libraryID}", libraryHandler.AddBook)
		r.Put("/libraries/{libraryID}/remove-book", libraryHandler.RemoveBook)

		r.Post("/notes", noteHandler.Create)
		r.Get("/notes", noteHandler.List)
		r.Get("/notes/{noteID}", noteHandler.Get)
		r.Delete("/notes/{noteID}", noteHandler.Delete)
	})

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
