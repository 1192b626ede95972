package cli

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/isoforge/isoforge/internal/catalog"
	"github.com/isoforge/isoforge/internal/handlers"
	"github.com/isoforge/isoforge/internal/logging"
	"github.com/isoforge/isoforge/internal/middleware"
	"github.com/isoforge/isoforge/internal/ratelimit"
	"github.com/isoforge/isoforge/internal/release"
	"github.com/isoforge/isoforge/internal/server"
	"github.com/isoforge/isoforge/internal/service"
	"github.com/isoforge/isoforge/internal/staging"
	"github.com/isoforge/isoforge/internal/trigger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the build form HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newTrigger builds the configured trigger backend.
func newTrigger() (trigger.Trigger, error) {
	switch cfg.Trigger.Mode {
	case "script":
		return trigger.NewScriptTrigger(cfg.Trigger.ScriptPath, cfg.Trigger.WorkDir, cfg.Trigger.Timeout), nil
	case "api", "":
		return trigger.NewTravisTrigger(trigger.TravisConfig{
			URL:     cfg.Trigger.API.URL,
			Owner:   cfg.Trigger.API.Owner,
			Project: cfg.Trigger.API.Project,
			Branch:  cfg.Trigger.API.Branch,
			Token:   cfg.Trigger.API.Token,
			Timeout: cfg.Trigger.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown trigger mode: %s (supported: script, api)", cfg.Trigger.Mode)
	}
}

func runServe() error {
	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("isoforge"))
	logging.SetDefault(logger)

	slog.Info("Starting isoforge service",
		slog.Int("port", cfg.Server.Port),
		slog.String("trigger_mode", cfg.Trigger.Mode),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Feature catalog
	var cat *catalog.Catalog
	if cfg.Catalog.Path != "" {
		var err error
		cat, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("load feature catalog: %w", err)
		}
		slog.Info("Loaded feature catalog",
			slog.String("path", cfg.Catalog.Path),
			slog.Int("features", len(cat.Features)),
		)
	} else {
		cat = catalog.Default()
		slog.Info("Using built-in feature catalog", slog.Int("features", len(cat.Features)))
	}

	// Rate limiter
	var limiter ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		redisLimiter, err := ratelimit.NewRedisRateLimiter(
			cfg.RateLimit.RedisURL,
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window,
		)
		if err != nil {
			slog.Warn("Rate limiter unavailable, continuing without limits",
				slog.String("error", err.Error()))
			limiter = &ratelimit.NoOpRateLimiter{}
		} else {
			limiter = redisLimiter
			slog.Info("Submission rate limiting enabled",
				slog.Int("requests", cfg.RateLimit.Requests),
				slog.Duration("window", cfg.RateLimit.Window),
			)
		}
	} else {
		limiter = &ratelimit.NoOpRateLimiter{}
		slog.Info("Submission rate limiting disabled")
	}
	defer limiter.Close()

	// Trigger backend
	trig, err := newTrigger()
	if err != nil {
		return err
	}

	// Staging and service
	stager := staging.New(cfg.Staging.FeatureFile, cfg.Uploads.AllowedExtensions, cfg.Uploads.MaxSize)
	buildService := service.NewBuildService(stager, cat, trig, limiter, logger, cfg.Trigger.API.Script, cfg.Trigger.Processor)

	// Templates
	templates, err := template.ParseGlob(filepath.Join(cfg.Server.TemplatesDir, "*.html"))
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	// Release checker
	checker := release.NewChecker(cfg.Release.BaseURL, cfg.Release.ISOPrefix, 0)

	// Handlers and routes
	formHandler := handlers.NewFormHandler(buildService, cat, templates, logger, cfg.Uploads.MaxSize)
	statusHandler := handlers.NewStatusHandler(checker, logger)

	mux := server.NewRouter(server.RouterConfig{
		FormHandler:   formHandler,
		StatusHandler: statusHandler,
		StaticDir:     cfg.Server.StaticDir,
	})

	// CORS for the status API: event pages may embed build status.
	corsConfig := middleware.CORSConfig{
		AllowedOrigins: []string{"*.eventyay.com", "http://localhost:5173"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}

	// Middleware chain: CORS, security headers, then cross-origin
	// protection for the form POST. API and operational paths stay
	// exempt from the latter.
	handler := middleware.CORS(corsConfig)(mux)
	handler = middleware.SecurityHeaders(middleware.SecurityConfig{})(handler)
	handler = middleware.CrossOriginProtection([]string{"/api/", "/healthz", "/metrics"})(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("isoforge listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}
