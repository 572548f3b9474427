// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/azizabboud/quickweb-go/internal/cache"
	"github.com/azizabboud/quickweb-go/internal/config"
	"github.com/azizabboud/quickweb-go/internal/handler"
	"github.com/azizabboud/quickweb-go/internal/logging"
	"github.com/azizabboud/quickweb-go/internal/middleware"
	"github.com/azizabboud/quickweb-go/internal/render"
	"github.com/azizabboud/quickweb-go/internal/scheduler"
	"github.com/azizabboud/quickweb-go/internal/session"
	"github.com/azizabboud/quickweb-go/internal/storage"
	"github.com/azizabboud/quickweb-go/internal/store"
	"github.com/azizabboud/quickweb-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "QuickWeb Creations - business website with storefront ordering\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QW_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QW_DB_PATH           SQLite database path (default: ./data/quickweb.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QW_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QW_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QW_REDIS_URL         Redis URL for the render cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QW_BACKUP_DIR        Nightly snapshot directory (default: ./backups)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("quickweb %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	st := storage.New(db)

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLogHandler := logging.NewEventLogHandler(textHandler, st)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Hydrate the stores, seeding defaults on first run
	ctx := context.Background()
	sessions, err := store.NewSessionStore(ctx, st, cfg.AuthDelay())
	if err != nil {
		return fmt.Errorf("initializing session store: %w", err)
	}
	content, err := store.NewContentStore(ctx, st)
	if err != nil {
		return fmt.Errorf("initializing content store: %w", err)
	}
	defer content.Close()
	slog.Info("stores hydrated")

	// Initialize HTTP session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize render cache
	renderCache := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	defer func() {
		if err := renderCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	// Initialize template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Start the maintenance scheduler
	sched := scheduler.New(st, cfg.BackupDir)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Handlers
	frontendHandler := handler.NewFrontendHandler(content, renderer, renderCache)
	authHandler := handler.NewAuthHandler(sessions, renderer, sessionManager)
	orderHandler := handler.NewOrderHandler(content, renderer)
	adminHandler := handler.NewAdminHandler(content, sessions, renderer)
	healthHandler := handler.NewHealthHandler(db, sessionManager, sessions)

	// Drop cached legal pages when the admin edits them
	content.SetOnChange(func(key string) {
		if key == storage.KeyLegalContent {
			frontendHandler.InvalidateLegalCache(context.Background())
		}
	})

	// Rate limiter for credential and contact form posts
	authLimiter := middleware.NewAuthRateLimit(0.5, 5)
	defer authLimiter.Close()

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadUser(sessionManager, sessions))

	// Health endpoints, outside CSRF protection
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Public pages
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)

		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteServices, frontendHandler.Services)
		r.Get(handler.RoutePricing, frontendHandler.Pricing)
		r.Get(handler.RouteAbout, frontendHandler.About)
		r.Get(handler.RouteContact, frontendHandler.ContactForm)
		r.With(authLimiter.Middleware()).Post(handler.RouteContact, frontendHandler.Contact)
		r.Get(handler.RoutePrivacy, frontendHandler.Privacy)
		r.Get(handler.RouteTerms, frontendHandler.Terms)

		// Auth
		r.Get(handler.RouteSignIn, authHandler.SignInForm)
		r.With(authLimiter.Middleware()).Post(handler.RouteSignIn, authHandler.SignIn)
		r.Get(handler.RouteSignUp, authHandler.SignUpForm)
		r.With(authLimiter.Middleware()).Post(handler.RouteSignUp, authHandler.SignUp)
		r.Get(handler.RouteForgotPassword, authHandler.ForgotPasswordForm)
		r.With(authLimiter.Middleware()).Post(handler.RouteForgotPassword, authHandler.ForgotPassword)
		r.Get(handler.RouteLogout, authHandler.Logout)
		r.Post(handler.RouteLogout, authHandler.Logout)

		// Ordering, requires a signed-in user
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessionManager))
			r.Get(handler.RouteOrder, orderHandler.OrderForm)
			r.Get(handler.RouteOrderType, orderHandler.OrderForm)
			r.Post(handler.RouteOrder, orderHandler.OrderSubmit)
			r.Get(handler.RouteMyOrders, orderHandler.MyOrders)
		})
	})

	// Admin panel
	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.RequireAdmin())
		adminHandler.Routes(r)
	})

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
