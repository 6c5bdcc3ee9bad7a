// Package server wires the application together: database, services,
// handlers, middleware, and routes, plus startup and graceful shutdown.
// This is the composition root — every dependency is assembled in New, and
// nothing below this package constructs its own collaborators.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/handler"
	"github.com/sakif/blog-platform/internal/middleware"
	sqliteRepo "github.com/sakif/blog-platform/internal/repository/sqlite"
	"github.com/sakif/blog-platform/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency chain assembled:
//
//	sqlite.DB → services (auth, post, category, user) → handlers → routes
//
// Each layer receives only what it needs; handlers never see the database,
// services never see HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes(tokens, auth.NewPasswordService())

	return s, nil
}

func (s *Server) setupRoutes(tokens *auth.TokenService, passwords *auth.PasswordService) {
	// Global middleware, in order: request ID for tracing, real client IP
	// behind proxies, panic recovery, then our request logger.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	validate := handler.NewValidator()

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	postService := service.NewPostService(s.db.Posts(), s.db.Categories(), s.logger)
	categoryService := service.NewCategoryService(s.db.Categories(), s.db.Posts(), s.logger)
	userService := service.NewUserService(s.db.Users(), s.logger)

	authHandler := handler.NewAuthHandler(authService, validate, s.logger)
	postHandler := handler.NewPostHandler(postService, validate, s.logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, validate, s.logger)
	userHandler := handler.NewUserHandler(userService, validate, s.logger)

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Public routes.
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Get("/posts", postHandler.HandleList)
		r.Get("/posts/{id}", postHandler.HandleGetByID)

		r.Get("/categories", categoryHandler.HandleList)
		r.Post("/categories", categoryHandler.HandleCreate)
		r.Get("/categories/{id}/posts", categoryHandler.HandlePosts)

		// Routes requiring a verified session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)

			r.Post("/posts", postHandler.HandleCreate)
			r.Put("/posts/{id}", postHandler.HandleUpdate)
			r.Delete("/posts/{id}", postHandler.HandleDelete)

			r.Put("/users/{id}", userHandler.HandleUpdateProfile)
		})
	})
}

// handleHealth reports liveness, including a database ping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.logger.Error("health check: database unreachable", slog.String("error", err.Error()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
