// Package server wires handlers, middleware and routes together and owns the
// HTTP server lifecycle. It is the composition root: every dependency chain
// (store → service → handler) is assembled here, so main stays minimal and
// the router can be built in tests without listening on a socket.
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

	"github.com/soarr/flightlog/internal/auth"
	"github.com/soarr/flightlog/internal/config"
	"github.com/soarr/flightlog/internal/handler"
	"github.com/soarr/flightlog/internal/middleware"
	"github.com/soarr/flightlog/internal/repository"
	"github.com/soarr/flightlog/internal/service"
)

// Server holds the router, the backing store and the config it was built
// from. The store is owned by the server and closed on shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	store  repository.Store
}

// New assembles the full dependency chain on top of an already-open store.
// The caller picks the store backend (SQLite or Postgres); everything above
// the repository interfaces is identical either way.
func New(cfg *config.Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	s.setupRoutes(tokens)
	return s, nil
}

// Router exposes the configured mux, mainly for httptest in API tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	var github *auth.GitHubProvider
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	passwords := auth.NewPasswordService()
	authService := service.NewAuthService(s.store.Users(), passwords, tokens, s.logger)
	flightService := service.NewFlightService(s.store.Flights(), s.logger)
	statsService := service.NewStatsService(s.store.Flights(), s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	flightHandler := handler.NewFlightHandler(flightService, s.logger)
	statsHandler := handler.NewStatsHandler(statsService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Public: anyone can sign up or log in.
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)

		// Status works with or without a session; it reports which.
		r.With(auth.OptionalAuth(tokens)).Get("/auth/status", authHandler.HandleStatus)

		// Everything else requires a valid session cookie.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Post("/auth/logout", authHandler.HandleLogout)

			r.Get("/flights", flightHandler.HandleList)
			r.Post("/flights", flightHandler.HandleCreate)
			r.Get("/flights/{id}", flightHandler.HandleGet)
			r.Delete("/flights/{id}", flightHandler.HandleDelete)

			r.Post("/seed/add", flightHandler.HandleSeedAdd)
			r.Delete("/seed/remove", flightHandler.HandleSeedRemove)

			r.Get("/stats", statsHandler.HandleStats)
		})
	})

	// OAuth routes are browser redirects, not JSON API calls, so they live
	// outside /api. Only registered when GitHub credentials are configured.
	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}
}

// Start runs the HTTP server until a shutdown signal arrives, then drains
// in-flight requests and closes the store.
func (s *Server) Start() error {
	defer s.store.Close()

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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
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
