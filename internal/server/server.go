// Package server provides the HTTP API for Stacklume.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/stacklume/stacklume/pkg/dashboard"
	"github.com/stacklume/stacklume/pkg/layouts"
	sess "github.com/stacklume/stacklume/pkg/session"
)

// cookieName is the session cookie the API issues on login.
const cookieName = "stacklume_session"

// csrfCookieName is the readable cookie that carries the CSRF token. The
// frontend echoes it back in csrfHeader on mutating requests.
const csrfCookieName = "stacklume_csrf"

// csrfHeader is the request header checked against the CSRF cookie.
const csrfHeader = "X-CSRF-Token"

// Server is the Stacklume API server.
type Server struct {
	runner       *layouts.Runner
	store        dashboard.Store
	sessions     sess.Store
	states       sess.StateStore
	cookieStore  *sessions.CookieStore
	port         int
	noAuth       bool
	secure       bool
	username     string
	password     string
	logger       *log.Logger
	cleanupEvery time.Duration
}

// Config holds configuration for the API server.
type Config struct {
	Runner        *layouts.Runner
	Store         dashboard.Store
	Sessions      sess.Store
	States        sess.StateStore
	Port          int
	SessionSecret string

	// NoAuth disables authentication entirely. Every request runs as the
	// local user. Intended for single-user deployments behind a trusted
	// network.
	NoAuth   bool
	Username string
	Password string

	// SecureCookies marks the session and CSRF cookies Secure so browsers
	// only send them over HTTPS. Leave false for plain-HTTP local serving;
	// gorilla/sessions would otherwise default the flag to true and the
	// browser would never return the cookie.
	SecureCookies bool

	Logger *log.Logger

	// CleanupInterval is how often expired sessions and state tokens are
	// swept. Zero disables the sweeper.
	CleanupInterval time.Duration
}

// New creates an API server instance.
func New(cfg Config) *Server {
	cookieStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookieStore.MaxAge(int(sess.DefaultTTL / time.Second))
	cookieStore.Options.Path = "/"
	cookieStore.Options.HttpOnly = true
	cookieStore.Options.SameSite = http.SameSiteLaxMode
	cookieStore.Options.Secure = cfg.SecureCookies

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	states := cfg.States
	if states == nil {
		states = sess.NewMemoryStateStore()
	}

	return &Server{
		runner:       cfg.Runner,
		store:        cfg.Store,
		sessions:     cfg.Sessions,
		states:       states,
		cookieStore:  cookieStore,
		port:         cfg.Port,
		noAuth:       cfg.NoAuth,
		secure:       cfg.SecureCookies,
		username:     cfg.Username,
		password:     cfg.Password,
		logger:       logger,
		cleanupEvery: cfg.CleanupInterval,
	}
}

// Handler builds the chi router with all routes and middleware. It is
// exposed separately from Serve so tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/login/state", s.handleLoginState)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession, s.requireCSRF)

			r.Get("/me", s.handleMe)

			r.Route("/dashboards", func(r chi.Router) {
				r.Get("/", s.handleListDashboards)
				r.Post("/", s.handleCreateDashboard)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetDashboard)
					r.Put("/", s.handleUpdateDashboard)
					r.Delete("/", s.handleDeleteDashboard)

					r.Get("/layouts", s.handleLayouts)
					r.Get("/layouts/current", s.handleCurrentLayout)
					r.Put("/layouts/{breakpoint}", s.handleSaveLayout)
					r.Post("/compact", s.handleCompact)

					r.Route("/widgets/{widgetID}/categories", func(r chi.Router) {
						r.Post("/", s.handleAddCategory)
						r.Put("/{pos}", s.handleUpdateCategory)
						r.Delete("/{pos}", s.handleDeleteCategory)
						r.Post("/{pos}/bookmarks", s.handleAddBookmark)
						r.Put("/{pos}/bookmarks/{bpos}", s.handleUpdateBookmark)
						r.Delete("/{pos}/bookmarks/{bpos}", s.handleDeleteBookmark)
					})
				})
			})
		})
	})

	return r
}

// Serve starts the API server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting API server", "addr", fmt.Sprintf("http://localhost:%d", s.port), "no_auth", s.noAuth)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Periodic sweep of expired sessions and state tokens
	if s.cleanupEvery > 0 {
		eg.Go(func() error {
			return s.cleanupLoop(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// cleanupLoop periodically removes expired sessions and state tokens.
func (s *Server) cleanupLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
			if err := s.states.Cleanup(ctx); err != nil {
				s.logger.Warn("state cleanup failed", "error", err)
			}
		}
	}
}
