// Package web provides the HTTP API of the timetable data service.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/timetable/internal/config"
	"github.com/JonMunkholm/timetable/internal/core"
	"github.com/JonMunkholm/timetable/internal/logging"
	"github.com/JonMunkholm/timetable/internal/web/middleware"
)

// Server is the HTTP server for the timetable API.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server

	limiters []*rateLimiter
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newRateLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(&s.cfg.Security))

		// Entities
		r.Get("/entities", s.handleListEntities)
		r.Get("/entities/{entity}", s.handleListRecords)
		r.Post("/entities/{entity}", s.handleCreateRecord)
		r.Get("/entities/{entity}/{key}", s.handleGetRecord)
		r.Put("/entities/{entity}/{key}", s.handleUpdateRecord)
		r.Delete("/entities/{entity}/{key}", s.handleDeleteRecord)

		// Imports
		r.Route("/import", func(r chi.Router) {
			uploads := r.With()
			if s.cfg.Rate.Enabled {
				uploads = r.With(s.newRateLimiter(s.cfg.Rate.UploadLimit).middleware)
			}
			uploads.Post("/{entity}", s.handleStartImport)
			uploads.Post("/sessions/{id}/upload", s.handleUploadImport)
			r.Get("/sessions/{id}", s.handleGetImport)
			r.Post("/sessions/{id}/confirm", s.handleConfirmImport)
			r.Post("/sessions/{id}/reset", s.handleResetImport)
		})

		// Export
		r.Get("/export/{entity}", s.handleExport)

		// Schedule and reports
		r.Get("/schedule", s.handleSchedule)
		r.Get("/reports/summary", s.handleSummary)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) newRateLimiter(perMinute int) *rateLimiter {
	rl := newRateLimiter(perMinute, rateWindow)
	s.limiters = append(s.limiters, rl)
	return rl
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// The printable export carries an inline style block and print script.
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; script-src 'unsafe-inline'; style-src 'unsafe-inline'")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode failed", "error", err)
	}
}
