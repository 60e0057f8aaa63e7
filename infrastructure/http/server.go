package http

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"slotboard/infrastructure/audit"
	"slotboard/infrastructure/autofit"
	"slotboard/infrastructure/cache"
	"slotboard/infrastructure/snapshot"
	"slotboard/infrastructure/sqlite"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var ShutdownTimeout = 2 * time.Second

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	DB       *sqlite.DB
	Board    *snapshot.Service
	Viewport *autofit.Scheduler
	Labels   *cache.LabelCache
	Audit    *audit.Service
}

// NewServer creates a new http server.
func NewServer(addr string, db *sqlite.DB, board *snapshot.Service, viewport *autofit.Scheduler, labels *cache.LabelCache, auditSvc *audit.Service) *Server {
	s := &Server{
		Addr:     addr,
		router:   chi.NewRouter(),
		DB:       db,
		Board:    board,
		Viewport: viewport,
		Labels:   labels,
		Audit:    auditSvc,
		server: &http.Server{
			MaxHeaderBytes:    1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Compress(5))

	s.router.Get("/health", s.healthHandler)

	s.router.Route("/api", func(r chi.Router) {
		s.RegisterBoardRoutes(r)
		s.RegisterLocationRoutes(r)
		s.RegisterExportRoutes(r)
	})

	s.server.Handler = s.router
	return s
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.Ping(r.Context()); err != nil {
			slog.Error("health check db ping failed", slog.Any("err", err))
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server stopped", slog.Any("err", err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.ln = nil
	return nil
}

// ListenAddr is the bound address once Start has succeeded.
func (s *Server) ListenAddr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}
