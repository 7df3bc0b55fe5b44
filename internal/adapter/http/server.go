package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mokulua/kilo-data-service/internal/domain"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// DomainFunc serves one dashboard domain. The returned value is an
// aggregation outcome and is always well-formed; aggregators never error.
type DomainFunc func(ctx context.Context, island domain.Island) any

// AdminHooks are the operations behind the token-guarded admin routes.
type AdminHooks struct {
	ClearCache  func(ctx context.Context) error
	RunBriefing func(ctx context.Context) error
}

// Server exposes the dashboard read API plus health, readiness, metrics,
// and admin endpoints.
type Server struct {
	httpServer *http.Server
	domains    map[string]DomainFunc
	admin      AdminHooks
	adminToken string
	logger     *slog.Logger
}

// NewServer builds the server. Admin routes return 404 until an admin token
// is configured.
func NewServer(addr string, ready ReadinessChecker, domains map[string]DomainFunc, admin AdminHooks, adminToken string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		domains:    domains,
		admin:      admin,
		adminToken: adminToken,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/{domain}", s.handleDomain)
	mux.HandleFunc("POST /admin/cache/clear", s.requireToken(s.handleCacheClear))
	mux.HandleFunc("POST /admin/briefing/run", s.requireToken(s.handleBriefingRun))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleDomain(w http.ResponseWriter, r *http.Request) {
	fn, ok := s.domains[r.PathValue("domain")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown domain"})
		return
	}

	islandParam := r.URL.Query().Get("island")
	if islandParam == "" {
		islandParam = string(domain.Oahu)
	}
	island, err := domain.ParseIsland(islandParam)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, fn(r.Context(), island))
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.ClearCache(r.Context()); err != nil {
		s.logger.Error("cache clear failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.logger.Info("cache cleared")
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleBriefingRun(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.RunBriefing(r.Context()); err != nil {
		s.logger.Error("manual briefing run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "published"})
}

// requireToken guards admin routes with a static bearer token. With no
// token configured the routes are hidden entirely.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			http.NotFound(w, r)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
