// Package api provides the HTTP server for PurpleSchool.
// It exposes the progress engine to the dashboard UI and proxies the
// account service for login and signup.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/purpleschool/purpleschool/internal/app/progress"
	"github.com/purpleschool/purpleschool/internal/auth"
	"github.com/purpleschool/purpleschool/internal/health"
)

// Server is the PurpleSchool HTTP API server.
type Server struct {
	engine         *progress.Engine
	accounts       *auth.Client
	checker        *health.Checker
	version        string
	metricsEnabled bool
}

// NewServer creates a new API server over a loaded progress engine.
func NewServer(engine *progress.Engine, version string) *Server {
	return &Server{engine: engine, version: version}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetAccounts wires the remote account service client. Without it the
// /auth routes answer 503.
func (s *Server) SetAccounts(c *auth.Client) { s.accounts = c }

// SetHealth wires the periodic health checker into /health.
func (s *Server) SetHealth(c *health.Checker) { s.checker = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	// Health check for Railway/Render
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if s.checker == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		status := "ok"
		code := http.StatusOK
		if !s.checker.IsHealthy() {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"status": status,
			"checks": s.checker.Statuses(),
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": s.version,
		})
	})

	// Progress engine
	r.Route("/api/progress", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Post("/xp", s.handleAddXP)
		r.Post("/question", s.handleQuestion)
		r.Post("/subject", s.handleSubject)
		r.Post("/session/start", s.handleSessionStart)
		r.Post("/session/tick", s.handleSessionTick)
		r.Post("/session/complete", s.handleSessionComplete)
		r.Get("/streak", s.handleStreakStatus)
		r.Post("/streak", s.handleStreak)
		r.Post("/login", s.handleDailyLogin)
		r.Post("/welcome", s.handleWelcome)
	})

	// Notification surface
	r.Route("/api/achievements", func(r chi.Router) {
		r.Get("/", s.handleAchievements)
		r.Post("/{id}/read", s.handleMarkRead)
		r.Post("/read-all", s.handleMarkAllRead)
	})
	r.Route("/api/events", func(r chi.Router) {
		r.Get("/next", s.handleNextEvent)
		r.Post("/dismiss", s.handleDismissEvent)
	})

	// Account service proxy
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleAuthLogin)
		r.Post("/register", s.handleAuthRegister)
		r.Post("/logout", s.handleAuthLogout)
		r.Get("/session", s.handleAuthSession)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the local dashboard dev server.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
