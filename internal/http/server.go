// Package http exposes the JSON API over the ledger, rules and forecast
// services.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

type Server struct {
	http.Server

	ledger   *services.LedgerService
	rules    *services.RuleService
	forecast *services.ForecastService

	defaultMonths int
	maxMonths     int
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, ledger *services.LedgerService, rules *services.RuleService, forecast *services.ForecastService, defaultMonths, maxMonths int) *Server {
	mux := http.NewServeMux()

	httpLogger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: applog.Middleware(httpLogger)(mux),
		},
		ledger:        ledger,
		rules:         rules,
		forecast:      forecast,
		defaultMonths: defaultMonths,
		maxMonths:     maxMonths,
	}

	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("GET /api/snapshots", s.withRequestLog(s.handleListSnapshots))
	mux.HandleFunc("POST /api/snapshots", s.withRequestLog(s.handleCreateSnapshot))
	mux.HandleFunc("PUT /api/snapshots/{guid}", s.withRequestLog(s.handleUpdateSnapshot))
	mux.HandleFunc("DELETE /api/snapshots/{guid}", s.withRequestLog(s.handleDeleteSnapshot))

	mux.HandleFunc("GET /api/rules", s.withRequestLog(s.handleListRules))
	mux.HandleFunc("POST /api/rules", s.withRequestLog(s.handleCreateRule))
	mux.HandleFunc("PUT /api/rules/{id}", s.withRequestLog(s.handleUpdateRule))
	mux.HandleFunc("DELETE /api/rules/{id}", s.withRequestLog(s.handleDeleteRule))

	mux.HandleFunc("GET /api/forecast", s.withRequestLog(s.handleForecast))
	mux.HandleFunc("GET /api/forecast/export", s.withRequestLog(s.handleForecastExport))
	mux.HandleFunc("GET /api/forecast/summary", s.withRequestLog(s.handleForecastSummary))

	return s
}

// withRequestLog tags each request with an ID and logs start and completion.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()

		ctx := r.Context()
		logger := applog.FromContext(ctx)
		logger.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
