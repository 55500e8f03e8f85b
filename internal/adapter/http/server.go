package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jihoon0306/onyak-ai-rail/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// cacheControl lets shared caches keep a lookup for 15 minutes and serve it
// stale for another hour while revalidating.
const cacheControl = "s-maxage=900, stale-while-revalidate=3600"

// LookupService answers trade-area lookups.
type LookupService interface {
	sharedobs.ReadinessChecker
	Lookup(ctx context.Context, req pipeline.Request) pipeline.Response
	HasCredential() bool
}

// Server exposes the lookup API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /api/poi, /api/check, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, svc LookupService, clock clockwork.Clock, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// Upstream calls carry no deadline of their own; this bounds the write side.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		clock:  clock,
		logger: logger,
	}

	mux.HandleFunc("GET /api/poi", handleLookup(svc))
	mux.HandleFunc("GET /api/check", s.handleCheck(svc))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

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

func handleLookup(svc LookupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cacheControl)

		q := r.URL.Query()
		resp := svc.Lookup(r.Context(), pipeline.Request{
			Query:  q.Get("q"),
			Radius: q.Get("radius"),
			Debug:  q.Get("debug") == "1",
		})
		sharedobs.WriteJSON(w, resp.Status, resp.Body)
	}
}

type checkResponse struct {
	HasKey bool   `json:"hasKey"`
	Now    string `json:"now"`
}

// handleCheck reports whether the registry credential is present, never its value.
func (s *Server) handleCheck(svc LookupService) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		sharedobs.WriteJSON(w, http.StatusOK, checkResponse{
			HasKey: svc.HasCredential(),
			Now:    s.clock.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}
