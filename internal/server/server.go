package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/urbanlens/mobilitydb/internal/store"
	"github.com/urbanlens/mobilitydb/pkg/analytics"
	"github.com/urbanlens/mobilitydb/pkg/metrics"
	"github.com/urbanlens/mobilitydb/pkg/persistence"
)

// Server holds the HTTP interface and the underlying dataset.
type Server struct {
	store *store.Store
	cfg   Config
	log   *persistence.LogWriter

	sessions   *sessionManager
	httpServer *http.Server

	// tripCache fronts per-trip lookups. The cache itself is not
	// goroutine safe, so every access goes through cacheMu.
	cacheMu   sync.Mutex
	tripCache *analytics.LRUCache[int64, store.Trip]
}

// NewServer initializes the HTTP server over an existing store. logW may be
// nil, in which case writes are not persisted.
func NewServer(st *store.Store, cfg Config, logW *persistence.LogWriter) (*Server, error) {
	cache, err := analytics.NewLRUCache[int64, store.Trip](cfg.TripCacheSize)
	if err != nil {
		return nil, fmt.Errorf("trip cache: %w", err)
	}

	s := &Server{
		store:     st,
		cfg:       cfg,
		log:       logW,
		sessions:  newSessionManager(),
		tripCache: cache,
	}

	s.httpServer = &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Handler(),
	}
	return s, nil
}

// Handler builds the full middleware chain and route table. It is exposed so
// tests can drive the server through httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerHTTPHandlers(mux)

	// Chain middlewares: Recovery -> Logging -> Auth -> Mux
	// Order matters! Recovery must be outer-most to catch everything.
	var handler http.Handler = mux
	handler = s.authMiddleware(handler)
	handler = s.LoggingMiddleware(handler)
	handler = s.RecoveryMiddleware(handler)

	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", s.handleHealthz)
	rootMux.Handle("GET /metrics", promhttp.Handler())
	rootMux.Handle("/", handler)
	return rootMux
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully. It does NOT close the log
// writer (main handles that for proper lifecycle management).
func (s *Server) Shutdown() {
	slog.Info("Starting graceful shutdown of HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
}

// cachedTrip resolves a trip through the LRU cache.
func (s *Server) cachedTrip(id int64) (store.Trip, bool) {
	s.cacheMu.Lock()
	if t, ok := s.tripCache.Get(id); ok {
		s.cacheMu.Unlock()
		metrics.TripCacheHits.Inc()
		return t, true
	}
	s.cacheMu.Unlock()

	metrics.TripCacheMisses.Inc()
	t, ok := s.store.TripByID(id)
	if !ok {
		return store.Trip{}, false
	}

	s.cacheMu.Lock()
	s.tripCache.Put(id, t)
	s.cacheMu.Unlock()
	return t, true
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, map[string]any{
		"status": "ok",
		"trips":  s.store.TripCount(),
	})
}
