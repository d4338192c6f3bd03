package api

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"graph_router/pkg/config"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	MaxConcurrent  int
	CORSOrigin     string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:           addr,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		RequestTimeout: 5 * time.Second,
		MaxConcurrent:  runtime.NumCPU() * 2,
	}
}

// ConfigFrom derives server settings from process configuration.
func ConfigFrom(c config.Config) ServerConfig {
	cfg := DefaultConfig(c.Addr)
	cfg.CORSOrigin = c.CORSOrigin
	if c.MaxConcurrent > 0 {
		cfg.MaxConcurrent = c.MaxConcurrent
	}
	if c.RequestTimeout > 0 {
		cfg.RequestTimeout = c.RequestTimeout
		cfg.WriteTimeout = max(cfg.WriteTimeout, c.RequestTimeout+time.Second)
	}
	return cfg
}

// NewServer creates an HTTP server with all routes and middleware.
func NewServer(cfg ServerConfig, handlers *Handlers, logger *log.Logger) *http.Server {
	if logger == nil {
		logger = log.Default()
	}
	mux := http.NewServeMux()
	sem := make(chan struct{}, max(cfg.MaxConcurrent, 1))
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return withMiddleware(h, sem, cfg, logger)
	}

	mux.HandleFunc("POST /api/v1/graph", wrap(handlers.HandleLoadGraph))
	mux.HandleFunc("GET /api/v1/graph", wrap(handlers.HandleGetGraph))
	mux.HandleFunc("GET /api/v1/graph/geojson", wrap(handlers.HandleGeoJSON))
	mux.HandleFunc("POST /api/v1/path", wrap(handlers.HandlePath))
	mux.HandleFunc("GET /api/v1/nodes/at", wrap(handlers.HandleNodeAt))
	mux.HandleFunc("GET /api/v1/edges/at", wrap(handlers.HandleEdgeAt))
	mux.HandleFunc("GET /api/v1/health", wrap(handlers.HandleHealth))
	mux.HandleFunc("GET /api/v1/stats", wrap(handlers.HandleStats))

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// ListenAndServe runs srv until ctx is cancelled, then shuts it down
// gracefully.
func ListenAndServe(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// statusRecorder captures the status code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMiddleware wraps a handler with logging, recovery, security headers,
// CORS, a per-request timeout and concurrency limiting.
func withMiddleware(handler http.HandlerFunc, sem chan struct{}, cfg ServerConfig, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Security headers.
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		// CORS.
		if cfg.CORSOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
		}

		// Concurrency limiter.
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		default:
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusServiceUnavailable, "service_unavailable", "")
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		// Recovery.
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Handler panic", "method", r.Method, "path", r.URL.Path, "panic", p)
				writeError(rec, http.StatusInternalServerError, "internal_error", "")
			}
		}()

		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		start := time.Now()
		handler(rec, r.WithContext(ctx))
		logger.Info("Request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start).Round(time.Microsecond))
	}
}
