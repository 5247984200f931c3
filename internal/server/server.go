// Package server is the demo REST backend. It serves the local store over
// the same /api/v1 contract the client package speaks.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/vburojevic/registrar/internal/api"
	"github.com/vburojevic/registrar/internal/store"
)

// Options configures New.
type Options struct {
	Store           *store.Store
	Logger          *logrus.Logger
	AllowedOrigins  []string
	DefaultPageSize int
	// RateLimit uses the limiter format, e.g. "100-S" or "5000-H". Empty
	// disables rate limiting.
	RateLimit string
	// MetricsPath defaults to /metrics.
	MetricsPath string
}

// Server routes resource requests to store collections.
type Server struct {
	opts    Options
	router  *mux.Router
	api     *mux.Router
	metrics *metrics
	handler http.Handler
}

// New builds the router and middleware chain. Resources are added with
// Register.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	s := &Server{opts: opts, router: mux.NewRouter(), metrics: newMetrics()}
	s.router.Use(s.withRequestLog, s.metrics.middleware)
	s.router.Handle(opts.MetricsPath, promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, api.CodeNotFound, "route not found", nil)
	})

	s.api = s.router.PathPrefix(api.BasePath).Subrouter()
	s.api.Use(withTenant)

	var h http.Handler = s.router
	if opts.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(opts.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("server: rate limit %q: %w", opts.RateLimit, err)
		}
		mw := stdlib.NewMiddleware(limiter.New(memory.NewStore(), rate),
			stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, _ *http.Request) {
				writeError(w, http.StatusTooManyRequests, api.CodeRateLimited, "rate limit exceeded", nil)
			}))
		h = mw.Handler(h)
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	h = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", api.TenantHeader},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler(h)
	s.handler = gziphandler.GzipHandler(h)
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.opts.Logger.WithField("addr", addr).Info("server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
