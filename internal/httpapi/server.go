package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nash-core-poc/server/internal/agent/graph"
	"github.com/nash-core-poc/server/internal/agent/graph/conversations"
	"github.com/nash-core-poc/server/internal/physics"
	logx "github.com/nash-core-poc/server/pkg/logger"
)

const (
	maxBodyBytes = 1 << 20
	maxSweepSize = 1000
)

// Options configures the API server. Runner and Estimator are required.
type Options struct {
	Addr             string
	Runner           graph.Runner
	Estimator        physics.Estimator
	Catalog          *physics.Catalog
	Sessions         *conversations.SessionManager
	Gatherer         prometheus.Gatherer
	SweepConcurrency int
}

// Server serves the question, estimator and session endpoints.
type Server struct {
	runner     graph.Runner
	estimator  physics.Estimator
	catalog    *physics.Catalog
	sessions   *conversations.SessionManager
	gatherer   prometheus.Gatherer
	sweepLimit int
	router     *http.ServeMux
	server     *http.Server
	logger     zerolog.Logger
}

// New creates a new API server
func New(opts Options) *Server {
	if opts.Estimator == nil {
		opts.Estimator = physics.Callaway
	}
	if opts.Catalog == nil {
		opts.Catalog = physics.DefaultCatalog()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		runner:     opts.Runner,
		estimator:  opts.Estimator,
		catalog:    opts.Catalog,
		sessions:   opts.Sessions,
		gatherer:   opts.Gatherer,
		sweepLimit: opts.SweepConcurrency,
		router:     http.NewServeMux(),
		logger:     logx.With("httpapi"),
	}
	s.registerHandlers()

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // a run may wait on several advisor calls
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// registerHandlers registers all HTTP handlers
func (s *Server) registerHandlers() {
	s.router.HandleFunc("POST /api/ask", s.handleAsk)
	s.router.HandleFunc("POST /api/simulate", s.handleSimulate)
	s.router.HandleFunc("POST /api/sweep", s.handleSweep)
	s.router.HandleFunc("GET /api/materials", s.handleMaterials)
	s.router.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	s.router.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	s.router.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.router.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the router wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return s.loggingMiddleware(s.router)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("Starting API server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	s.logger.Info().Msg("Shutting down API server")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		ev := s.logger.Debug()
		if rec.status >= http.StatusInternalServerError {
			ev = s.logger.Warn()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
