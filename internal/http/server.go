// Package http exposes the cost service as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"costs/internal/core"
	"costs/internal/currency"
	applog "costs/internal/log"
	"costs/internal/middleware/ratelimit"
	"costs/internal/middleware/security"
	"costs/internal/middleware/trace"
)

// CostService is the application API served over HTTP.
type CostService interface {
	AddCost(ctx context.Context, item core.CostItem) (core.CostItem, error)
	CostsByYearMonth(ctx context.Context, year, month int) ([]core.Cost, error)
	CostsByYear(ctx context.Context, year int) ([]core.Cost, error)
	AllCosts(ctx context.Context) ([]core.Cost, error)
	Report(ctx context.Context, year, month int, target core.Currency) (core.Report, error)
	CategoryChart(ctx context.Context, year, month int, target core.Currency) ([]core.ChartRow, bool, error)
	MonthlyChart(ctx context.Context, year int, target core.Currency) ([]core.ChartRow, bool, error)
	Rates(ctx context.Context) (currency.RateTable, error)
}

// ReadyFunc reports whether dependencies can serve traffic.
type ReadyFunc func(ctx context.Context) error

// Server wraps http.Server with the cost API routes.
type Server struct {
	http.Server

	svc         CostService
	ready       ReadyFunc
	detector    *security.Detector
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	shutdownOnce sync.Once
}

type ServerOption func(*Server)

// WithReadyCheck sets the readiness check used by /readyz.
func WithReadyCheck(fn ReadyFunc) ServerOption {
	return func(s *Server) { s.ready = fn }
}

// WithRateLimit overrides the per-client limit on cost creation.
func WithRateLimit(perMinute int) ServerOption {
	return func(s *Server) {
		s.rateLimiter.Stop()
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: perMinute})
	}
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc CostService, opts ...ServerOption) *Server {
	s := &Server{
		svc:         svc,
		detector:    security.NewDetector(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()

	router.Use(s.tracer.Handler)
	router.Use(middleware.Recoverer)
	router.Use(applog.Middleware(slog.Default(), trace.RequestID))
	router.Use(security.Headers(security.DefaultHeadersConfig()))
	router.Use(s.detector.Middleware)

	router.Get("/healthz", handleHealth)
	router.Get("/readyz", s.handleReady)

	router.Route("/api", func(r chi.Router) {
		r.With(s.rateLimiter.Middleware(s.detector.ExtractClientIP, handleRateLimited)).
			Post("/costs", s.handleAddCost)
		r.Get("/costs", s.handleListCosts)
		r.Get("/reports/{year}/{month}", s.handleReport)
		r.Get("/charts/categories", s.handleCategoryChart)
		r.Get("/charts/months", s.handleMonthlyChart)
		r.Get("/rates", s.handleRates)
		r.Get("/meta", handleMeta)
	})

	return router
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
			ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldComponent, applog.ComponentRateLimit)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
}
