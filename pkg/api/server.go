package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/forumkit/patron-billing/pkg/billing"
	"github.com/forumkit/patron-billing/pkg/httputil"
	"github.com/forumkit/patron-billing/pkg/observability"
)

// Server represents the admin billing API server
type Server struct {
	router  *mux.Router
	logger  *observability.Logger
	metrics *observability.Metrics

	subscriptionHandlers *SubscriptionHandlers
}

// ServerOptions carries the dependencies for a Server
type ServerOptions struct {
	BillingService billing.Service
	Logger         *observability.Logger
	Metrics        *observability.Metrics
	Registry       *prometheus.Registry
	HealthChecker  *observability.HealthChecker
}

// NewServer creates a new API server
func NewServer(opts ServerOptions) *Server {
	s := &Server{
		router:               mux.NewRouter(),
		logger:               opts.Logger,
		metrics:              opts.Metrics,
		subscriptionHandlers: NewSubscriptionHandlers(opts.BillingService, opts.Logger),
	}

	s.setupRoutes(opts)
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes(opts ServerOptions) {
	s.subscriptionHandlers.RegisterRoutes(s.router)

	if opts.HealthChecker != nil {
		s.router.HandleFunc("/healthz", opts.HealthChecker.Liveness).Methods("GET")
		s.router.HandleFunc("/readyz", opts.HealthChecker.Readiness).Methods("GET")
	}

	if opts.Registry != nil {
		s.router.Handle("/metrics", observability.MetricsHandler(opts.Registry)).Methods("GET")
	}
}

// Handler returns the server's HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	chain := httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger),
		httputil.RecoveryMiddleware(s.logger),
	)
	if s.metrics != nil {
		chain = httputil.Chain(
			httputil.RequestIDMiddleware,
			httputil.LoggingMiddleware(s.logger),
			httputil.RecoveryMiddleware(s.logger),
			observability.HTTPMetricsMiddleware(s.metrics),
		)
	}
	return chain(s.router)
}

// Router exposes the underlying router, mainly for tests
func (s *Server) Router() *mux.Router {
	return s.router
}
