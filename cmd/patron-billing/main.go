package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/forumkit/patron-billing/pkg/api"
	"github.com/forumkit/patron-billing/pkg/billing"
	"github.com/forumkit/patron-billing/pkg/config"
	"github.com/forumkit/patron-billing/pkg/groups"
	"github.com/forumkit/patron-billing/pkg/observability"
	"github.com/forumkit/patron-billing/pkg/payments"
	"github.com/forumkit/patron-billing/pkg/users"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "patron-billing: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to database")

	// Without provider credentials the service still serves requests,
	// it just reports 503 on billing operations.
	var provider payments.Provider
	if cfg.Stripe.Configured() {
		provider, err = payments.NewStripeProvider(payments.StripeConfig{
			SecretKey: cfg.Stripe.SecretKey,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize payment provider: %w", err)
		}
		logger.Info("payment provider configured")
	} else {
		logger.Warn("payment provider credentials not set; billing endpoints will report 503")
	}

	var registry *prometheus.Registry
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		registry = prometheus.NewRegistry()
		metrics = observability.NewMetrics(registry)
	}

	stores := billing.Stores{
		AllowList: billing.NewPostgresAllowListStore(db),
		Internal:  billing.NewPostgresInternalStore(db),
		Customers: billing.NewPostgresCustomerStore(db),
		Users:     users.NewPostgresService(db),
		Groups:    groups.NewPostgresService(db),
	}
	billingService := billing.NewAdminService(provider, stores, logger, metrics)

	server := api.NewServer(api.ServerOptions{
		BillingService: billingService,
		Logger:         logger,
		Metrics:        metrics,
		Registry:       registry,
		HealthChecker:  observability.NewHealthChecker(db, cfg.Stripe.Configured()),
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if metrics != nil {
		stopStats := reportDBStats(db, metrics, logger)
		defer stopStats()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("starting server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return db.Close()
	})

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- shutdown.WaitForShutdown()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case err := <-waitCh:
		return err
	}
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// reportDBStats periodically exports connection pool gauges until the
// returned stop function is called.
func reportDBStats(db *sql.DB, metrics *observability.Metrics, logger *observability.Logger) func() {
	done := make(chan struct{})
	go func() {
		defer observability.RecoverPanic(logger, "db stats reporter")
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stats := db.Stats()
				metrics.DBConnectionsActive.Set(float64(stats.InUse))
				metrics.DBConnectionsIdle.Set(float64(stats.Idle))
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
