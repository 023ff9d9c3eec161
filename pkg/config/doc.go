// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	PATRON_HOST="0.0.0.0"
//	PATRON_PORT="8080"
//	PATRON_READ_TIMEOUT="15s"
//	PATRON_WRITE_TIMEOUT="15s"
//	PATRON_SHUTDOWN_TIMEOUT="30s"
//
// Database settings:
//
//	PATRON_POSTGRES_URL="postgres://localhost/forum"
//	PATRON_POSTGRES_MAX_CONNS="10"
//	PATRON_POSTGRES_IDLE_CONNS="5"
//
// Payment provider settings (optional; billing endpoints report 503 when unset):
//
//	PATRON_STRIPE_SECRET_KEY="sk_live_..."
//
// Observability settings:
//
//	PATRON_LOG_LEVEL="info"  # debug, info, warn, error
//	PATRON_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Stripe configured: %v\n", cfg.Stripe.Configured())
//
// # Related Packages
//
//   - pkg/observability: Uses observability configuration
//   - pkg/payments: Uses Stripe configuration
package config
