package config

import (
	"os"
	"testing"
	"time"

	"github.com/forumkit/patron-billing/pkg/observability"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvBool tests the getEnvBool helper function
func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue bool
		envValue     string
		want         bool
	}{
		{name: "true string", key: "TEST_BOOL", defaultValue: false, envValue: "true", want: true},
		{name: "TRUE string", key: "TEST_BOOL", defaultValue: false, envValue: "TRUE", want: true},
		{name: "numeric one", key: "TEST_BOOL", defaultValue: false, envValue: "1", want: true},
		{name: "false string", key: "TEST_BOOL", defaultValue: true, envValue: "false", want: false},
		{name: "unset uses default", key: "TEST_BOOL_NOT_SET", defaultValue: true, envValue: "", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnvBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "45s")
	defer os.Unsetenv("TEST_DURATION")

	if got := getEnvDuration("TEST_DURATION", time.Minute); got != 45*time.Second {
		t.Errorf("getEnvDuration() = %v, want 45s", got)
	}
	if got := getEnvDuration("TEST_DURATION_NOT_SET", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration() default = %v, want 1m", got)
	}

	os.Setenv("TEST_DURATION_BAD", "soon")
	defer os.Unsetenv("TEST_DURATION_BAD")
	if got := getEnvDuration("TEST_DURATION_BAD", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration() malformed = %v, want default", got)
	}
}

// TestParseLogLevel tests log level parsing
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  observability.LogLevel
	}{
		{"debug", observability.DebugLevel},
		{"info", observability.InfoLevel},
		{"warn", observability.WarnLevel},
		{"warning", observability.WarnLevel},
		{"error", observability.ErrorLevel},
		{"ERROR", observability.ErrorLevel},
		{"bogus", observability.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestLoadConfig tests full configuration loading
func TestLoadConfig(t *testing.T) {
	t.Run("defaults with postgres URL", func(t *testing.T) {
		os.Setenv("PATRON_POSTGRES_URL", "postgres://localhost/forum")
		defer os.Unsetenv("PATRON_POSTGRES_URL")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		if cfg.Server.Host != "0.0.0.0" {
			t.Errorf("Host = %q, want 0.0.0.0", cfg.Server.Host)
		}
		if cfg.Server.Port != "8080" {
			t.Errorf("Port = %q, want 8080", cfg.Server.Port)
		}
		if cfg.Database.MaxOpenConns != 10 {
			t.Errorf("MaxOpenConns = %d, want 10", cfg.Database.MaxOpenConns)
		}
		if cfg.Stripe.Configured() {
			t.Error("Stripe should be unconfigured by default")
		}
		if !cfg.Observability.MetricsEnabled {
			t.Error("metrics should default to enabled")
		}
	})

	t.Run("missing postgres URL fails", func(t *testing.T) {
		os.Unsetenv("PATRON_POSTGRES_URL")

		if _, err := LoadConfig(); err == nil {
			t.Error("LoadConfig() should fail without a postgres URL")
		}
	})

	t.Run("stripe key marks the provider configured", func(t *testing.T) {
		os.Setenv("PATRON_POSTGRES_URL", "postgres://localhost/forum")
		os.Setenv("PATRON_STRIPE_SECRET_KEY", "sk_test_123")
		defer os.Unsetenv("PATRON_POSTGRES_URL")
		defer os.Unsetenv("PATRON_STRIPE_SECRET_KEY")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if !cfg.Stripe.Configured() {
			t.Error("Stripe should be configured")
		}
	})
}

// TestValidate tests configuration validation rules
func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{URL: "postgres://localhost/forum", MaxOpenConns: 10},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("non-numeric port fails", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = "eighty"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for non-numeric port")
		}
	})

	t.Run("non-positive pool fails", func(t *testing.T) {
		cfg := valid()
		cfg.Database.MaxOpenConns = 0
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for zero max connections")
		}
	})
}
