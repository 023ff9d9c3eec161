package observability

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownFunc releases one resource during shutdown. It receives the
// drain context and returns once the resource is closed.
type ShutdownFunc func(context.Context) error

// ShutdownManager stops the HTTP server and any registered resources
// when the process receives SIGINT or SIGTERM.
type ShutdownManager struct {
	logger  *Logger
	server  *http.Server
	timeout time.Duration

	mu    sync.Mutex
	funcs []ShutdownFunc
}

// NewShutdownManager creates a manager draining within timeout. A zero
// timeout falls back to 30 seconds.
func NewShutdownManager(logger *Logger, server *http.Server, timeout time.Duration) *ShutdownManager {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ShutdownManager{
		logger:  logger,
		server:  server,
		timeout: timeout,
	}
}

// RegisterShutdownFunc adds fn to the resources closed on shutdown.
// Safe for concurrent use.
func (sm *ShutdownManager) RegisterShutdownFunc(fn ShutdownFunc) {
	sm.mu.Lock()
	sm.funcs = append(sm.funcs, fn)
	sm.mu.Unlock()
}

// WaitForShutdown blocks until SIGINT or SIGTERM arrives, then drains
// the server and registered resources within the configured timeout.
func (sm *ShutdownManager) WaitForShutdown() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	sm.logger.WithField("signal", sig.String()).Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
	defer cancel()

	return sm.drain(ctx)
}

// drain stops the HTTP server first so no new requests arrive, then
// closes registered resources in registration order.
func (sm *ShutdownManager) drain(ctx context.Context) error {
	if sm.server != nil {
		if err := sm.server.Shutdown(ctx); err != nil {
			sm.logger.WithError(err).Error("server shutdown failed")
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		sm.logger.Info("server drained")
	}

	sm.mu.Lock()
	funcs := sm.funcs
	sm.mu.Unlock()

	var failed int
	for _, fn := range funcs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("shutdown deadline reached: %w", err)
		}
		if err := fn(ctx); err != nil {
			sm.logger.WithError(err).Error("shutdown function failed")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("shutdown completed with %d errors", failed)
	}

	sm.logger.Info("shutdown complete")
	return nil
}
