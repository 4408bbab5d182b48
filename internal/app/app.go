package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opencodetools/opencode-gateway/internal/config"
	"github.com/opencodetools/opencode-gateway/internal/gateway"
	"github.com/opencodetools/opencode-gateway/internal/openaiadapter/opencodechat"
	"github.com/opencodetools/opencode-gateway/internal/opencode"
)

// App orchestrates the lifecycle of the gateway server and related services.
type App struct {
	gateway *gateway.Gateway
	health  *Health
	addr    string
}

// New creates a new App instance from the loaded configuration.
func New(cfg *config.Config) (*App, error) {
	client := opencode.NewClient(cfg.BackendURL)
	adapter := opencodechat.New(client, time.Duration(cfg.TimeoutMs)*time.Millisecond)
	health := NewHealth()

	gatewayServer, err := gateway.New(adapter, client, health, gateway.Options{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %w", err)
	}

	return &App{
		gateway: gatewayServer,
		health:  health,
		addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
	}, nil
}

// Start starts all services and blocks until shutdown is triggered.
// Uses errgroup for runtime error monitoring and shutdown function collection for coordinated cleanup.
func (a *App) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	var shutdownFuncs []func(context.Context) error

	// Startup phase: Start services
	slog.InfoContext(gCtx, "starting gateway server", "addr", a.addr)
	gatewayErrCh, err := a.gateway.Start(gCtx, a.addr)
	if err != nil {
		return fmt.Errorf("gateway startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, a.gateway.Shutdown)
	a.health.SetReady(true)

	// Monitor runtime errors - errgroup cancels context on first error
	g.Go(func() error {
		select {
		case err := <-gatewayErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "gateway runtime error", "error", err)
				return fmt.Errorf("gateway: %w", err)
			}
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	runtimeErr := g.Wait()

	a.health.SetReady(false)
	slog.InfoContext(gCtx, "shutting down services")

	// Shutdown phase: Stop all services
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if runtimeErr != nil {
		errs = append(errs, fmt.Errorf("runtime: %w", runtimeErr))
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "service shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("application stopped")
	return nil
}
