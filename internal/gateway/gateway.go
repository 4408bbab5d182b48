// Package gateway exposes the OpenAI-compatible HTTP surface and wires each
// request through the OpenCode adapter.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/opencodetools/opencode-gateway/internal/observability/middleware"
	"github.com/opencodetools/opencode-gateway/internal/openaiadapter"
	"github.com/opencodetools/opencode-gateway/internal/opencode"
)

// maxRequestBytes limits the size of incoming request bodies.
const maxRequestBytes = 10 * 1024 * 1024 // 10 MB

// ReadinessChecker reports whether the application is ready to serve traffic.
type ReadinessChecker interface {
	IsReady() bool
}

// Options configures optional Gateway behavior.
type Options struct {
	// APIKey enables bearer authentication when non-empty.
	APIKey string
}

// Gateway is the OpenAI-compatible HTTP server.
type Gateway struct {
	handler    http.Handler
	httpServer *http.Server
}

// Compile-time check that Gateway can back an httptest server directly.
var _ http.Handler = (*Gateway)(nil)

// New builds the Gateway with its routes and middleware chain. The adapter
// handles chat completions; the client serves the model listing.
func New(adapter openaiadapter.CreateChatCompletionAdapter, client *opencode.Client, checker ReadinessChecker, opts Options) (*Gateway, error) {
	if adapter == nil {
		return nil, fmt.Errorf("adapter cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", healthHandler())
	mux.Handle("GET /readyz", readinessHandler(checker))
	mux.Handle("GET /v1/models", modelsHandler(client))
	mux.Handle("GET /openapi.json", openapiHandler())
	mux.Handle("POST /v1/chat/completions", &CreateChatCompletionsHandler{Adapter: adapter})

	handler := applyMiddlewares(mux,
		middleware.RequestIDGeneration,
		middleware.Logging(slog.Default()),
		middleware.RequestIDPropagation,
		middleware.TraceContextExtraction,
		Recovery,
		BearerAuth(opts.APIKey),
		RequestSizeLimit(maxRequestBytes),
	)

	return &Gateway{handler: handler}, nil
}

// ServeHTTP implements http.Handler so the Gateway can be exercised without
// a listener (tests, embedding).
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.handler.ServeHTTP(w, r)
}

// Start binds the listener and begins serving. Binding happens synchronously
// so a gateway that cannot listen fails loudly at startup instead of
// appearing to run. Runtime serve errors are delivered on the returned
// channel.
func (g *Gateway) Start(ctx context.Context, addr string) (<-chan error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	g.httpServer = &http.Server{
		Handler:     g.handler,
		ReadTimeout: 30 * time.Second,
		// WriteTimeout stays 0: SSE streams are bounded by the adapter's
		// request deadline, not by a per-connection write limit.
		IdleTimeout: 120 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := g.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	slog.InfoContext(ctx, "gateway listening", "addr", listener.Addr().String())
	return errCh, nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests up to
// the context deadline.
func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.httpServer == nil {
		return nil
	}
	return g.httpServer.Shutdown(ctx)
}
