package gateway

import (
	_ "embed"
	"log/slog"
	"net/http"
)

//go:embed openapi.json
var openapiJSON []byte

// openapiHandler serves the embedded OpenAPI description of this gateway.
// The route is exempt from authentication so clients can discover the API
// surface before configuring credentials.
func openapiHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(openapiJSON); err != nil {
			slog.ErrorContext(r.Context(), "failed to write response", "error", err)
		}
	}
}
