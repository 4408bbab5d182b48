package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/opencodetools/opencode-gateway/internal/openaiadapter/types"
)

// writeJSON writes a JSON response with the given status code.
// Logs encoding failures internally using the provided context.
func writeJSON(ctx context.Context, w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	// Headers and status are written before encoding to avoid buffering.
	// If encoding fails, the client may receive a partial response.
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(ctx, "failed to encode JSON response", "error", err)
	}
}

// writeJSONOpenAIError writes an OpenAI-compatible error response with the
// appropriate HTTP status code, determined from the error type.
func writeJSONOpenAIError(ctx context.Context, w http.ResponseWriter, errResp *types.ErrorResponse) {
	var status int
	switch errResp.Err.Type {
	case types.ErrorTypeInvalidRequest:
		status = http.StatusBadRequest
	case types.ErrorTypeAuthentication:
		status = http.StatusUnauthorized
	case types.ErrorTypeProvider:
		status = http.StatusGatewayTimeout
	case types.ErrorTypeServer:
		status = http.StatusInternalServerError
	default:
		status = http.StatusInternalServerError
	}

	writeJSON(ctx, w, errResp, status)
}
