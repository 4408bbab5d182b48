package opencodechat

import (
	"context"
	"errors"
	"strings"

	"github.com/opencodetools/opencode-gateway/internal/openaiadapter/types"
)

// toErrorResponse classifies a backend or transport failure into an
// OpenAI-compatible error envelope. The original message text is preserved
// so clients see what the backend reported.
//
// Deadline expiry maps to provider_error (surfaced as HTTP 504); everything
// else maps to server_error (HTTP 500). The explicit DeadlineExceeded check
// is the primary signal; the "timeout" substring match catches backends that
// report their own timeouts as plain error text.
func toErrorResponse(err error) *types.ErrorResponse {
	if err == nil {
		return nil
	}

	var errResp *types.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp
	}

	if isTimeout(err) {
		return types.NewErrorResponse(err.Error(), types.ErrorTypeProvider)
	}
	return types.NewErrorResponse(err.Error(), types.ErrorTypeServer)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
