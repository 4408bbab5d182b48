package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/opencodetools/opencode-gateway/internal/openaiadapter"
	"github.com/opencodetools/opencode-gateway/internal/openaiadapter/types"
)

// streamDoneMarker terminates every SSE response, per the OpenAI streaming
// protocol. It is written exactly once, including after an in-band error.
const streamDoneMarker = "[DONE]"

// CreateChatCompletionsHandler handles OpenAI-compatible chat completion requests.
type CreateChatCompletionsHandler struct {
	Adapter openaiadapter.CreateChatCompletionAdapter
}

// Compile-time check to ensure CreateChatCompletionsHandler implements http.Handler
var _ http.Handler = (*CreateChatCompletionsHandler)(nil)

// ServeHTTP implements http.Handler interface for streaming or non-streaming requests.
func (h *CreateChatCompletionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			slog.WarnContext(ctx, "request exceeds size limit", "limit_bytes", maxBytesErr.Limit)
			writeJSONOpenAIError(ctx, w, types.NewErrorResponse(
				http.StatusText(http.StatusRequestEntityTooLarge),
				types.ErrorTypeInvalidRequest,
			))
			return
		}
		slog.ErrorContext(ctx, "failed to read request body", "error", err)
		writeJSONOpenAIError(ctx, w, types.NewErrorResponse(
			http.StatusText(http.StatusBadRequest),
			types.ErrorTypeInvalidRequest,
		))
		return
	}

	// Decoding is lenient past this point: only a body that is not valid
	// JSON is rejected, everything else degrades to absent fields.
	req, err := openaiadapter.DecodeChatRequest(body)
	if err != nil {
		slog.WarnContext(ctx, "failed to decode request", "error", err)
		writeJSONOpenAIError(ctx, w, types.NewErrorResponse(
			err.Error(),
			types.ErrorTypeInvalidRequest,
		))
		return
	}

	if req.Stream {
		h.streamResponse(ctx, w, req)
	} else {
		h.writeResponse(ctx, w, req)
	}
}

// writeResponse handles non-streaming chat completion requests.
func (h *CreateChatCompletionsHandler) writeResponse(
	ctx context.Context,
	w http.ResponseWriter,
	req openaiadapter.CreateChatCompletionRequest,
) {
	if ctx.Err() != nil {
		return
	}
	response, err := h.Adapter.ProcessRequest(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "request failed", "error", err)
		writeJSONOpenAIError(ctx, w, asErrorResponse(err))
		return
	}

	writeJSON(ctx, w, response, http.StatusOK)
}

// streamResponse streams chat completion chunks using SSE.
//
// Failures before the first byte still produce a JSON error with a real
// status code. Once streaming has started the status is committed, so
// failures degrade to one in-band error frame; the [DONE] marker follows in
// every case so clients never see an unterminated stream.
func (h *CreateChatCompletionsHandler) streamResponse(
	ctx context.Context,
	w http.ResponseWriter,
	req openaiadapter.CreateChatCompletionRequest,
) {
	if ctx.Err() != nil {
		return
	}
	stream, err := h.Adapter.ProcessStreamingRequest(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "streaming request failed", "error", err)
		writeJSONOpenAIError(ctx, w, asErrorResponse(err))
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		slog.ErrorContext(ctx, "SSE not supported", "error", err)
		writeJSONOpenAIError(ctx, w, types.NewErrorResponse(
			http.StatusText(http.StatusInternalServerError),
			types.ErrorTypeServer,
		))
		return
	}

	for chunk, err := range stream {
		// Check for client disconnect before processing the chunk; a
		// disconnected client cannot receive a terminal marker anyway.
		if ctx.Err() != nil {
			slog.DebugContext(ctx, "client disconnected during stream")
			return
		}

		if err != nil {
			slog.ErrorContext(ctx, "stream error", "error", err)

			// OpenAI SDKs recognize the {"error": {...}} frame and stop
			// reading; the [DONE] marker still closes the stream for
			// clients that scan for it.
			if writeErr := sse.WriteEvent("error"); writeErr != nil {
				slog.ErrorContext(ctx, "failed to write error event type", "error", writeErr)
				return
			}
			if writeErr := sse.WriteData(asErrorResponse(err)); writeErr != nil {
				slog.ErrorContext(ctx, "failed to write error", "error", writeErr)
				return
			}
			break
		}

		if err := sse.WriteData(chunk); err != nil {
			slog.ErrorContext(ctx, "failed to write chunk", "error", err)
			return
		}
	}

	if err := sse.WriteRaw(streamDoneMarker); err != nil {
		slog.ErrorContext(ctx, "failed to write stream termination marker", "error", err)
	}
}

// asErrorResponse extracts the OpenAI envelope from an adapter error, or
// wraps unexpected error types as server_error for client visibility.
func asErrorResponse(err error) *types.ErrorResponse {
	var errResp *types.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp
	}
	return types.NewErrorResponse(err.Error(), types.ErrorTypeServer)
}
