package openaiadapter

import (
	"context"
	"iter"

	"github.com/opencodetools/opencode-gateway/internal/openaiadapter/types"
)

// Adapter defines the contract for transforming client requests to backend
// API calls.
//
// Type parameters allow the interface to express transformation contracts for
// different request/response shapes while maintaining compile-time type
// safety.
//
// Type parameters:
//   - TRequest:  Client-specific request structure
//   - TResponse: Client-specific response structure
//   - TChunk:    Client-specific streaming chunk protocol
type Adapter[TRequest, TResponse, TChunk any] interface {
	// ProcessRequest transforms the client request, calls the backend, and
	// returns the transformed response. Implementations should remain
	// stateless across requests.
	ProcessRequest(ctx context.Context, clientReq TRequest) (*TResponse, error)

	// ProcessStreamingRequest transforms the client request, calls the
	// backend streaming API, and returns an iterator of transformed chunks.
	// Implementations should remain stateless across requests.
	ProcessStreamingRequest(ctx context.Context, clientReq TRequest) (iter.Seq2[*TChunk, error], error)
}

// Type aliases for OpenAI-compatible chat completion operations.
// CreateChatCompletionAdapter is the concrete adapter interface for this
// operation.
type (
	CreateChatCompletionRequest  = types.CreateChatCompletionRequest
	CreateChatCompletionResponse = types.CreateChatCompletionResponse
	CreateChatCompletionChunk    = types.CreateChatCompletionStreamResponse

	CreateChatCompletionAdapter = Adapter[
		CreateChatCompletionRequest,
		CreateChatCompletionResponse,
		CreateChatCompletionChunk,
	]
)

// Type aliases for OpenAI-compatible error responses.
type (
	Error         = types.Error
	ErrorResponse = types.ErrorResponse
)

// DecodeChatRequest leniently decodes an inbound request body. See
// types.DecodeChatRequest for the decoding contract.
func DecodeChatRequest(data []byte) (CreateChatCompletionRequest, error) {
	return types.DecodeChatRequest(data)
}
