package opencodechat

import (
	"context"
	"iter"
	"time"

	"github.com/opencodetools/opencode-gateway/internal/openaiadapter"
	"github.com/opencodetools/opencode-gateway/internal/openaiadapter/types"
	"github.com/opencodetools/opencode-gateway/internal/opencode"
)

// Backend is the subset of the OpenCode client the adapter depends on.
type Backend interface {
	CreateSession(ctx context.Context) (*opencode.Session, error)
	SendMessage(ctx context.Context, sessionID string, req opencode.MessageRequest) (*opencode.Reply, error)
	StreamMessage(ctx context.Context, sessionID string, req opencode.MessageRequest) (*opencode.Reply, iter.Seq2[*opencode.StreamChunk, error], error)
}

// Adapter translates OpenAI chat-completion requests into OpenCode session
// calls. It is safe for concurrent use; every request gets its own session
// and deadline.
type Adapter struct {
	backend Backend
	timeout time.Duration
}

// Compile-time check that Adapter satisfies the chat completion contract.
var _ openaiadapter.CreateChatCompletionAdapter = (*Adapter)(nil)

// New creates an Adapter. The timeout bounds each request end to end,
// including the full lifetime of a streaming response.
func New(backend Backend, timeout time.Duration) *Adapter {
	return &Adapter{backend: backend, timeout: timeout}
}

// ProcessRequest handles the non-streaming path: fresh session, blocking
// message send, reply translation. Any failure comes back as an
// OpenAI-compatible *types.ErrorResponse.
func (a *Adapter) ProcessRequest(ctx context.Context, clientReq types.CreateChatCompletionRequest) (*types.CreateChatCompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	session, err := a.backend.CreateSession(ctx)
	if err != nil {
		return nil, toErrorResponse(err)
	}

	reply, err := a.backend.SendMessage(ctx, session.ID, opencode.MessageRequest{
		Parts: projectParts(clientReq.Messages),
	})
	if err != nil {
		return nil, toErrorResponse(err)
	}

	return toChatCompletion(reply), nil
}

// ProcessStreamingRequest handles the streaming path. The returned sequence
// yields translated chunks in backend arrival order; chunks without visible
// text are skipped. If the backend degrades to a one-shot reply, the
// sequence yields exactly one chunk carrying the reply's concatenated text.
//
// The deadline timer is released when the sequence finishes, whether it ends
// naturally, fails, or the consumer stops early.
func (a *Adapter) ProcessStreamingRequest(ctx context.Context, clientReq types.CreateChatCompletionRequest) (iter.Seq2[*types.CreateChatCompletionStreamResponse, error], error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)

	session, err := a.backend.CreateSession(ctx)
	if err != nil {
		cancel()
		return nil, toErrorResponse(err)
	}

	reply, stream, err := a.backend.StreamMessage(ctx, session.ID, opencode.MessageRequest{
		Parts: projectParts(clientReq.Messages),
	})
	if err != nil {
		cancel()
		return nil, toErrorResponse(err)
	}

	// One ID and creation time for the whole stream, per OpenAI semantics.
	id := newResponseID()
	created := time.Now().Unix()
	model := clientReq.Model
	if model == "" {
		model = defaultModel
	}

	return func(yield func(*types.CreateChatCompletionStreamResponse, error) bool) {
		defer cancel()

		if reply != nil {
			// Graceful fallback: the backend answered one-shot even though
			// streaming was requested.
			yield(newChunk(id, created, model, concatText(reply.Parts)), nil)
			return
		}

		for chunk, err := range stream {
			if err != nil {
				yield(nil, toErrorResponse(err))
				return
			}
			for _, part := range chunk.Parts {
				if part.Type != "text" || part.Text == "" {
					continue
				}
				if !yield(newChunk(id, created, model, part.Text), nil) {
					return
				}
			}
		}
	}, nil
}

// projectParts flattens the normalized messages into backend message parts.
// Only user-role text content is forwarded; assistant, tool, and system
// history as well as image parts are not yet projected.
func projectParts(messages []types.Message) []opencode.MessagePart {
	parts := make([]opencode.MessagePart, 0, len(messages))
	for _, msg := range messages {
		if msg.Role != types.RoleUser {
			continue
		}
		if msg.Content != "" {
			parts = append(parts, opencode.MessagePart{Type: "text", Text: msg.Content})
			continue
		}
		for _, part := range msg.Parts {
			if part.Type == "text" && part.Text != "" {
				parts = append(parts, opencode.MessagePart{Type: "text", Text: part.Text})
			}
		}
	}
	return parts
}
