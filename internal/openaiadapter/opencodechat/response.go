package opencodechat

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/opencodetools/opencode-gateway/internal/openaiadapter/types"
	"github.com/opencodetools/opencode-gateway/internal/opencode"
)

// defaultModel is reported when the backend reply carries no model name.
const defaultModel = "opencode"

// toChatCompletion converts a complete backend reply into an OpenAI
// "chat.completion" object: text parts concatenated in order, a single
// choice at index 0, finish_reason always "stop".
func toChatCompletion(reply *opencode.Reply) *types.CreateChatCompletionResponse {
	model := reply.Model
	if model == "" {
		model = defaultModel
	}

	return &types.CreateChatCompletionResponse{
		ID:      newResponseID(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []types.CompletionChoice{
			{
				Index: 0,
				Message: types.CompletionMessage{
					Role:    "assistant",
					Content: concatText(reply.Parts),
				},
				FinishReason: "stop",
			},
		},
	}
}

// newChunk builds one OpenAI "chat.completion.chunk" carrying the given text
// as the entire delta. finish_reason stays an explicit null on every chunk;
// the stream is closed by the [DONE] sentinel instead.
func newChunk(id string, created int64, model, text string) *types.CreateChatCompletionStreamResponse {
	return &types.CreateChatCompletionStreamResponse{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   model,
		Choices: []types.ChunkChoice{
			{
				Index: 0,
				Delta: types.Delta{Content: text},
			},
		},
	}
}

// concatText joins the text of all text parts in order with no separator.
func concatText(parts []opencode.MessagePart) string {
	var sb strings.Builder
	for _, part := range parts {
		if part.Type == "text" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// newResponseID generates an OpenAI-compatible response ID (chatcmpl-<token>).
// IDs are process-locally unique, not derived from any request identity.
func newResponseID() string {
	b := make([]byte, 24) // 24 bytes yields 32 URL-safe base64 characters
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	// RawURLEncoding avoids '+', '/' and trailing '='
	return "chatcmpl-" + base64.RawURLEncoding.EncodeToString(b)
}
