package types

// CreateChatCompletionResponse is the OpenAI "chat.completion" object
// returned on the non-streaming path. Exactly one choice is ever produced.
type CreateChatCompletionResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
}

// CompletionChoice is a single completion result.
type CompletionChoice struct {
	Index        int               `json:"index"`
	Message      CompletionMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// CompletionMessage is the assistant message inside a choice.
type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CreateChatCompletionStreamResponse is one "chat.completion.chunk" SSE
// payload on the streaming path.
type CreateChatCompletionStreamResponse struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// ChunkChoice is a single choice delta in a stream chunk. FinishReason is a
// pointer so intermediate chunks serialize it as an explicit null.
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta carries incremental content in a stream chunk.
type Delta struct {
	Content string `json:"content,omitempty"`
}

// Model is one entry of the /v1/models listing.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the /v1/models response envelope.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}
