package opencode

// Session identifies one backend conversation. The gateway creates a fresh
// session per HTTP request and never reuses it.
type Session struct {
	ID string `json:"id"`
}

// MessagePart is one unit of message content sent to or received from the
// backend. Only text parts are exchanged in this version.
type MessagePart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MessageRequest is the body of a session message-send call.
type MessageRequest struct {
	Parts  []MessagePart `json:"parts"`
	Stream bool          `json:"stream,omitempty"`
}

// Reply is a complete (non-streaming) backend answer.
type Reply struct {
	Parts []MessagePart `json:"parts"`
	Model string        `json:"model,omitempty"`
}

// StreamChunk is one incremental element of a streaming backend answer.
// A chunk may carry zero parts, or parts without text; such chunks represent
// no visible delta.
type StreamChunk struct {
	Parts []MessagePart `json:"parts"`
}

// ProviderList is the backend's provider/model catalogue.
type ProviderList struct {
	Data ProviderData `json:"data"`
}

// ProviderData wraps the full provider set.
type ProviderData struct {
	All []Provider `json:"all"`
}

// Provider is one upstream model provider with its models keyed by model ID.
type Provider struct {
	ID     string               `json:"id"`
	Models map[string]ModelMeta `json:"models"`
}

// ModelMeta carries per-model metadata. The gateway only needs the name for
// display; unknown fields are ignored.
type ModelMeta struct {
	Name string `json:"name,omitempty"`
}
