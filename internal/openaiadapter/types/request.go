package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Message roles recognized by the normalizer.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// CreateChatCompletionRequest is the normalized form of an inbound OpenAI
// chat-completion payload. Message order is preserved exactly as received.
type CreateChatCompletionRequest struct {
	Model    string
	Messages []Message
	Stream   bool

	// Passthrough scalars, carried but not interpreted by the gateway.
	MaxTokens   *int
	Temperature *float64
	TopP        *float64
	Stop        json.RawMessage
	Tools       json.RawMessage
	ToolChoice  json.RawMessage
}

// Message is one normalized chat message, tagged by role. The populated
// fields depend on the role: system messages carry Content only, user
// messages carry Content or Parts, assistant messages carry Content and
// ToolCalls, tool messages carry ToolCallID and Content.
type Message struct {
	Role       string
	Content    string
	Parts      []ContentPart
	ToolCalls  json.RawMessage
	ToolCallID string
}

// ContentPart is one element of a multi-part user message.
type ContentPart struct {
	Type     string
	Text     string
	ImageURL string
}

// ErrInvalidJSON reports a request body that could not be parsed at all.
// Everything beyond basic JSON validity degrades leniently instead.
var ErrInvalidJSON = errors.New("request body is not valid JSON")

// DecodeChatRequest decodes an untrusted request body into a normalized
// request.
//
// Decoding is deliberately lenient: a field that is absent or fails shape
// validation becomes its zero value, malformed messages and content parts
// are silently skipped, and a non-object body yields an empty request.
// The only hard failure is a body that is not valid JSON.
func DecodeChatRequest(data []byte) (CreateChatCompletionRequest, error) {
	var req CreateChatCompletionRequest

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return req, ErrInvalidJSON
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		// Valid JSON that is not an object: degenerate pass-through.
		return req, nil
	}

	req.Model, _ = asString(fields["model"])
	req.Stream = truthy(fields["stream"])
	req.Messages = decodeMessages(fields["messages"])

	if v, ok := asInt(fields["max_tokens"]); ok {
		req.MaxTokens = &v
	}
	if v, ok := asFloat(fields["temperature"]); ok {
		req.Temperature = &v
	}
	if v, ok := asFloat(fields["top_p"]); ok {
		req.TopP = &v
	}
	req.Stop = fields["stop"]
	req.Tools = fields["tools"]
	req.ToolChoice = fields["tool_choice"]

	return req, nil
}

// decodeMessages applies the per-role normalization rules. Messages with an
// unrecognized or missing role are dropped; order is otherwise preserved.
func decodeMessages(raw json.RawMessage) []Message {
	var items []json.RawMessage
	if raw == nil || json.Unmarshal(raw, &items) != nil {
		return nil
	}

	messages := make([]Message, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if json.Unmarshal(item, &fields) != nil {
			continue
		}
		role, _ := asString(fields["role"])

		switch role {
		case RoleSystem:
			// System messages accept plain strings only; an empty string
			// means the message is omitted entirely.
			content, _ := asString(fields["content"])
			if content == "" {
				continue
			}
			messages = append(messages, Message{Role: RoleSystem, Content: content})

		case RoleUser:
			messages = append(messages, decodeUserMessage(fields))

		case RoleAssistant:
			msg := Message{Role: RoleAssistant}
			msg.Content, _ = asString(fields["content"])
			if toolCalls := fields["tool_calls"]; isArray(toolCalls) {
				msg.ToolCalls = toolCalls
			}
			messages = append(messages, msg)

		case RoleTool:
			msg := Message{Role: RoleTool}
			msg.ToolCallID, _ = asString(fields["tool_call_id"])
			msg.Content, _ = asString(fields["content"])
			messages = append(messages, msg)
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return messages
}

// decodeUserMessage handles the two user content shapes: a plain string, or
// an ordered list of text/image parts. Unknown or malformed parts are
// skipped. A part list holding exactly one text part collapses back to plain
// string content.
func decodeUserMessage(fields map[string]json.RawMessage) Message {
	msg := Message{Role: RoleUser}

	if content, ok := asString(fields["content"]); ok {
		msg.Content = content
		return msg
	}

	var rawParts []json.RawMessage
	if json.Unmarshal(fields["content"], &rawParts) != nil {
		return msg
	}

	parts := make([]ContentPart, 0, len(rawParts))
	for _, rawPart := range rawParts {
		var part struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL struct {
				URL string `json:"url"`
			} `json:"image_url"`
		}
		if json.Unmarshal(rawPart, &part) != nil {
			continue
		}
		switch part.Type {
		case "text":
			parts = append(parts, ContentPart{Type: "text", Text: part.Text})
		case "image_url":
			parts = append(parts, ContentPart{Type: "image_url", ImageURL: part.ImageURL.URL})
		}
	}

	if len(parts) == 1 && parts[0].Type == "text" {
		msg.Content = parts[0].Text
		return msg
	}
	if len(parts) > 0 {
		msg.Parts = parts
	}
	return msg
}

func asString(raw json.RawMessage) (string, bool) {
	var s string
	if raw == nil || json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

func asInt(raw json.RawMessage) (int, bool) {
	var n int
	if raw == nil || json.Unmarshal(raw, &n) != nil {
		return 0, false
	}
	return n, true
}

func asFloat(raw json.RawMessage) (float64, bool) {
	var f float64
	if raw == nil || json.Unmarshal(raw, &f) != nil {
		return 0, false
	}
	return f, true
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// truthy coerces an arbitrary JSON value to a strict boolean the way a
// dynamic-language truthiness check would: null, false, 0, and "" are false;
// everything else, including objects and arrays, is true.
func truthy(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
