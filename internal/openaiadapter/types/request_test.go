package types

import (
	"errors"
	"testing"
)

func TestDecodeChatRequestInvalidJSON(t *testing.T) {
	for _, body := range []string{"", "   ", "{not json", `{"messages":`} {
		_, err := DecodeChatRequest([]byte(body))
		if !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("DecodeChatRequest(%q) error = %v, want ErrInvalidJSON", body, err)
		}
	}
}

func TestDecodeChatRequestNonObject(t *testing.T) {
	// Valid JSON that is not an object degrades to an empty request.
	for _, body := range []string{`"hello"`, `42`, `[1,2,3]`, `null`, `true`} {
		req, err := DecodeChatRequest([]byte(body))
		if err != nil {
			t.Fatalf("DecodeChatRequest(%q) unexpected error: %v", body, err)
		}
		if len(req.Messages) != 0 || req.Model != "" || req.Stream {
			t.Errorf("DecodeChatRequest(%q) = %+v, want empty request", body, req)
		}
	}
}

func TestDecodeChatRequestBasicFields(t *testing.T) {
	body := `{
		"model": "opencode/big",
		"stream": false,
		"max_tokens": 256,
		"temperature": 0.7,
		"top_p": 0.9,
		"messages": [{"role": "user", "content": "Hello"}]
	}`

	req, err := DecodeChatRequest([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Model != "opencode/big" {
		t.Errorf("Model = %q, want %q", req.Model, "opencode/big")
	}
	if req.Stream {
		t.Error("Stream = true, want false")
	}
	if req.MaxTokens == nil || *req.MaxTokens != 256 {
		t.Errorf("MaxTokens = %v, want 256", req.MaxTokens)
	}
	if req.Temperature == nil || *req.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", req.Temperature)
	}
	if req.TopP == nil || *req.TopP != 0.9 {
		t.Errorf("TopP = %v, want 0.9", req.TopP)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != RoleUser || req.Messages[0].Content != "Hello" {
		t.Errorf("Messages = %+v, want one user message %q", req.Messages, "Hello")
	}
}

func TestDecodeChatRequestMalformedFieldsDegrade(t *testing.T) {
	// Wrong shapes become absent values, never errors.
	body := `{
		"model": 17,
		"max_tokens": "many",
		"temperature": [],
		"messages": "not an array"
	}`

	req, err := DecodeChatRequest([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Model != "" {
		t.Errorf("Model = %q, want empty", req.Model)
	}
	if req.MaxTokens != nil {
		t.Errorf("MaxTokens = %v, want nil", req.MaxTokens)
	}
	if req.Temperature != nil {
		t.Errorf("Temperature = %v, want nil", req.Temperature)
	}
	if req.Messages != nil {
		t.Errorf("Messages = %+v, want nil", req.Messages)
	}
}

func TestDecodeChatRequestStreamTruthiness(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`0`, false},
		{`1`, true},
		{`""`, false},
		{`"yes"`, true},
		{`{}`, true},
		{`[]`, true},
	}

	for _, tt := range tests {
		req, err := DecodeChatRequest([]byte(`{"stream": ` + tt.value + `}`))
		if err != nil {
			t.Fatalf("stream=%s: unexpected error: %v", tt.value, err)
		}
		if req.Stream != tt.want {
			t.Errorf("stream=%s: got %v, want %v", tt.value, req.Stream, tt.want)
		}
	}

	req, err := DecodeChatRequest([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Stream {
		t.Error("absent stream: got true, want false")
	}
}

func TestDecodeChatRequestRoleRules(t *testing.T) {
	body := `{"messages": [
		{"role": "system", "content": "be terse"},
		{"role": "system", "content": ""},
		{"role": "user", "content": "hi"},
		{"role": "assistant", "content": "hello", "tool_calls": [{"id": "call_1"}]},
		{"role": "tool", "tool_call_id": "call_1", "content": "result"},
		{"role": "narrator", "content": "dropped"},
		{"content": "no role, dropped"},
		"not an object"
	]}`

	req, err := DecodeChatRequest([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantRoles := []string{RoleSystem, RoleUser, RoleAssistant, RoleTool}
	if len(req.Messages) != len(wantRoles) {
		t.Fatalf("got %d messages, want %d: %+v", len(req.Messages), len(wantRoles), req.Messages)
	}
	for i, role := range wantRoles {
		if req.Messages[i].Role != role {
			t.Errorf("message %d role = %q, want %q", i, req.Messages[i].Role, role)
		}
	}

	if req.Messages[0].Content != "be terse" {
		t.Errorf("system content = %q", req.Messages[0].Content)
	}
	if req.Messages[2].ToolCalls == nil {
		t.Error("assistant tool_calls not carried through")
	}
	if req.Messages[3].ToolCallID != "call_1" || req.Messages[3].Content != "result" {
		t.Errorf("tool message = %+v", req.Messages[3])
	}
}

func TestDecodeChatRequestEmptySystemOnly(t *testing.T) {
	req, err := DecodeChatRequest([]byte(`{"messages":[{"role":"system","content":""}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Messages) != 0 {
		t.Errorf("got %d messages, want 0 (empty system message is dropped)", len(req.Messages))
	}
}

func TestDecodeChatRequestUserContentParts(t *testing.T) {
	t.Run("single text part collapses to string", func(t *testing.T) {
		body := `{"messages": [{"role": "user", "content": [{"type": "text", "text": "just this"}]}]}`
		req, err := DecodeChatRequest([]byte(body))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		msg := req.Messages[0]
		if msg.Content != "just this" || msg.Parts != nil {
			t.Errorf("message = %+v, want collapsed plain string", msg)
		}
	})

	t.Run("mixed parts preserved in order", func(t *testing.T) {
		body := `{"messages": [{"role": "user", "content": [
			{"type": "text", "text": "look at"},
			{"type": "image_url", "image_url": {"url": "https://example.com/cat.png"}},
			{"type": "text", "text": "this"}
		]}]}`
		req, err := DecodeChatRequest([]byte(body))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		parts := req.Messages[0].Parts
		if len(parts) != 3 {
			t.Fatalf("got %d parts, want 3", len(parts))
		}
		if parts[0].Text != "look at" || parts[1].ImageURL != "https://example.com/cat.png" || parts[2].Text != "this" {
			t.Errorf("parts = %+v", parts)
		}
	})

	t.Run("unknown and malformed parts skipped", func(t *testing.T) {
		body := `{"messages": [{"role": "user", "content": [
			{"type": "input_audio", "input_audio": {"data": "..."}},
			"not an object",
			{"type": "text", "text": "kept"}
		]}]}`
		req, err := DecodeChatRequest([]byte(body))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		msg := req.Messages[0]
		// The one surviving text part collapses to plain content.
		if msg.Content != "kept" || msg.Parts != nil {
			t.Errorf("message = %+v, want collapsed %q", msg, "kept")
		}
	})
}
