package opencode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL)
}

func TestCreateSession(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/session" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(Session{ID: "ses_abc"})
	})

	session, err := client.CreateSession(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ID != "ses_abc" {
		t.Errorf("ID = %q, want %q", session.ID, "ses_abc")
	}
}

func TestSendMessage(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/ses_abc/message" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req MessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("blocking send must not set the stream flag")
		}
		if len(req.Parts) != 1 || req.Parts[0].Text != "Hello" {
			t.Errorf("parts = %+v", req.Parts)
		}
		json.NewEncoder(w).Encode(Reply{
			Model: "anthropic/claude",
			Parts: []MessagePart{{Type: "text", Text: "Hi there"}},
		})
	})

	reply, err := client.SendMessage(t.Context(), "ses_abc", MessageRequest{
		Parts: []MessagePart{{Type: "text", Text: "Hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Model != "anthropic/claude" || len(reply.Parts) != 1 {
		t.Errorf("reply = %+v", reply)
	}
}

func TestSendMessageNon2xx(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session not found", http.StatusNotFound)
	})

	_, err := client.SendMessage(t.Context(), "ses_missing", MessageRequest{})
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "opencode 404") || !strings.Contains(err.Error(), "session not found") {
		t.Errorf("error = %v, want status and body text", err)
	}
}

func TestStreamMessage(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req MessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !req.Stream {
			t.Error("streaming send must set the stream flag")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"parts\":[{\"type\":\"text\",\"text\":\"Hel\"}]}\n\n")
		fmt.Fprint(w, "data: {\"parts\":[{\"type\":\"text\",\"text\":\"lo\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	reply, stream, err := client.StreamMessage(t.Context(), "ses_abc", MessageRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != nil {
		t.Fatalf("reply = %+v, want nil for a streamed response", reply)
	}

	var texts []string
	for chunk, err := range stream {
		if err != nil {
			t.Fatalf("stream error: %v", err)
		}
		for _, part := range chunk.Parts {
			texts = append(texts, part.Text)
		}
	}
	if len(texts) != 2 || texts[0] != "Hel" || texts[1] != "lo" {
		t.Errorf("texts = %v", texts)
	}
}

func TestStreamMessageOneShotFallback(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Backend ignores the stream flag and answers with plain JSON.
		json.NewEncoder(w).Encode(Reply{Parts: []MessagePart{{Type: "text", Text: "buffered"}}})
	})

	reply, stream, err := client.StreamMessage(t.Context(), "ses_abc", MessageRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stream != nil {
		t.Fatal("stream should be nil on the one-shot fallback path")
	}
	if reply == nil || len(reply.Parts) != 1 || reply.Parts[0].Text != "buffered" {
		t.Errorf("reply = %+v", reply)
	}
}

func TestListProviders(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/config/providers" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(ProviderList{Data: ProviderData{All: []Provider{
			{ID: "anthropic", Models: map[string]ModelMeta{"claude": {Name: "Claude"}}},
		}}})
	})

	list, err := client.ListProviders(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Data.All) != 1 || list.Data.All[0].ID != "anthropic" {
		t.Errorf("list = %+v", list)
	}
}
