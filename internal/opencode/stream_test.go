package opencode

import (
	"io"
	"strings"
	"testing"
)

func collect(t *testing.T, body string) ([]*StreamChunk, error) {
	t.Helper()
	stream := readStream(t.Context(), io.NopCloser(strings.NewReader(body)))

	var chunks []*StreamChunk
	for chunk, err := range stream {
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func TestReadStream(t *testing.T) {
	body := "data: {\"parts\":[{\"type\":\"text\",\"text\":\"a\"}]}\n\n" +
		"data: {\"parts\":[]}\n\n" +
		"data: {\"parts\":[{\"type\":\"text\",\"text\":\"b\"}]}\n\n" +
		"data: [DONE]\n\n"

	chunks, err := collect(t, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if chunks[0].Parts[0].Text != "a" || chunks[2].Parts[0].Text != "b" {
		t.Errorf("chunks = %+v", chunks)
	}
}

func TestReadStreamStopsAtSentinel(t *testing.T) {
	body := "data: {\"parts\":[{\"type\":\"text\",\"text\":\"before\"}]}\n\n" +
		"data: [DONE]\n\n" +
		"data: {\"parts\":[{\"type\":\"text\",\"text\":\"after\"}]}\n\n"

	chunks, err := collect(t, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Parts[0].Text != "before" {
		t.Errorf("chunks = %+v, want only the pre-sentinel chunk", chunks)
	}
}

func TestReadStreamMalformedChunk(t *testing.T) {
	body := "data: {not json}\n\n"

	chunks, err := collect(t, body)
	if len(chunks) != 0 {
		t.Errorf("chunks = %+v, want none", chunks)
	}
	if err == nil || !strings.Contains(err.Error(), "decode stream chunk") {
		t.Errorf("error = %v, want decode failure", err)
	}
}

func TestReadStreamTruncatedInputEndsQuietly(t *testing.T) {
	// A body that ends without [DONE] or a trailing blank line just ends;
	// transport-level truncation surfaces via the read error path instead.
	chunks, err := collect(t, "data: {\"parts\":[]}\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("chunks = %+v, want none (no blank line closed the event)", chunks)
	}
}
