package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SSEWriter writes Server-Sent-Events frames to an HTTP response. Each frame
// is flushed immediately so clients see chunks as they are produced;
// backpressure is the transport's responsibility.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter prepares the response for event streaming. It fails when the
// underlying ResponseWriter cannot flush, since an SSE response that buffers
// until completion is worse than an explicit error.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteData serializes v as JSON and writes it as one data frame.
func (s *SSEWriter) WriteData(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal SSE payload: %w", err)
	}
	return s.WriteRaw(string(payload))
}

// WriteEvent writes an event-type line. The next data frame belongs to this
// event.
func (s *SSEWriter) WriteEvent(name string) error {
	if _, err := fmt.Fprintf(s.w, "event: %s\n", name); err != nil {
		return err
	}
	return nil
}

// WriteRaw writes a pre-serialized payload as one data frame and flushes it.
func (s *SSEWriter) WriteRaw(data string) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
