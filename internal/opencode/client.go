// Package opencode is an HTTP client for the OpenCode server's session API.
//
// The server is session oriented: callers create a session, then send
// messages into it. Message sends are either blocking (one JSON reply) or
// streaming (an SSE sequence of partial replies). The client exposes both
// modes and reports when a streaming request was answered with a plain JSON
// body so callers can degrade gracefully.
package opencode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"mime"
	"net/http"
	"strings"
	"time"
)

// Client sends requests to an OpenCode server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	// streamClient has no client-level timeout; streaming calls are bounded
	// by the request context's deadline instead.
	streamClient *http.Client
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string) *Client {
	transport := http.DefaultTransport

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   5 * time.Minute,
		},
		streamClient: &http.Client{
			Transport: transport,
		},
	}
}

// CreateSession creates a fresh backend session.
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	resp, err := c.post(ctx, c.httpClient, "/session", struct{}{}, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// SendMessage sends a blocking message into a session and returns the
// complete reply.
func (c *Client) SendMessage(ctx context.Context, sessionID string, req MessageRequest) (*Reply, error) {
	req.Stream = false
	resp, err := c.post(ctx, c.httpClient, "/session/"+sessionID+"/message", req, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	return &reply, nil
}

// StreamMessage sends a streaming message into a session.
//
// When the server streams, the returned sequence yields chunks in arrival
// order and the reply is nil. When the server degrades to a one-shot JSON
// answer despite the stream flag, the reply is returned instead and the
// sequence is nil. Exactly one of the two is non-nil on success.
func (c *Client) StreamMessage(ctx context.Context, sessionID string, req MessageRequest) (*Reply, iter.Seq2[*StreamChunk, error], error) {
	req.Stream = true
	resp, err := c.post(ctx, c.streamClient, "/session/"+sessionID+"/message", req, "text/event-stream")
	if err != nil {
		return nil, nil, err
	}

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, nil, fmt.Errorf("send message: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "text/event-stream" {
		// One-shot fallback: the server answered with a buffered reply.
		defer resp.Body.Close()
		var reply Reply
		if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
			return nil, nil, fmt.Errorf("decode reply: %w", err)
		}
		return &reply, nil, nil
	}

	return nil, readStream(ctx, resp.Body), nil
}

// ListProviders fetches the provider/model catalogue.
func (c *Client) ListProviders(ctx context.Context) (*ProviderList, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/config/providers", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("opencode request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}

	var list ProviderList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode providers: %w", err)
	}
	return &list, nil
}

func (c *Client) post(ctx context.Context, client *http.Client, path string, body any, accept string) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if accept != "" {
		httpReq.Header.Set("Accept", accept)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("opencode request: %w", err)
	}
	return resp, nil
}

// checkStatus turns a non-2xx response into an error carrying the status and
// body text. The body is truncated to keep error messages bounded.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("opencode %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
