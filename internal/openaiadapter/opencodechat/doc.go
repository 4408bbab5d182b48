// Package opencodechat adapts OpenAI requests to the OpenCode session API,
// enabling OpenAI SDK clients to talk to an OpenCode server without code
// changes.
//
// The adapter handles:
//
//   - Session lifecycle: every request gets a fresh backend session; sessions
//     are never pooled, cached, or reused across requests.
//
//   - Message projection: user-role text content is flattened into backend
//     text parts. Assistant, tool, and system history is accepted on input
//     but not forwarded; image parts are accepted but not yet projected.
//
//   - Deadlines: each request runs under a wall-clock deadline that covers
//     session creation, the message call, and the full lifetime of a stream.
//     The deadline timer is released on every exit path.
//
//   - Streaming: backend chunks become OpenAI "chat.completion.chunk" values
//     in arrival order; chunks without visible text produce no output. A
//     backend that degrades to a one-shot reply despite the stream flag
//     yields exactly one synthesized chunk.
//
// # Adapters
//
// CreateChatCompletionAdapter: OpenAI CreateChatCompletion → OpenCode session message
package opencodechat
