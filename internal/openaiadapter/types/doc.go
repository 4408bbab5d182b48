// Package types provides OpenAI API types for server-side request/response handling.
//
// The types are written by hand rather than generated from the OpenAPI spec
// or taken from the openai-go SDK:
//
//  1. LENIENT DECODING: inbound requests are decoded field by field; any
//     field that fails shape validation is treated as absent rather than
//     rejecting the request. Schema-generated types enforce exactly the
//     strictness this contract forbids.
//
//  2. SERVER-SIDE vs CLIENT-SIDE: the openai-go SDK is designed for making
//     outbound API calls TO OpenAI. This gateway receives inbound requests
//     FROM clients and translates them to the OpenCode backend.
//
//  3. STANDARD JSON: the response types work with encoding/json directly,
//     with no SDK-specific optional wrappers.
package types
