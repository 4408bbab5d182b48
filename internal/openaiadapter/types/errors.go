package types

// Error types used in OpenAI-compatible error envelopes.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeAuthentication = "authentication_error"
	ErrorTypeProvider       = "provider_error"
	ErrorTypeServer         = "server_error"
)

// Error is the detail object of an OpenAI-compatible error envelope.
// Param and Code are always serialized, as explicit nulls when unset.
type Error struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param"`
	Code    *string `json:"code"`
}

// Error implements the error interface for Error, returning the error message.
func (e *Error) Error() string {
	return e.Message
}

// ErrorResponse wraps Error in the {"error": {...}} envelope that OpenAI
// clients expect in both JSON bodies and SSE error frames.
type ErrorResponse struct {
	Err Error `json:"error"`
}

// Error implements the error interface for ErrorResponse, returning the
// underlying error message. This allows ErrorResponse to be used directly in
// error returns.
func (e *ErrorResponse) Error() string {
	return e.Err.Message
}

// NewErrorResponse constructs an envelope with the given message and type.
func NewErrorResponse(message, errorType string) *ErrorResponse {
	return &ErrorResponse{Err: Error{Message: message, Type: errorType}}
}
