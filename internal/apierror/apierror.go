// Package apierror defines the error envelopes the API returns to clients.
// Every 4xx/5xx body goes through these types so internal detail (driver
// errors, stack traces) never reaches the wire.
package apierror

// APIError is the single-message envelope used by most error responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries per-field messages for 422 responses.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}
