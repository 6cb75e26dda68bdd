// Package apierror provides the JSON error envelopes returned by the API.
// Internal details (stack traces, SQL errors) never go through here.
package apierror

// APIError is the envelope for authentication, not-found, state and internal errors.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries a per-field breakdown keyed by JSON field name.
type ValidationError struct {
	Error   string              `json:"error"`
	Details map[string][]string `json:"details"`
}

func NewValidation(details map[string][]string) *ValidationError {
	return &ValidationError{Error: "Validation failed", Details: details}
}

// Field builds a single-field validation error.
func Field(field, msg string) *ValidationError {
	return NewValidation(map[string][]string{field: {msg}})
}
