package github

import (
	"fmt"
)

// ValidationError reports a required input that is missing or unusable.
// Errors compare equal under errors.Is when they name the same field.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s (looked in %s)", e.Message, e.Value)
	}
	return e.Message
}

// Is matches validation errors by field
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Field == e.Field
}

var (
	// ErrMissingOwner is returned when no repository owner was given
	ErrMissingOwner = &ValidationError{Field: "owner", Message: "owner is required"}
	// ErrMissingRepo is returned when no repository name was given
	ErrMissingRepo = &ValidationError{Field: "repo", Message: "repo is required"}
	// ErrMissingToken is returned when neither --token nor the token environment variable is set
	ErrMissingToken = &ValidationError{Field: "token", Message: "--token or the access token environment variable is required"}
	// ErrMissingConfig is returned when no label configuration could be found
	ErrMissingConfig = &ValidationError{Field: "config", Message: "a label config file is required"}
)

// TransportError wraps a failure to reach the API at all
type TransportError struct {
	Method string
	Path   string
	Err    error
}

// Error returns the underlying error's message unchanged
func (e *TransportError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError reports a response with a status code above 299
type HTTPStatusError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP status code %d: %s", e.StatusCode, e.Message)
}

// MalformedResponseError reports a response body that could not be parsed.
// StatusCode is zero when the body was rejected after the call returned.
type MalformedResponseError struct {
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *MalformedResponseError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("malformed response (HTTP status code %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("malformed response: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// SyncError carries the first error of a failed run and the last state it reached
type SyncError struct {
	State State
	Err   error
}

// Error returns the cause's message so it reads the same to the user
func (e *SyncError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *SyncError) Unwrap() error {
	return e.Err
}
