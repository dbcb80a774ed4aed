package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigError represents invalid or missing configuration. It is fatal:
// the server must not start when one is returned during construction.
type ConfigError struct {
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config: " + e.Message
}

// NewConfigError creates a ConfigError with the given message.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// TransportError represents a network-level failure (connection refused,
// DNS resolution, TLS handshake, timeout) that occurred before any HTTP
// status code was received. Transport errors are never retried.
type TransportError struct {
	Op  string // logical endpoint, e.g. "chat.completions"
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %s", e.Op, e.Err.Error())
}

// Unwrap exposes the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a network error for the given endpoint.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// ProviderError represents a non-2xx response from the provider. The
// response is preserved as sent: status code, the parsed OpenAI error
// object when the body contained one, the raw body, and the Retry-After
// header value on throttling responses.
type ProviderError struct {
	StatusCode int

	// Fields parsed from the OpenAI error body, empty when the body
	// was not in the expected shape.
	Type    string
	Code    string
	Param   string
	Message string

	// Body holds the raw (possibly truncated) response body.
	Body string

	// RetryAfter holds the raw Retry-After header value, if present.
	RetryAfter string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider: HTTP %d", e.StatusCode)
}

// IsRateLimited reports whether err is a provider throttling response
// (HTTP 429). It is true both for 429s the dispatcher will still retry
// and for the final 429 surfaced after the retry budget is exhausted.
func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.StatusCode == http.StatusTooManyRequests
}
