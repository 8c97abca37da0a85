// internal/domain/homework/errors.go
package homework

import (
	"fmt"
	"strings"
)

// RequestInfo describes the outgoing request in error messages.
// Headers are expected to be redacted by the caller.
type RequestInfo struct {
	Endpoint string
	Headers  map[string]string
	Params   map[string]string
}

func (ri RequestInfo) String() string {
	return fmt.Sprintf("endpoint: %s, headers: %v, params: %v", ri.Endpoint, ri.Headers, ri.Params)
}

// TransportError means the API could not be reached at all.
type TransportError struct {
	Request RequestInfo
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v (%s)", e.Err, e.Request)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError means the API answered with an explicit error payload.
type ServerError struct {
	Request    RequestInfo
	StatusCode int
	Reason     string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %s; status code: %d; %s", e.Reason, e.StatusCode, e.Request)
}

// UnexpectedStatusCodeError means the API answered with a non-200 HTTP status.
type UnexpectedStatusCodeError struct {
	Request    RequestInfo
	StatusCode int
}

func (e *UnexpectedStatusCodeError) Error() string {
	return fmt.Sprintf("unexpected status code %d; %s", e.StatusCode, e.Request)
}

// MalformedResponseError means the answer does not have the expected shape.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed API response: " + e.Reason
}

// MissingFieldError names a required homework field absent from the answer.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("homework field %q is missing", e.Field)
}

// UnexpectedStatusError names a status outside the enumerated set.
type UnexpectedStatusError struct {
	Status string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected homework status: %q", e.Status)
}

// NotifyError wraps a failed delivery to the recipient.
type NotifyError struct {
	RecipientID int64
	Err         error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("failed to send message to %d: %v", e.RecipientID, e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }

// ConfigurationError lists required settings that are not set.
type ConfigurationError struct {
	Variables []string
}

func (e *ConfigurationError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Variables, ", ")
}
