// internal/api/errors.go
package api

import (
	"errors"
	"fmt"
)

// Kind classifies API client failures
type Kind string

// Failure kinds
const (
	KindNetwork    Kind = "network"    // no response received
	KindAuth       Kind = "auth"       // 401 unrecovered after one refresh attempt
	KindServer     Kind = "server"     // non-2xx with a server-provided body
	KindValidation Kind = "validation" // rejected before any network call
)

// NetworkErrorMessage is the uniform message shown for transport failures
const NetworkErrorMessage = "Network error. Please check your internet connection."

// Error is the normalized error shape produced by the API client. The
// Message of server failures is the server's own `error` field, surfaced
// verbatim.
type Error struct {
	Kind    Kind
	Status  int
	Path    string
	Message string
	cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api %s error (%d) on %s: %s", e.Kind, e.Status, e.Path, e.Message)
	}
	return fmt.Sprintf("api %s error on %s: %s", e.Kind, e.Path, e.Message)
}

// Unwrap exposes the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.cause
}

// UserMessage returns the message suitable for direct display
func (e *Error) UserMessage() string {
	return e.Message
}

func newNetworkError(path string, cause error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Path:    path,
		Message: NetworkErrorMessage,
		cause:   cause,
	}
}

func newAuthError(path string, status int, message string) *Error {
	if message == "" {
		message = "Authentication failed"
	}
	return &Error{
		Kind:    KindAuth,
		Status:  status,
		Path:    path,
		Message: message,
	}
}

func newServerError(path string, status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("Request failed with status %d", status)
	}
	return &Error{
		Kind:    KindServer,
		Status:  status,
		Path:    path,
		Message: message,
	}
}

// IsNetwork reports whether err is a normalized transport failure
func IsNetwork(err error) bool {
	return isKind(err, KindNetwork)
}

// IsAuth reports whether err is an unrecovered authentication failure
func IsAuth(err error) bool {
	return isKind(err, KindAuth)
}

// IsServer reports whether err carries a server-provided failure body
func IsServer(err error) bool {
	return isKind(err, KindServer)
}

func isKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// MessageFor extracts the displayable message from any error returned by
// the client, falling back to err.Error() for unexpected errors.
func MessageFor(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
