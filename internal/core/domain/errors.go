// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// GenericFailureMessage is the last-resort user-facing failure text
const GenericFailureMessage = "Something went wrong"

// NetworkError means the reorder service could not be reached
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: reorder service unreachable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError means the reorder service answered with a failure.
// Message is the service's own explanation and may be empty.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: reorder service returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: reorder service returned status %d: %s", e.Op, e.StatusCode, e.Message)
}

// ValidationError is raised locally before a request is sent
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrSyncInProgress is returned when a kind is triggered while it is already running
var ErrSyncInProgress = errors.New("sync already in progress")

// UserMessage picks the text shown to the operator for a failure:
// the service's message when it sent one, the validation message for
// local checks, otherwise the fallback.
func UserMessage(err error, fallback string) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) && validationErr.Message != "" {
		return validationErr.Message
	}
	if fallback == "" {
		return GenericFailureMessage
	}
	return fallback
}
