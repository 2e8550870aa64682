package reconciler

import (
	"errors"
	"fmt"
)

// NotFoundError reports a resource or referenced object that does not
// exist remotely, in contexts where existence is required (state=exists,
// or a required reference field).
type NotFoundError struct {
	// Kind categorizes the resource that was not found.
	Kind string

	// Name is the reference that failed to resolve.
	Name string

	// Message overrides the default format when set.
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// IsNotFound checks if an error is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a NotFoundError for the given kind and name.
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}
