package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors for domain contracts
var (
	// ErrItemNotFound occurs when the data service has no item with the requested identifier
	ErrItemNotFound = errors.New("item not found")

	// ErrUnauthenticated occurs when a user-pool call is attempted without a session token
	ErrUnauthenticated = errors.New("authenticated session required")

	// ErrPageNotFound occurs when a page store has no page for the requested path
	ErrPageNotFound = errors.New("page not found")
)

// GraphQLError is one entry of a data-service error list.
type GraphQLError struct {
	Message   string
	ErrorType string
	Path      []string
}

// ServiceError is a failed data-service call. It keeps every error the service
// reported, in order.
type ServiceError struct {
	Operation string
	Errors    []GraphQLError
	Cause     error
}

// NewServiceError wraps a transport-level failure as a single-entry ServiceError.
func NewServiceError(operation string, cause error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Errors:    []GraphQLError{{Message: cause.Error()}},
		Cause:     cause,
	}
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Operation, strings.Join(e.Messages(), "; "))
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Messages returns the message of every reported error, followed by the
// response path it points at when the service gave one.
func (e *ServiceError) Messages() []string {
	messages := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		if len(ge.Path) > 0 {
			messages = append(messages, fmt.Sprintf("%s (at %s)", ge.Message, strings.Join(ge.Path, ".")))
			continue
		}
		messages = append(messages, ge.Message)
	}
	return messages
}

// AsServiceError extracts a ServiceError from err's chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
