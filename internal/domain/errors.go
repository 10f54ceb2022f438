package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery signals a search request without any filter parameters.
	ErrEmptyQuery = errors.New("request did not contain any query parameters")
	// ErrOperatorKey signals a query parameter name that would act as a store operator.
	ErrOperatorKey = errors.New("query parameter names must not start with $")
	// ErrMissingID signals a fetch request without an identifier.
	ErrMissingID = errors.New("missing identifier")
	// ErrNotFound signals a missing document.
	ErrNotFound = errors.New("not found")
	// ErrMissingToken signals a request that presented no access token.
	ErrMissingToken = errors.New("missing access token")
	// ErrInvalidToken signals a request whose access token is not accepted.
	ErrInvalidToken = errors.New("invalid access token")
	// ErrUnknownResource signals a resource kind outside the catalog.
	ErrUnknownResource = errors.New("unknown resource kind")
)

// MissingIDError wraps ErrMissingID with the resource the request targeted.
type MissingIDError struct {
	Resource string
}

func (e *MissingIDError) Error() string {
	return fmt.Sprintf("request did not contain a %s id", e.Resource)
}

func (e *MissingIDError) Unwrap() error { return ErrMissingID }

// NewMissingID creates a missing identifier error for the resource.
func NewMissingID(resource string) error {
	return &MissingIDError{Resource: resource}
}
