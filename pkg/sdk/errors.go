package catalog

import "github.com/nebula-labs/catalog/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuery      = domain.ErrEmptyQuery
	ErrOperatorKey     = domain.ErrOperatorKey
	ErrMissingID       = domain.ErrMissingID
	ErrNotFound        = domain.ErrNotFound
	ErrUnknownResource = domain.ErrUnknownResource
)
