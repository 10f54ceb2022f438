package resource

import (
	"context"

	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
)

// Repository defines the read contract for one resource collection.
type Repository interface {
	Search(ctx context.Context, f filter.Filter) ([]document.Document, error)
	Get(ctx context.Context, id string) (document.Document, error)
}
