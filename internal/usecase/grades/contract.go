package grades

import (
	"context"

	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
)

// CourseFinder looks courses up by field equality.
type CourseFinder interface {
	Find(ctx context.Context, f filter.Filter) ([]document.Document, error)
}

// SectionStore reads sections and writes their grade distribution.
type SectionStore interface {
	FindByID(ctx context.Context, id string) (document.Document, error)
	SetField(ctx context.Context, id, field string, value any) error
}
