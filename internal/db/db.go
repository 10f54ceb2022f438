package db

import (
	"context"
	"time"

	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
)

// Store is the document database facade. Consumers depend on the narrow
// sub-interfaces below.
type Store interface {
	Pinger
	Collection(name string) Collection
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Collection is a handle on one named document collection.
type Collection interface {
	Finder
	FieldSetter
}

// Finder runs read queries against a collection.
type Finder interface {
	// Find returns every document matching all filter conditions.
	Find(ctx context.Context, f filter.Filter) ([]document.Document, error)
	// FindByID returns ErrKeyNotFound when no document has the identifier.
	FindByID(ctx context.Context, id string) (document.Document, error)
}

// FieldSetter updates a single field of an existing document.
type FieldSetter interface {
	SetField(ctx context.Context, id, field string, value any) error
}
