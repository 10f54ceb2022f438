// Package resource binds one catalog resource kind to its store collection.
package resource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nebula-labs/catalog/internal/db"
	"github.com/nebula-labs/catalog/internal/domain"
	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
	domres "github.com/nebula-labs/catalog/internal/domain/resource"
	"github.com/nebula-labs/catalog/internal/metrics"
)

const (
	opSearch = "search"
	opGet    = "get"

	statusOK       = "ok"
	statusNotFound = "not_found"
	statusError    = "error"
)

// finder is the consumer interface for the collection handle (ISP).
type finder interface {
	Find(ctx context.Context, f filter.Filter) ([]document.Document, error)
	FindByID(ctx context.Context, id string) (document.Document, error)
}

// Repo implements usecase/resource.Repository for one collection.
type Repo struct {
	kind  domres.Kind
	store finder
}

// New creates a repository for the kind over its collection.
func New(kind domres.Kind, coll finder) *Repo {
	return &Repo{kind: kind, store: coll}
}

// Search returns the documents matching every filter condition.
func (r *Repo) Search(ctx context.Context, f filter.Filter) ([]document.Document, error) {
	start := time.Now()
	docs, err := r.store.Find(ctx, f)
	if err != nil {
		metrics.ObserveStoreQuery(r.kind.String(), opSearch, statusError, start)
		return nil, fmt.Errorf("find %s: %w", r.kind, err)
	}
	metrics.ObserveStoreQuery(r.kind.String(), opSearch, statusOK, start)
	metrics.StoreDocumentsReturned.WithLabelValues(r.kind.String()).Observe(float64(len(docs)))
	return docs, nil
}

// Get returns a document by id, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (document.Document, error) {
	start := time.Now()
	doc, err := r.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			metrics.ObserveStoreQuery(r.kind.String(), opGet, statusNotFound, start)
			return nil, domain.ErrNotFound
		}
		metrics.ObserveStoreQuery(r.kind.String(), opGet, statusError, start)
		return nil, fmt.Errorf("find %s %q: %w", r.kind, id, err)
	}
	metrics.ObserveStoreQuery(r.kind.String(), opGet, statusOK, start)
	return doc, nil
}
