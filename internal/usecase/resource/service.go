// Package resource implements the query service shared by every catalog resource kind.
package resource

import (
	"context"
	"fmt"

	"github.com/nebula-labs/catalog/internal/domain"
	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
	domres "github.com/nebula-labs/catalog/internal/domain/resource"
)

// Service answers search and fetch requests for a single resource kind.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	kind domres.Kind
	repo Repository
}

// New creates a query service bound to kind.
func New(kind domres.Kind, repo Repository) *Service {
	return &Service{kind: kind, repo: repo}
}

// Kind returns the resource kind the service is bound to.
func (s *Service) Kind() domres.Kind { return s.kind }

// Search returns every document matching all filter conditions.
// The result is never nil.
func (s *Service) Search(ctx context.Context, f filter.Filter) ([]document.Document, error) {
	if f.IsEmpty() {
		return nil, domain.ErrEmptyQuery
	}
	for _, c := range f.Conditions() {
		if c.IsOperator() {
			return nil, fmt.Errorf("%w: %q", domain.ErrOperatorKey, c.Key())
		}
	}

	docs, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.kind, err)
	}
	if docs == nil {
		docs = []document.Document{}
	}
	return docs, nil
}

// Get returns the document with the given id.
// A missing document yields domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (document.Document, error) {
	if id == "" {
		return nil, domain.NewMissingID(s.kind.String())
	}

	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.kind, err)
	}
	return doc, nil
}
