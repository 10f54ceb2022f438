package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/nebula-labs/catalog/internal/domain/filter"
)

// Document is a catalog record as stored, keyed by field name.
type Document = map[string]any

// Condition restricts a search to documents whose field equals one of the values.
type Condition struct {
	field  string
	values []string
}

// Eq matches documents whose field equals any of values. Numeric and boolean
// strings also match the typed value. Eq(field) with no values matches an
// empty string.
func Eq(field string, values ...string) Condition {
	if len(values) == 0 {
		values = []string{""}
	}
	return Condition{field: field, values: values}
}

// ResourceService queries one resource kind.
type ResourceService struct {
	kind string
	svc  resourceUseCase
	obs  *observer
}

// Kind returns the resource kind the service queries.
func (s *ResourceService) Kind() string { return s.kind }

// Search returns the documents matching every condition, never nil on success.
// At least one condition is required.
func (s *ResourceService) Search(ctx context.Context, conds ...Condition) (docs []Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe(s.kind, "search", start, err) }()

	pairs := make([]string, 0, 2*len(conds))
	for _, c := range conds {
		for _, v := range c.values {
			pairs = append(pairs, c.field, v)
		}
	}

	found, err := s.svc.Search(ctx, filter.New(pairs...))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.kind, err)
	}

	docs = make([]Document, len(found))
	for i, d := range found {
		docs[i] = Document(d)
	}
	return docs, nil
}

// Get returns the document with id, or ErrNotFound.
func (s *ResourceService) Get(ctx context.Context, id string) (doc Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe(s.kind, "get", start, err) }()

	d, err := s.svc.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.kind, err)
	}
	return Document(d), nil
}
