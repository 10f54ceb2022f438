package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nebula-labs/catalog/internal/db"
	"github.com/nebula-labs/catalog/internal/domain"
	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
	domres "github.com/nebula-labs/catalog/internal/domain/resource"
	"github.com/nebula-labs/catalog/internal/metrics"
)

// mockFinder implements the consumer interface for tests.
type mockFinder struct {
	findFn     func(ctx context.Context, f filter.Filter) ([]document.Document, error)
	findByIDFn func(ctx context.Context, id string) (document.Document, error)
}

func (m *mockFinder) Find(ctx context.Context, f filter.Filter) ([]document.Document, error) {
	if m.findFn != nil {
		return m.findFn(ctx, f)
	}
	return []document.Document{}, nil
}

func (m *mockFinder) FindByID(ctx context.Context, id string) (document.Document, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, db.ErrKeyNotFound
}

func TestSearch_PassesFilterThrough(t *testing.T) {
	var got filter.Filter
	ms := &mockFinder{findFn: func(_ context.Context, f filter.Filter) ([]document.Document, error) {
		got = f
		return []document.Document{{"_id": "CS101"}}, nil
	}}
	repo := New(domres.Course, ms)

	f := filter.New("title", "Intro")
	docs, err := repo.Search(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if got.String() != f.String() {
		t.Errorf("filter passed = %q, want %q", got.String(), f.String())
	}
}

func TestSearch_StoreErrorWrapped(t *testing.T) {
	storeErr := &db.Error{Op: db.OpFind, Err: errors.New("connection refused")}
	ms := &mockFinder{findFn: func(context.Context, filter.Filter) ([]document.Document, error) {
		return nil, storeErr
	}}
	repo := New(domres.Degree, ms)

	before := testutil.ToFloat64(metrics.StoreQueriesTotal.WithLabelValues("degree", "search", "error"))
	_, err := repo.Search(context.Background(), filter.New("name", "CS"))
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	after := testutil.ToFloat64(metrics.StoreQueriesTotal.WithLabelValues("degree", "search", "error"))
	if after-before != 1 {
		t.Errorf("expected error metric increment, got %f", after-before)
	}
}

func TestGet_Found(t *testing.T) {
	ms := &mockFinder{findByIDFn: func(_ context.Context, id string) (document.Document, error) {
		return document.Document{"_id": id, "title": "Intro"}, nil
	}}
	repo := New(domres.Course, ms)

	doc, err := repo.Get(context.Background(), "CS101")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "CS101" {
		t.Errorf("id = %q", doc.ID())
	}
}

func TestGet_NotFoundMapped(t *testing.T) {
	repo := New(domres.Section, &mockFinder{})

	before := testutil.ToFloat64(metrics.StoreQueriesTotal.WithLabelValues("section", "get", "not_found"))
	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, db.ErrKeyNotFound) {
		t.Error("store sentinel should not leak past the repository")
	}
	after := testutil.ToFloat64(metrics.StoreQueriesTotal.WithLabelValues("section", "get", "not_found"))
	if after-before != 1 {
		t.Errorf("expected not_found metric increment, got %f", after-before)
	}
}

func TestGet_StoreError(t *testing.T) {
	ms := &mockFinder{findByIDFn: func(context.Context, string) (document.Document, error) {
		return nil, context.DeadlineExceeded
	}}
	repo := New(domres.Exam, ms)

	_, err := repo.Get(context.Background(), "e1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline error, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("store failure must not look like not found")
	}
}
