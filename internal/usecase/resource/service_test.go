package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nebula-labs/catalog/internal/domain"
	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
	domres "github.com/nebula-labs/catalog/internal/domain/resource"
)

// --- Mocks ---

type mockRepo struct {
	calls     atomic.Int32
	searchFn  func(ctx context.Context, f filter.Filter) ([]document.Document, error)
	getResult document.Document
	getErr    error
}

func (m *mockRepo) Search(ctx context.Context, f filter.Filter) ([]document.Document, error) {
	m.calls.Add(1)
	if m.searchFn != nil {
		return m.searchFn(ctx, f)
	}
	return nil, nil
}

func (m *mockRepo) Get(_ context.Context, _ string) (document.Document, error) {
	m.calls.Add(1)
	return m.getResult, m.getErr
}

// --- Search ---

func TestSearch_EmptyFilter(t *testing.T) {
	repo := &mockRepo{}
	svc := New(domres.Course, repo)

	_, err := svc.Search(context.Background(), filter.Filter{})
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if err.Error() != "request did not contain any query parameters" {
		t.Errorf("message = %q", err.Error())
	}
	if repo.calls.Load() != 0 {
		t.Errorf("store called %d times for empty filter", repo.calls.Load())
	}
}

func TestSearch_OperatorKeyRejected(t *testing.T) {
	repo := &mockRepo{}
	svc := New(domres.Course, repo)

	for _, raw := range []string{"$where=sleep(5000)", "title=Intro&meetings.$ne=x"} {
		_, err := svc.Search(context.Background(), filter.Parse(raw))
		if !errors.Is(err, domain.ErrOperatorKey) {
			t.Errorf("Search(%q): expected ErrOperatorKey, got %v", raw, err)
		}
	}
	if repo.calls.Load() != 0 {
		t.Errorf("store called %d times for operator keys", repo.calls.Load())
	}
}

func TestSearch_Matches(t *testing.T) {
	repo := &mockRepo{searchFn: func(context.Context, filter.Filter) ([]document.Document, error) {
		return []document.Document{{"_id": "CS101", "title": "Intro"}}, nil
	}}
	svc := New(domres.Course, repo)

	docs, err := svc.Search(context.Background(), filter.New("title", "Intro"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].ID() != "CS101" {
		t.Errorf("unexpected result: %v", docs)
	}
}

func TestSearch_NilBecomesEmpty(t *testing.T) {
	svc := New(domres.Exam, &mockRepo{})

	docs, err := svc.Search(context.Background(), filter.New("type", "AP"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(docs) != 0 {
		t.Errorf("expected 0 docs, got %d", len(docs))
	}
}

func TestSearch_StoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	repo := &mockRepo{searchFn: func(context.Context, filter.Filter) ([]document.Document, error) {
		return nil, storeErr
	}}
	svc := New(domres.Degree, repo)

	_, err := svc.Search(context.Background(), filter.New("subject", "CS"))
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, domain.ErrEmptyQuery) {
		t.Error("store failure must not be a validation error")
	}
}

func TestSearch_ConcurrentDisjoint(t *testing.T) {
	repo := &mockRepo{searchFn: func(_ context.Context, f filter.Filter) ([]document.Document, error) {
		v := f.Conditions()[0].Values()[0]
		return []document.Document{{"_id": v}}, nil
	}}
	svc := New(domres.Section, repo)

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			want := fmt.Sprintf("s%d", i)
			docs, err := svc.Search(context.Background(), filter.New("_id", want))
			if err != nil {
				errs <- err
				return
			}
			if len(docs) != 1 || docs[0].ID() != want {
				errs <- fmt.Errorf("search %s returned %v", want, docs)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

// --- Get ---

func TestGet_MissingID(t *testing.T) {
	repo := &mockRepo{}
	svc := New(domres.Section, repo)

	_, err := svc.Get(context.Background(), "")
	if !errors.Is(err, domain.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if err.Error() != "request did not contain a section id" {
		t.Errorf("message = %q", err.Error())
	}
	if repo.calls.Load() != 0 {
		t.Error("store must not be called without an id")
	}
}

func TestGet_Found(t *testing.T) {
	repo := &mockRepo{getResult: document.Document{"_id": "CS101", "title": "Intro"}}
	svc := New(domres.Course, repo)

	doc, err := svc.Get(context.Background(), "CS101")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["title"] != "Intro" {
		t.Errorf("title = %v", doc["title"])
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := New(domres.Course, &mockRepo{getErr: domain.ErrNotFound})

	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestKind(t *testing.T) {
	for _, k := range domres.All() {
		if got := New(k, &mockRepo{}).Kind(); got != k {
			t.Errorf("Kind() = %q, want %q", got, k)
		}
	}
}
