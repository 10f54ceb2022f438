package redis

import (
	"context"
	"encoding/json"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/nebula-labs/catalog/internal/db"
	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
)

const (
	mgetBatchSize = 200
	// mgetParallelism bounds concurrent MGET round-trips per Find.
	mgetParallelism = 4
)

// Compile-time check: Collection implements db.Collection.
var _ db.Collection = (*Collection)(nil)

// Collection implements db.Collection over keys sharing a collection prefix.
type Collection struct {
	store  *Store
	prefix string
}

// Find loads every document in the collection and keeps the ones matching the
// filter. Results are ordered by key.
func (c *Collection) Find(ctx context.Context, f filter.Filter) ([]document.Document, error) {
	keys, err := c.store.scan(ctx, escapeGlob(c.prefix)+"*")
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)

	batches := chunk(keys, mgetBatchSize)
	loaded := make([][]document.Document, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mgetParallelism)
	for i, batch := range batches {
		g.Go(func() error {
			values, err := c.store.mget(gctx, batch)
			if err != nil {
				return err
			}
			docs := make([]document.Document, 0, len(values))
			for _, v := range values {
				if v == nil {
					continue
				}
				doc, err := decode(v)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}
			loaded[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]document.Document, 0)
	for _, docs := range loaded {
		for _, d := range docs {
			if f.Matches(d) {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

// FindByID loads the document stored under the id key.
func (c *Collection) FindByID(ctx context.Context, id string) (document.Document, error) {
	raw, err := c.store.get(ctx, c.prefix+id)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// SetField rewrites the document with one field replaced. Not atomic against
// concurrent writers.
func (c *Collection) SetField(ctx context.Context, id, field string, value any) error {
	doc, err := c.FindByID(ctx, id)
	if err != nil {
		return err
	}
	doc.Set(field, value)

	data, err := json.Marshal(doc)
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return c.store.set(ctx, c.prefix+id, data)
}

func decode(raw []byte) (document.Document, error) {
	var doc document.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &db.Error{Op: db.OpDecode, Err: err}
	}
	return doc, nil
}

func chunk(keys []string, size int) [][]string {
	var out [][]string
	for len(keys) > size {
		out = append(out, keys[:size])
		keys = keys[size:]
	}
	if len(keys) > 0 {
		out = append(out, keys)
	}
	return out
}
