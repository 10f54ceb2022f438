package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nebula-labs/catalog/internal/db"
	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
)

// Compile-time check: Collection implements db.Collection.
var _ db.Collection = (*Collection)(nil)

// Collection implements db.Collection over a MongoDB collection.
type Collection struct {
	coll *mongo.Collection
}

// Find runs an equality query built from the filter.
func (c *Collection) Find(ctx context.Context, f filter.Filter) ([]document.Document, error) {
	cur, err := c.coll.Find(ctx, buildFilter(f))
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	docs := make([]document.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, toDocument(m))
	}
	return docs, nil
}

// FindByID looks up a single document by _id.
func (c *Collection) FindByID(ctx context.Context, id string) (document.Document, error) {
	var m bson.M
	if err := c.coll.FindOne(ctx, idFilter(id)).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpFindOne, Err: err}
	}
	return toDocument(m), nil
}

// SetField applies a $set of one field to the document with the given id.
func (c *Collection) SetField(ctx context.Context, id, field string, value any) error {
	res, err := c.coll.UpdateOne(ctx, idFilter(id), bson.D{{Key: "$set", Value: bson.D{{Key: field, Value: value}}}})
	if err != nil {
		return &db.Error{Op: db.OpUpdateOne, Err: err}
	}
	if res.MatchedCount == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

// buildFilter maps each condition to an exact match, or to $in when the raw
// values have more than one typed reading.
func buildFilter(f filter.Filter) bson.D {
	out := bson.D{}
	for _, c := range f.Conditions() {
		cands := c.Candidates()
		if c.Key() == document.IDField {
			cands = append(cands, objectIDs(c.Values())...)
		}
		if len(cands) == 1 {
			out = append(out, bson.E{Key: c.Key(), Value: cands[0]})
			continue
		}
		out = append(out, bson.E{Key: c.Key(), Value: bson.M{"$in": bson.A(cands)}})
	}
	return out
}

// idFilter matches _id as a plain string, or as an ObjectID when id is 24-hex.
func idFilter(id string) bson.D {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.D{{Key: document.IDField, Value: bson.M{"$in": bson.A{id, oid}}}}
	}
	return bson.D{{Key: document.IDField, Value: id}}
}

func objectIDs(values []string) []any {
	var out []any
	for _, v := range values {
		if oid, err := primitive.ObjectIDFromHex(v); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func toDocument(m bson.M) document.Document {
	return document.Document(normalize(m).(map[string]any))
}

// normalize converts driver container types to plain maps and slices so that
// documents are traversable by the domain and encode as JSON objects.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.A:
		return normalizeSlice(t)
	case []any:
		return normalizeSlice(t)
	default:
		return v
	}
}

func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = normalize(v)
	}
	return out
}

func normalizeSlice(in []any) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = normalize(v)
	}
	return out
}
