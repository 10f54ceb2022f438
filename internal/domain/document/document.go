// Package document models catalog entries as schema-less documents.
package document

import (
	"fmt"
	"strings"
)

// IDField is the field holding a document's unique identifier.
const IDField = "_id"

// Document is an open mapping from field name to value as returned by the store.
// Nested documents are map[string]any and arrays are []any.
type Document map[string]any

// ID returns the identifier rendered as a string, or "" when absent.
func (d Document) ID() string {
	return IDString(d[IDField])
}

// Get resolves a dotted field path ("academic_session.name").
func (d Document) Get(path string) (any, bool) {
	var cur any = map[string]any(d)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set assigns a value at a dotted field path, creating intermediate documents.
func (d Document) Set(path string, v any) {
	parts := strings.Split(path, ".")
	m := map[string]any(d)
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = v
}

// IDString renders an identifier value. Store-native ids exposing Hex() (ObjectIDs)
// are rendered in hex.
func IDString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case interface{ Hex() string }:
		return id.Hex()
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}
