// Package filter turns request query parameters into equality constraints.
package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/nebula-labs/catalog/internal/domain/document"
)

// Condition constrains one field to any of its raw values.
type Condition struct {
	key    string
	values []string
}

// Key returns the document field name.
func (c Condition) Key() string { return c.key }

// IsOperator reports whether any segment of the dotted key starts with "$".
// Such keys name query operators, not document fields.
func (c Condition) IsOperator() bool {
	for _, part := range strings.Split(c.key, ".") {
		if strings.HasPrefix(part, "$") {
			return true
		}
	}
	return false
}

// Values returns the raw string values in request order.
func (c Condition) Values() []string { return c.values }

// Candidates returns every typed reading of every raw value.
func (c Condition) Candidates() []any {
	out := make([]any, 0, len(c.values))
	for _, v := range c.values {
		out = append(out, Candidates(v)...)
	}
	return out
}

// Matches reports whether a field value satisfies the condition.
// Array fields match when any element does.
func (c Condition) Matches(v any) bool {
	if arr, ok := v.([]any); ok {
		for _, el := range arr {
			if c.Matches(el) {
				return true
			}
		}
		return false
	}
	for _, cand := range c.Candidates() {
		if equal(cand, v) {
			return true
		}
	}
	return false
}

// Filter is an ordered set of conditions, one per distinct key.
type Filter struct {
	conds []Condition
}

// New builds a filter from alternating key/value pairs. A repeated key adds a value.
func New(pairs ...string) Filter {
	var f Filter
	for i := 0; i+1 < len(pairs); i += 2 {
		f.add(pairs[i], pairs[i+1])
	}
	return f
}

// Parse reads a raw query string, keeping first-appearance key order.
// Segments that fail to unescape are taken verbatim.
func Parse(rawQuery string) Filter {
	var f Filter
	for _, seg := range strings.Split(rawQuery, "&") {
		if seg == "" {
			continue
		}
		k, v, _ := strings.Cut(seg, "=")
		k = unescape(k)
		if k == "" {
			continue
		}
		f.add(k, unescape(v))
	}
	return f
}

func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}

func (f *Filter) add(key, value string) {
	for i := range f.conds {
		if f.conds[i].key == key {
			f.conds[i].values = append(f.conds[i].values, value)
			return
		}
	}
	f.conds = append(f.conds, Condition{key: key, values: []string{value}})
}

// Conditions returns the conditions in request order.
func (f Filter) Conditions() []Condition { return f.conds }

// IsEmpty reports whether the filter has no conditions.
func (f Filter) IsEmpty() bool { return len(f.conds) == 0 }

// Matches reports whether every condition holds for the document.
func (f Filter) Matches(doc document.Document) bool {
	for _, c := range f.conds {
		v, ok := doc.Get(c.key)
		if !ok || !c.Matches(v) {
			return false
		}
	}
	return true
}

// String renders the filter back as a query string, for logs.
func (f Filter) String() string {
	vals := make([]string, 0, len(f.conds))
	for _, c := range f.conds {
		for _, v := range c.values {
			vals = append(vals, url.QueryEscape(c.key)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(vals, "&")
}

// Candidates returns the raw string followed by its integer, float or boolean reading.
func Candidates(raw string) []any {
	out := []any{raw}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		out = append(out, i)
	} else if fl, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(fl, 0) && !math.IsNaN(fl) {
		out = append(out, fl)
	}
	switch raw {
	case "true":
		out = append(out, true)
	case "false":
		out = append(out, false)
	}
	return out
}

func equal(cand, v any) bool {
	switch c := cand.(type) {
	case string:
		s, ok := v.(string)
		return ok && s == c
	case bool:
		b, ok := v.(bool)
		return ok && b == c
	case int64:
		n, ok := toFloat(v)
		return ok && n == float64(c)
	case float64:
		n, ok := toFloat(v)
		return ok && n == c
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
