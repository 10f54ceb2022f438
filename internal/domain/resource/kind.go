// Package resource enumerates the catalog entity categories served by the API.
package resource

import (
	"fmt"

	"github.com/nebula-labs/catalog/internal/domain"
)

// Kind selects which collection a query targets.
type Kind string

const (
	// Course is a catalog course.
	Course Kind = "course"
	// Degree is a degree plan.
	Degree Kind = "degree"
	// Section is a scheduled section of a course.
	Section Kind = "section"
	// Exam is a credit-by-exam entry.
	Exam Kind = "exam"
)

var all = []Kind{Course, Degree, Section, Exam}

// All returns every resource kind in route registration order.
func All() []Kind {
	out := make([]Kind, len(all))
	copy(out, all)
	return out
}

// Parse validates a raw kind name.
func Parse(s string) (Kind, error) {
	for _, k := range all {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, domain.ErrUnknownResource)
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// DefaultCollection returns the collection name used when none is configured.
func (k Kind) DefaultCollection() string {
	return string(k) + "s"
}
