package resource

import (
	"errors"
	"testing"

	"github.com/nebula-labs/catalog/internal/domain"
)

func TestParse(t *testing.T) {
	for _, k := range All() {
		got, err := Parse(string(k))
		if err != nil {
			t.Fatalf("Parse(%q): %v", k, err)
		}
		if got != k {
			t.Errorf("Parse(%q) = %q", k, got)
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	_, err := Parse("professor")
	if !errors.Is(err, domain.ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}

func TestDefaultCollection(t *testing.T) {
	tests := map[Kind]string{
		Course:  "courses",
		Degree:  "degrees",
		Section: "sections",
		Exam:    "exams",
	}
	for k, want := range tests {
		if got := k.DefaultCollection(); got != want {
			t.Errorf("%s.DefaultCollection() = %q, want %q", k, got, want)
		}
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	kinds := All()
	kinds[0] = "mutated"
	if All()[0] != Course {
		t.Error("All must not expose internal slice")
	}
}
