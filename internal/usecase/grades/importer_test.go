package grades

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nebula-labs/catalog/internal/db"
	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
	"github.com/nebula-labs/catalog/internal/domain/grade"
)

// --- Fakes ---

type fakeCourses struct {
	docs []document.Document
	err  error
}

func (f *fakeCourses) Find(_ context.Context, flt filter.Filter) ([]document.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []document.Document
	for _, d := range f.docs {
		if flt.Matches(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

type setCall struct {
	id    string
	field string
	value any
}

type fakeSections struct {
	docs   map[string]document.Document
	setErr error
	sets   []setCall
}

func (f *fakeSections) FindByID(_ context.Context, id string) (document.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return d, nil
}

func (f *fakeSections) SetField(_ context.Context, id, field string, value any) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets = append(f.sets, setCall{id: id, field: field, value: value})
	return nil
}

func catalog() (*fakeCourses, *fakeSections) {
	courses := &fakeCourses{docs: []document.Document{
		{"_id": "c1", "subject_prefix": "CS", "course_number": "1337", "sections": []any{"s1", "s2", "s3"}},
	}}
	sections := &fakeSections{docs: map[string]document.Document{
		"s1": {"_id": "s1", "section_number": "001", "academic_session": map[string]any{"name": "19S"}},
		"s2": {"_id": "s2", "section_number": "001", "academic_session": map[string]any{"name": "19F"}},
		"s3": {"_id": "s3", "section_number": "002", "academic_session": map[string]any{"name": "19F"}},
	}}
	return courses, sections
}

func dist() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 2}
}

func TestImport_UpdatesMatchingSection(t *testing.T) {
	courses, sections := catalog()
	im := NewImporter(courses, sections, zap.NewNop())

	rep, err := im.Import(context.Background(), []grade.Class{
		{Subject: "CS", CatalogNumber: "1337", Section: "001", Distribution: dist()},
	}, "19F")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Updated != 1 || len(rep.Failures) != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if len(sections.sets) != 1 {
		t.Fatalf("expected 1 write, got %d", len(sections.sets))
	}
	got := sections.sets[0]
	if got.id != "s2" {
		t.Errorf("updated section %q, want s2", got.id)
	}
	if got.field != FieldGradeDistribution {
		t.Errorf("field = %q", got.field)
	}
	if vals, ok := got.value.([]int); !ok || len(vals) != grade.Buckets+1 {
		t.Errorf("value = %v", got.value)
	}
}

func TestImport_CourseMissing(t *testing.T) {
	courses, sections := catalog()
	core, logs := observer.New(zapcore.WarnLevel)
	im := NewImporter(courses, sections, zap.New(core))

	rep, err := im.Import(context.Background(), []grade.Class{
		{Subject: "MATH", CatalogNumber: "2413", Section: "001", Distribution: dist()},
	}, "19F")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Updated != 0 || len(rep.Failures) != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if !errors.Is(rep.Failures[0].Err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", rep.Failures[0].Err)
	}
	if rep.Failures[0].Class != "MATH 2413.001" {
		t.Errorf("class = %q", rep.Failures[0].Class)
	}
	if logs.FilterMessage("Grade import failed").Len() != 1 {
		t.Error("expected one failure log entry")
	}
}

func TestImport_NoSectionInSession(t *testing.T) {
	courses, sections := catalog()
	im := NewImporter(courses, sections, zap.NewNop())

	rep, _ := im.Import(context.Background(), []grade.Class{
		{Subject: "CS", CatalogNumber: "1337", Section: "002", Distribution: dist()},
	}, "19S")
	if len(rep.Failures) != 1 || !errors.Is(rep.Failures[0].Err, ErrSectionNotFound) {
		t.Fatalf("expected section not found, got %+v", rep)
	}
	if len(sections.sets) != 0 {
		t.Error("no section should be written")
	}
}

func TestImport_SkipsDanglingSectionRefs(t *testing.T) {
	courses, sections := catalog()
	courses.docs[0]["sections"] = []any{"gone", "s2"}
	im := NewImporter(courses, sections, zap.NewNop())

	rep, _ := im.Import(context.Background(), []grade.Class{
		{Subject: "CS", CatalogNumber: "1337", Section: "001", Distribution: dist()},
	}, "19F")
	if rep.Updated != 1 {
		t.Fatalf("expected update past dangling ref, got %+v", rep)
	}
}

func TestImport_WriteFailureContinues(t *testing.T) {
	courses, sections := catalog()
	sections.setErr = errors.New("write conflict")
	im := NewImporter(courses, sections, zap.NewNop())

	rep, err := im.Import(context.Background(), []grade.Class{
		{Subject: "CS", CatalogNumber: "1337", Section: "001", Distribution: dist()},
		{Subject: "CS", CatalogNumber: "1337", Section: "002", Distribution: dist()},
	}, "19F")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Failures) != 2 {
		t.Fatalf("expected both classes to fail, got %+v", rep)
	}
	if !errors.Is(rep.Failures[0].Err, sections.setErr) {
		t.Errorf("expected wrapped write error, got %v", rep.Failures[0].Err)
	}
}

func TestImport_Cancelled(t *testing.T) {
	courses, sections := catalog()
	im := NewImporter(courses, sections, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := im.Import(ctx, []grade.Class{{Subject: "CS", CatalogNumber: "1337", Section: "001"}}, "19F")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSectionRefs_ObjectIDs(t *testing.T) {
	course := document.Document{"sections": []any{hexID("5f1c0a3b2d4e5f6a7b8c9d0e"), nil, "plain"}}
	refs := sectionRefs(course)
	if len(refs) != 2 || refs[0] != "5f1c0a3b2d4e5f6a7b8c9d0e" || refs[1] != "plain" {
		t.Errorf("refs = %v", refs)
	}
}

type hexID string

func (h hexID) Hex() string { return string(h) }
