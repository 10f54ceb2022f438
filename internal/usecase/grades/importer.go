// Package grades attaches registrar grade distributions to catalog sections.
package grades

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
	"github.com/nebula-labs/catalog/internal/domain/grade"
)

// Document fields the importer reads and writes.
const (
	FieldCourseNumber      = "course_number"
	FieldSubjectPrefix     = "subject_prefix"
	FieldSections          = "sections"
	FieldSectionNumber     = "section_number"
	FieldSessionName       = "academic_session.name"
	FieldGradeDistribution = "grade_distribution"
)

var (
	// ErrCourseNotFound signals a class whose course is absent from the catalog.
	ErrCourseNotFound = errors.New("could not find course")
	// ErrSectionNotFound signals a class without a matching section in the session.
	ErrSectionNotFound = errors.New("could not find section")
)

// Failure records a class that could not be imported.
type Failure struct {
	Class string
	Err   error
}

// Report summarizes one import run.
type Report struct {
	Updated  int
	Failures []Failure
}

// Importer writes grade distributions for a single academic session.
type Importer struct {
	courses  CourseFinder
	sections SectionStore
	logger   *zap.Logger
}

// NewImporter creates an importer over the course and section collections.
func NewImporter(courses CourseFinder, sections SectionStore, logger *zap.Logger) *Importer {
	return &Importer{courses: courses, sections: sections, logger: logger}
}

// Import updates the section of every class held in session. Per-class failures
// are logged and reported; only context cancellation stops the run.
func (im *Importer) Import(ctx context.Context, classes []grade.Class, session string) (Report, error) {
	var rep Report
	for _, c := range classes {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		if err := im.importClass(ctx, c, session); err != nil {
			im.logger.Warn("Grade import failed",
				zap.String("class", c.Name()),
				zap.String("session", session),
				zap.Error(err),
			)
			rep.Failures = append(rep.Failures, Failure{Class: c.Name(), Err: err})
			continue
		}

		im.logger.Info("Added grade distribution", zap.String("class", c.Name()))
		rep.Updated++
	}
	return rep, nil
}

func (im *Importer) importClass(ctx context.Context, c grade.Class, session string) error {
	courses, err := im.courses.Find(ctx, filter.New(
		FieldCourseNumber, c.CatalogNumber,
		FieldSubjectPrefix, c.Subject,
	))
	if err != nil {
		return fmt.Errorf("find course %s %s: %w", c.Subject, c.CatalogNumber, err)
	}
	if len(courses) == 0 {
		return fmt.Errorf("%w %s %s", ErrCourseNotFound, c.Subject, c.CatalogNumber)
	}

	for _, ref := range sectionRefs(courses[0]) {
		sec, err := im.sections.FindByID(ctx, ref)
		if err != nil {
			im.logger.Debug("Section lookup failed", zap.String("section_id", ref), zap.Error(err))
			continue
		}
		if !sectionMatches(sec, c.Section, session) {
			continue
		}

		if err := im.sections.SetField(ctx, sec.ID(), FieldGradeDistribution, c.Distribution); err != nil {
			return fmt.Errorf("could not modify %s, section id %s: %w", c.Name(), sec.ID(), err)
		}
		return nil
	}

	return fmt.Errorf("%w %s in %s", ErrSectionNotFound, c.Name(), session)
}

func sectionRefs(course document.Document) []string {
	raw, ok := course.Get(FieldSections)
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	refs := make([]string, 0, len(items))
	for _, it := range items {
		if id := document.IDString(it); id != "" {
			refs = append(refs, id)
		}
	}
	return refs
}

func sectionMatches(sec document.Document, number, session string) bool {
	n, _ := sec.Get(FieldSectionNumber)
	s, _ := sec.Get(FieldSessionName)
	return fmt.Sprint(n) == number && fmt.Sprint(s) == session
}
