// Package grade parses registrar grade-distribution exports.
package grade

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Buckets is the number of letter-grade columns following the section column.
const Buckets = 13

// ErrNoSubjectColumn signals a header without a "Subject" column.
var ErrNoSubjectColumn = errors.New("could not find Subject column")

var withdrawHeaders = map[string]struct{}{
	"W":       {},
	"Total W": {},
	"W Total": {},
}

// Class is one section row of a grade export.
type Class struct {
	Subject       string
	CatalogNumber string
	Section       string
	// Distribution holds the letter-grade counts followed by the withdrawal count.
	Distribution []int
}

// Name renders the class as "CS 1337.001".
func (c Class) Name() string {
	return c.Subject + " " + c.CatalogNumber + "." + c.Section
}

// Sheet is the parsed content of one export.
type Sheet struct {
	Classes  []Class
	Warnings []string
}

// Parse reads a grade export. The catalog number and section columns follow the
// subject column; grade buckets start three columns after it. A missing
// withdrawal column is a warning and records zero withdrawals.
func Parse(r io.Reader) (Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return Sheet{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return Sheet{}, nil
	}

	subjectCol, wCol := -1, -1
	for j, h := range records[0] {
		h = strings.TrimSpace(h)
		if h == "Subject" && subjectCol == -1 {
			subjectCol = j
		}
		if _, ok := withdrawHeaders[h]; ok && wCol == -1 {
			wCol = j
		}
	}
	if subjectCol == -1 {
		return Sheet{}, ErrNoSubjectColumn
	}

	var sheet Sheet
	if wCol == -1 {
		sheet.Warnings = append(sheet.Warnings, "could not find W column")
	}

	lastGrade := subjectCol + 3 + Buckets - 1
	for i, row := range records[1:] {
		if len(row) <= lastGrade {
			sheet.Warnings = append(sheet.Warnings, fmt.Sprintf("row %d: expected at least %d columns, got %d", i+2, lastGrade+1, len(row)))
			continue
		}
		dist := make([]int, 0, Buckets+1)
		for j := 0; j < Buckets; j++ {
			dist = append(dist, atoi(row[subjectCol+3+j]))
		}
		withdrawn := 0
		if wCol != -1 && wCol < len(row) {
			withdrawn = atoi(row[wCol])
		}
		dist = append(dist, withdrawn)

		sheet.Classes = append(sheet.Classes, Class{
			Subject:       strings.TrimSpace(row[subjectCol]),
			CatalogNumber: strings.TrimSpace(row[subjectCol+1]),
			Section:       strings.TrimSpace(row[subjectCol+2]),
			Distribution:  dist,
		})
	}
	return sheet, nil
}

// atoi reads a count cell; blanks and junk count as zero.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
