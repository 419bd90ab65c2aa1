package registry

import (
	"errors"
	"fmt"

	"github.com/calvinalkan/roster/internal/person"
)

// Problems reported by [Registry.CheckRecords].
var (
	ErrDuplicateID   = errors.New("duplicate id")
	ErrDuplicateLine = errors.New("duplicate line")
	ErrInvalidFields = errors.New("invalid fields")
)

// Problem is one issue found in the store file.
type Problem struct {
	Line int
	Text string
	Err  error
}

func (p Problem) String() string {
	return fmt.Sprintf("line %d: %v", p.Line, p.Err)
}

// Report summarizes a store check.
type Report struct {
	Records  int // lines that parsed as records
	Problems []Problem
}

// OK reports whether the check found no problems.
func (r Report) OK() bool {
	return len(r.Problems) == 0
}

// CheckRecords inspects every line of the store and reports all problems,
// unlike ListRecords which stops at the first malformed line.
// The returned error is only non-nil when the store cannot be read.
func (r *Registry) CheckRecords() (Report, error) {
	lines, err := r.store.ReadLines()
	if err != nil {
		return Report{}, fmt.Errorf("check records: %w", err)
	}

	var report Report

	seenIDs := make(map[int]int)
	seenLines := make(map[string]int)

	for _, line := range lines {
		problem := func(err error) {
			report.Problems = append(report.Problems, Problem{Line: line.No, Text: line.Text, Err: err})
		}

		if first, ok := seenLines[line.Text]; ok {
			problem(fmt.Errorf("%w: same as line %d", ErrDuplicateLine, first))

			continue
		}

		seenLines[line.Text] = line.No

		rec, err := person.ParseLine(line.Text, line.No)
		if err != nil {
			problem(err)

			continue
		}

		report.Records++

		n, err := person.ParseID(rec.ID)
		if err != nil {
			problem(&person.MalformedRecordError{Line: line.No, Text: line.Text, Reason: err})
		} else if first, ok := seenIDs[n]; ok {
			problem(fmt.Errorf("%w %s: first used on line %d", ErrDuplicateID, rec.ID, first))
		} else {
			seenIDs[n] = line.No
		}

		err = person.Validate(rec.First, rec.Middle, rec.Last, rec.Birthday)
		if err != nil {
			problem(fmt.Errorf("%w: %w", ErrInvalidFields, err))
		}
	}

	return report, nil
}
