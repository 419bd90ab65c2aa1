// Package person holds the record model and the pure functions over it:
// validation, ID allocation, birthday formatting and search.
//
// Nothing in this package touches the filesystem. The store package owns
// reading and appending lines.
package person

import (
	"strings"
)

// FieldCount is the number of comma-separated fields in a stored line.
const FieldCount = 6

// fieldSeparator separates fields in a stored line. Fields are not escaped,
// so a comma inside a name corrupts the line.
const fieldSeparator = ","

// Genders lists the choices offered by the front ends. Storage accepts any string.
var Genders = []string{"Male", "Female", "Other"}

// DefaultGender is preselected when no gender is given.
const DefaultGender = "Male"

// Record is one stored person entry.
type Record struct {
	ID       string
	First    string
	Middle   string
	Last     string
	Birthday string
	Gender   string
}

// Line renders the record in its stored form, without the trailing newline.
func (r Record) Line() string {
	return strings.Join([]string{r.ID, r.First, r.Middle, r.Last, r.Birthday, r.Gender}, fieldSeparator)
}

// FullName joins the non-empty name parts with single spaces.
func (r Record) FullName() string {
	parts := make([]string, 0, 3)

	for _, part := range []string{r.First, r.Middle, r.Last} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, " ")
}

// ParseLine parses one stored line. Only the line terminator is dropped, so
// fields keep their exact bytes; whitespace around the ID is ignored.
// lineNo is only used for error reporting.
func ParseLine(line string, lineNo int) (Record, error) {
	text := strings.TrimRight(line, "\r\n")

	fields := strings.Split(text, fieldSeparator)
	if len(fields) != FieldCount {
		return Record{}, &MalformedRecordError{Line: lineNo, Text: text, Reason: errWrongFieldCount}
	}

	return Record{
		ID:       strings.TrimSpace(fields[0]),
		First:    fields[1],
		Middle:   fields[2],
		Last:     fields[3],
		Birthday: fields[4],
		Gender:   fields[5],
	}, nil
}
