package person

import (
	"errors"
	"fmt"
)

// Error variables for record operations.
var (
	ErrValidation       = errors.New("invalid input")
	ErrRequiredField    = errors.New("all fields except middle name are required")
	ErrLettersOnly      = errors.New("first, middle, and last names should only contain letters")
	ErrBirthdayFormat   = errors.New("invalid birthday format, use YYYY-MM-DD")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrUnknownMode      = errors.New("unknown search mode (must be id, name, or birthday)")
	errWrongFieldCount  = errors.New("wrong field count")
	errNonNumericID     = errors.New("id is not numeric")
	errNegativeIDNumber = errors.New("id is negative")
	errIDOutOfRange     = errors.New("id is too large")
)

// ValidationError reports which input field was rejected.
// It matches both [ErrValidation] and the specific cause via errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// MalformedRecordError reports a stored line that cannot be read as a record.
// Line is 1-based; it is 0 when the record did not come from a file.
type MalformedRecordError struct {
	Line   int
	Text   string
	Reason error
}

func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%v at line %d (%v): %q", ErrMalformedRecord, e.Line, e.Reason, e.Text)
	}

	return fmt.Sprintf("%v (%v): %q", ErrMalformedRecord, e.Reason, e.Text)
}

func (e *MalformedRecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Reason}
}
