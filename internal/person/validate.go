package person

import (
	"strings"
	"time"
	"unicode"
)

// DateLayout is the stored birthday format.
const DateLayout = "2006-01-02"

// Validate checks the user-entered name and birthday fields.
// The first failing check wins: required fields, then letters only, then
// birthday format. Gender is not validated.
func Validate(first, middle, last, birthday string) error {
	required := []struct {
		name  string
		value string
	}{
		{"first", first},
		{"last", last},
		{"birthday", birthday},
	}

	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &ValidationError{Field: field.name, Err: ErrRequiredField}
		}
	}

	names := []struct {
		name  string
		value string
	}{
		{"first", first},
		{"last", last},
		{"middle", middle},
	}

	for _, field := range names {
		if field.name == "middle" && field.value == "" {
			continue
		}

		if !isLettersAndSpaces(field.value) {
			return &ValidationError{Field: field.name, Err: ErrLettersOnly}
		}
	}

	if _, err := time.Parse(DateLayout, birthday); err != nil {
		return &ValidationError{Field: "birthday", Err: ErrBirthdayFormat}
	}

	return nil
}

// isLettersAndSpaces reports whether s holds at least one letter and
// nothing but letters and spaces.
func isLettersAndSpaces(s string) bool {
	hasLetter := false

	for _, r := range s {
		switch {
		case r == ' ':
		case unicode.IsLetter(r):
			hasLetter = true
		default:
			return false
		}
	}

	return hasLetter
}
