package person

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects which field a search keyword is matched against.
type Mode int

// Search modes.
const (
	ModeID Mode = iota
	ModeName
	ModeBirthday
)

func (m Mode) String() string {
	switch m {
	case ModeID:
		return "id"
	case ModeName:
		return "name"
	case ModeBirthday:
		return "birthday"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "id", "name" or "birthday", ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "id":
		return ModeID, nil
	case "name":
		return ModeName, nil
	case "birthday":
		return ModeBirthday, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// NormalizeKeyword trims and lower-cases a search keyword.
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// Matches reports whether rec matches keyword in the given mode.
// keyword must already be normalized with [NormalizeKeyword].
//
// ID and birthday are exact matches against the stored strings; name is a
// case-insensitive substring match on [Record.FullName].
func (m Mode) Matches(rec Record, keyword string) bool {
	switch m {
	case ModeID:
		return rec.ID == keyword
	case ModeName:
		return strings.Contains(strings.ToLower(rec.FullName()), keyword)
	case ModeBirthday:
		return rec.Birthday == keyword
	default:
		return false
	}
}

// Search returns the records matching keyword, in input order.
func Search(records []Record, mode Mode, keyword string) []Record {
	keyword = NormalizeKeyword(keyword)

	var matches []Record

	for _, rec := range records {
		if mode.Matches(rec, keyword) {
			matches = append(matches, rec)
		}
	}

	return matches
}

// DisplayLayout is the long-form birthday layout, e.g. "March 05, 2024".
const DisplayLayout = "January 02, 2006"

// FormatBirthday renders a stored YYYY-MM-DD date in long form.
// Anything that does not parse is returned unchanged.
func FormatBirthday(raw string) string {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return raw
	}

	return t.Format(DisplayLayout)
}
