package person

import (
	"errors"
	"fmt"
	"strconv"
)

// FirstID is assigned when no records exist.
const FirstID = "00001"

// idWidth is the zero-padded width of generated IDs.
const idWidth = 5

// NextID returns max(existing numeric ids) + 1, zero-padded to five digits.
// A record whose ID is not a base-10 integer fails the whole allocation.
func NextID(records []Record) (string, error) {
	if len(records) == 0 {
		return FirstID, nil
	}

	maxID := -1

	for _, rec := range records {
		n, err := ParseID(rec.ID)
		if err != nil {
			return "", &MalformedRecordError{Text: rec.Line(), Reason: err}
		}

		maxID = max(maxID, n)
	}

	return FormatID(maxID + 1), nil
}

// ParseID parses a stored ID as a non-negative base-10 integer.
func ParseID(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q", errIDOutOfRange, id)
	}

	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNonNumericID, id)
	}

	if n < 0 {
		return 0, fmt.Errorf("%w: %q", errNegativeIDNumber, id)
	}

	return n, nil
}

// FormatID zero-pads n to five digits. Larger numbers keep growing in width.
func FormatID(n int) string {
	return fmt.Sprintf("%0*d", idWidth, n)
}
