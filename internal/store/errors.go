package store

import (
	"errors"
	"fmt"
)

// ErrIO reports that the store file could not be read or written.
var ErrIO = errors.New("store unavailable")

// ErrDuplicate reports that an identical line already exists in the store.
var ErrDuplicate = errors.New("record already exists")

// ErrIndexDisabled is returned by index operations when no index is configured.
var ErrIndexDisabled = errors.New("index is not enabled")

// ErrIndex reports failures reading or rebuilding the derived index.
var ErrIndex = errors.New("index")

var errPathEmpty = errors.New("store path is empty")

// DuplicateError carries the line that collided with an existing one.
type DuplicateError struct {
	Line string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDuplicate, e.Line)
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}
