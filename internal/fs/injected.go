package fs

import (
	"errors"
	"os"
	"sync"
)

// Op names an [FS] method for fault injection.
type Op string

// Operations that [Injected] can fail.
const (
	OpOpenFile        Op = "OpenFile"
	OpReadFile        Op = "ReadFile"
	OpWriteFileAtomic Op = "WriteFileAtomic"
	OpMkdirAll        Op = "MkdirAll"
	OpStat            Op = "Stat"
)

// InjectedError marks an error as intentionally injected by [Injected].
//
// It wraps the underlying error so errors.Is/As continue to work.
// All methods panic if the receiver or Err is nil.
type InjectedError struct {
	Op  Op
	Err error
}

// Error returns the underlying error's message. Panics if e or e.Err is nil.
func (e *InjectedError) Error() string {
	return string(e.Op) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error. Panics if e is nil.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected.
// Returns false if err is nil.
func IsInjected(err error) bool {
	if err == nil {
		return false
	}

	var injected *InjectedError

	return errors.As(err, &injected)
}

// Injected wraps an [FS] and fails selected operations on demand.
// Operations without an injected failure pass through to the wrapped FS.
//
// Injected is safe for concurrent use if the wrapped FS is.
type Injected struct {
	inner FS

	mu       sync.Mutex
	failures map[Op]error
	calls    map[Op]int
}

// NewInjected wraps inner. With no failures set it behaves exactly like inner.
func NewInjected(inner FS) *Injected {
	return &Injected{
		inner:    inner,
		failures: make(map[Op]error),
		calls:    make(map[Op]int),
	}
}

// Fail makes every subsequent call of op return err wrapped in [InjectedError].
// A nil err clears the failure.
func (f *Injected) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		delete(f.failures, op)

		return
	}

	f.failures[op] = err
}

// Calls returns how often op was invoked, including failed calls.
func (f *Injected) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

func (f *Injected) check(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	if err, ok := f.failures[op]; ok {
		return &InjectedError{Op: op, Err: err}
	}

	return nil
}

func (f *Injected) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if err := f.check(OpOpenFile); err != nil {
		return nil, err
	}

	return f.inner.OpenFile(path, flag, perm)
}

func (f *Injected) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile); err != nil {
		return nil, err
	}

	return f.inner.ReadFile(path)
}

func (f *Injected) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpWriteFileAtomic); err != nil {
		return err
	}

	return f.inner.WriteFileAtomic(path, data, perm)
}

func (f *Injected) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll); err != nil {
		return err
	}

	return f.inner.MkdirAll(path, perm)
}

func (f *Injected) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat); err != nil {
		return nil, err
	}

	return f.inner.Stat(path)
}

// Compile-time interface check.
var _ FS = (*Injected)(nil)
