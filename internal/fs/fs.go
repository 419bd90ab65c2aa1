// Package fs provides the filesystem abstraction the record store runs on.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the store needs
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os] package
//   - [Injected]: testing wrapper that fails selected operations
//   - [Locker]: flock-based advisory locks
//
// Example usage:
//
//	fsys := fs.NewReal()
//	data, err := fsys.ReadFile("records.txt")
//	if err != nil && !errors.Is(err, os.ErrNotExist) {
//	    return err
//	}
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This interface is satisfied by [os.File]. The locker needs [File.Fd] for
// flock and [File.Stat] for the inode check.
type File interface {
	io.ReadWriteCloser

	// Fd returns the file descriptor. See [os.File.Fd].
	Fd() uintptr

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)
}

// FS defines the filesystem operations used by the store.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// OpenFile opens a file with specified flags and permissions. See [os.OpenFile].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename so readers never see a partial file.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	// Returns [os.ErrNotExist] if file doesn't exist.
	Stat(path string) (os.FileInfo, error)
}

// Compile-time interface checks.
var _ File = (*os.File)(nil)
