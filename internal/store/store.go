// Package store persists records in a line-oriented text file.
//
// One line holds one record as six comma-separated fields. The file is the
// only source of truth: every operation re-reads it, and records are never
// updated or removed. An optional SQLite index (see index_sqlite.go) caches
// the parsed records for lookups and is rebuilt whenever the file changes.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/calvinalkan/roster/internal/fs"
	"github.com/calvinalkan/roster/internal/person"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600

	// DefaultLockTimeout bounds how long Create and Append wait for the store lock.
	DefaultLockTimeout = 2 * time.Second
)

// Store reads and appends records in a single text file.
type Store struct {
	path        string
	fs          fs.FS
	locker      *fs.Locker
	lockTimeout time.Duration

	indexPath string
	index     *index
}

// Option configures a [Store].
type Option func(*Store)

// WithFS replaces the real filesystem, typically with [fs.Injected] in tests.
func WithFS(fsys fs.FS) Option {
	return func(s *Store) {
		s.fs = fsys
	}
}

// WithLockTimeout sets how long writers wait for the store lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

// WithIndex enables the derived SQLite index stored at path.
// An empty path places it next to the store file as <file>.index.sqlite.
func WithIndex(path string) Option {
	return func(s *Store) {
		if path == "" {
			path = s.path + ".index.sqlite"
		}

		s.indexPath = path
	}
}

// Open returns a store backed by the file at path. The file does not need to
// exist yet; it is created on the first append. If an index is configured it
// is opened here, but only rebuilt when a lookup finds it stale.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("open store: %w", errPathEmpty)
	}

	s := &Store{
		path:        filepath.Clean(path),
		fs:          fs.NewReal(),
		lockTimeout: DefaultLockTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.locker = fs.NewLocker(s.fs)

	if s.indexPath != "" {
		err := s.fs.MkdirAll(filepath.Dir(s.indexPath), dirPerms)
		if err != nil {
			return nil, fmt.Errorf("open store: %w: %w", ErrIndex, err)
		}

		idx, err := openIndex(ctx, s.indexPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}

		s.index = idx
	}

	return s, nil
}

// Close releases the index, if any.
func (s *Store) Close() error {
	if s.index == nil {
		return nil
	}

	return s.index.close()
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Line is one non-blank line of the store file.
type Line struct {
	No   int // 1-based line number
	Text string
}

// ReadLines returns every non-blank line with its line number.
// A missing file reads as empty.
func (s *Store) ReadLines() ([]Line, error) {
	content, err := s.readContent()
	if err != nil {
		return nil, err
	}

	return splitLines(content), nil
}

// ReadAll parses every record in file order. A missing file reads as empty.
// Blank lines are skipped; any other malformed line fails the whole read.
func (s *Store) ReadAll() ([]person.Record, error) {
	lines, err := s.ReadLines()
	if err != nil {
		return nil, err
	}

	return parseLines(lines)
}

// NextID returns the ID the next created record would receive.
func (s *Store) NextID() (string, error) {
	lines, err := s.ReadLines()
	if err != nil {
		return "", err
	}

	records, err := parseLines(lines)
	if err != nil {
		return "", err
	}

	return nextID(lines, records)
}

// Append adds rec as a new line. It fails with [DuplicateError] if the exact
// line is already stored.
func (s *Store) Append(rec person.Record) error {
	return s.withLock(func() error {
		content, err := s.readContent()
		if err != nil {
			return err
		}

		return s.appendLocked(content, rec)
	})
}

// Create assigns the next ID to rec and appends it. ID allocation and the
// append happen under one lock, so two writers never receive the same ID.
// Any ID already set on rec is ignored.
func (s *Store) Create(rec person.Record) (person.Record, error) {
	err := s.withLock(func() error {
		content, err := s.readContent()
		if err != nil {
			return err
		}

		records, err := parseLines(splitLines(content))
		if err != nil {
			return err
		}

		rec.ID, err = nextID(splitLines(content), records)
		if err != nil {
			return err
		}

		return s.appendLocked(content, rec)
	})
	if err != nil {
		return person.Record{}, err
	}

	return rec, nil
}

// Find returns the records matching keyword in file order. With an index
// configured the lookup is answered from SQLite, otherwise by scanning.
func (s *Store) Find(ctx context.Context, mode person.Mode, keyword string) ([]person.Record, error) {
	if s.index == nil {
		records, err := s.ReadAll()
		if err != nil {
			return nil, err
		}

		return person.Search(records, mode, keyword), nil
	}

	err := s.refreshIndex(ctx, false)
	if err != nil {
		return nil, err
	}

	return s.index.find(ctx, mode, person.NormalizeKeyword(keyword))
}

// Reindex rebuilds the index from the store file unconditionally and
// returns the number of indexed records.
func (s *Store) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, ErrIndexDisabled
	}

	err := s.refreshIndex(ctx, true)
	if err != nil {
		return 0, err
	}

	return s.index.count(ctx)
}

// IndexPath returns the index location, or "" when the index is disabled.
func (s *Store) IndexPath() string {
	if s.index == nil {
		return ""
	}

	return s.indexPath
}

func (s *Store) refreshIndex(ctx context.Context, force bool) error {
	state, err := s.sourceState()
	if err != nil {
		return err
	}

	if !force {
		fresh, err := s.index.isFresh(ctx, state)
		if err != nil {
			return err
		}

		if fresh {
			return nil
		}
	}

	records, err := s.ReadAll()
	if err != nil {
		return err
	}

	return s.index.rebuild(ctx, records, state)
}

// sourceState captures what the index compares against to detect staleness.
func (s *Store) sourceState() (sourceState, error) {
	info, err := s.fs.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sourceState{}, nil
		}

		return sourceState{}, fmt.Errorf("%w: stat %s: %w", ErrIO, s.path, err)
	}

	return sourceState{exists: true, size: info.Size(), mtimeNS: info.ModTime().UnixNano()}, nil
}

func (s *Store) withLock(fn func() error) error {
	lock, err := s.locker.LockWithTimeout(fs.LockPath(s.path), s.lockTimeout)
	if err != nil {
		return fmt.Errorf("%w: acquiring lock: %w", ErrIO, err)
	}

	defer func() { _ = lock.Close() }()

	return fn()
}

// appendLocked writes content plus rec's line. Caller must hold the lock.
func (s *Store) appendLocked(content []byte, rec person.Record) error {
	line := rec.Line()

	for _, existing := range splitLines(content) {
		if existing.Text == line {
			return &DuplicateError{Line: line}
		}
	}

	var b strings.Builder

	b.Grow(len(content) + len(line) + 2)
	b.Write(content)

	if len(content) > 0 && content[len(content)-1] != '\n' {
		b.WriteByte('\n')
	}

	b.WriteString(line)
	b.WriteByte('\n')

	err := s.fs.MkdirAll(filepath.Dir(s.path), dirPerms)
	if err != nil {
		return fmt.Errorf("%w: create directory: %w", ErrIO, err)
	}

	err = s.fs.WriteFileAtomic(s.path, []byte(b.String()), filePerms)
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, s.path, err)
	}

	return nil
}

func (s *Store) readContent() ([]byte, error) {
	content, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, s.path, err)
	}

	return content, nil
}

// splitLines splits content into non-blank lines, dropping line terminators.
func splitLines(content []byte) []Line {
	var lines []Line

	for i, text := range strings.Split(string(content), "\n") {
		text = strings.TrimSuffix(text, "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		lines = append(lines, Line{No: i + 1, Text: text})
	}

	return lines
}

// nextID allocates from records parsed from lines, reporting a non-numeric
// ID with its line number.
func nextID(lines []Line, records []person.Record) (string, error) {
	for i, rec := range records {
		_, err := person.ParseID(rec.ID)
		if err != nil {
			return "", &person.MalformedRecordError{Line: lines[i].No, Text: lines[i].Text, Reason: err}
		}
	}

	return person.NextID(records)
}

func parseLines(lines []Line) ([]person.Record, error) {
	records := make([]person.Record, 0, len(lines))

	for _, line := range lines {
		rec, err := person.ParseLine(line.Text, line.No)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}
