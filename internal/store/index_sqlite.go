package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/calvinalkan/roster/internal/person"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// schemaVersion is bumped whenever the index layout changes; a mismatch
// forces a rebuild.
const schemaVersion = 1

// sourceState identifies one version of the store file.
type sourceState struct {
	exists  bool
	size    int64
	mtimeNS int64
}

// index is a disposable SQLite copy of the parsed store file.
type index struct {
	db *sql.DB
}

func openIndex(ctx context.Context, path string) (*index, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: open sqlite: path is empty", ErrIndex)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", ErrIndex, err)
	}

	// A single connection keeps pragmas and the CLI's one-shot usage simple.
	db.SetMaxOpenConns(1)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: ping sqlite: %w", ErrIndex, err)
	}

	err = applyPragmas(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return &index{db: db}, nil
}

func (ix *index) close() error {
	return ix.db.Close()
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	statements := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 2000",
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("%w: apply pragma %q: %w", ErrIndex, stmt, err)
		}
	}

	return nil
}

func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int

	err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("%w: read user_version: %w", ErrIndex, err)
	}

	return version, nil
}

// isFresh reports whether the index was built from exactly this source state.
func (ix *index) isFresh(ctx context.Context, state sourceState) (bool, error) {
	version, err := userVersion(ctx, ix.db)
	if err != nil {
		return false, err
	}

	if version != schemaVersion {
		return false, nil
	}

	var (
		exists  bool
		size    int64
		mtimeNS int64
	)

	err = ix.db.QueryRowContext(ctx,
		"SELECT source_exists, source_size, source_mtime_ns FROM meta WHERE id = 1",
	).Scan(&exists, &size, &mtimeNS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("%w: read meta: %w", ErrIndex, err)
	}

	return exists == state.exists && size == state.size && mtimeNS == state.mtimeNS, nil
}

// rebuild replaces the whole index with records in a single transaction.
func (ix *index) rebuild(ctx context.Context, records []person.Record, state sourceState) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin rebuild txn: %w", ErrIndex, err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	err = createSchema(ctx, tx)
	if err != nil {
		return err
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			pos,
			id,
			first,
			middle,
			last,
			birthday,
			gender,
			name_lower
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %w", ErrIndex, err)
	}

	defer func() { _ = insert.Close() }()

	for pos, rec := range records {
		_, err = insert.ExecContext(ctx,
			pos,
			rec.ID,
			rec.First,
			rec.Middle,
			rec.Last,
			rec.Birthday,
			rec.Gender,
			strings.ToLower(rec.FullName()),
		)
		if err != nil {
			return fmt.Errorf("%w: insert record %s: %w", ErrIndex, rec.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO meta (id, source_exists, source_size, source_mtime_ns) VALUES (1, ?, ?, ?)",
		state.exists, state.size, state.mtimeNS,
	)
	if err != nil {
		return fmt.Errorf("%w: write meta: %w", ErrIndex, err)
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	if err != nil {
		return fmt.Errorf("%w: set user_version: %w", ErrIndex, err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("%w: commit rebuild txn: %w", ErrIndex, err)
	}

	committed = true

	return nil
}

func createSchema(ctx context.Context, tx *sql.Tx) error {
	statements := []string{
		"DROP TABLE IF EXISTS records",
		"DROP TABLE IF EXISTS meta",
		`CREATE TABLE records (
			pos INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			first TEXT NOT NULL,
			middle TEXT NOT NULL,
			last TEXT NOT NULL,
			birthday TEXT NOT NULL,
			gender TEXT NOT NULL,
			name_lower TEXT NOT NULL
		)`,
		"CREATE INDEX records_id ON records (id)",
		"CREATE INDEX records_birthday ON records (birthday)",
		`CREATE TABLE meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			source_exists INTEGER NOT NULL,
			source_size INTEGER NOT NULL,
			source_mtime_ns INTEGER NOT NULL
		)`,
	}

	for _, stmt := range statements {
		_, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("%w: create schema: %w", ErrIndex, err)
		}
	}

	return nil
}

// find answers a search from the index. keyword must already be normalized;
// name_lower is lower-cased in Go so matching agrees with [person.Search].
func (ix *index) find(ctx context.Context, mode person.Mode, keyword string) ([]person.Record, error) {
	var where string

	switch mode {
	case person.ModeID:
		where = "id = ?"
	case person.ModeName:
		where = "instr(name_lower, ?) > 0"
		if keyword == "" {
			// empty substring matches every name
			where = "? = ''"
		}
	case person.ModeBirthday:
		where = "birthday = ?"
	default:
		return nil, fmt.Errorf("%w: %v", person.ErrUnknownMode, mode)
	}

	rows, err := ix.db.QueryContext(ctx,
		"SELECT id, first, middle, last, birthday, gender FROM records WHERE "+where+" ORDER BY pos",
		keyword,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrIndex, err)
	}

	defer func() { _ = rows.Close() }()

	var records []person.Record

	for rows.Next() {
		var rec person.Record

		err = rows.Scan(&rec.ID, &rec.First, &rec.Middle, &rec.Last, &rec.Birthday, &rec.Gender)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrIndex, err)
		}

		records = append(records, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%w: rows: %w", ErrIndex, err)
	}

	return records, nil
}

func (ix *index) count(ctx context.Context) (int, error) {
	var n int

	err := ix.db.QueryRowContext(ctx, "SELECT count(*) FROM records").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: count: %w", ErrIndex, err)
	}

	return n, nil
}
