// Package registry exposes the operations a front end performs on the
// record store: create, list, find and check.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calvinalkan/roster/internal/person"
	"github.com/calvinalkan/roster/internal/store"
)

// Store is the persistence the registry needs. [*store.Store] implements it.
type Store interface {
	ReadAll() ([]person.Record, error)
	ReadLines() ([]store.Line, error)
	Create(rec person.Record) (person.Record, error)
	Find(ctx context.Context, mode person.Mode, keyword string) ([]person.Record, error)
}

var _ Store = (*store.Store)(nil)

// Registry validates input and delegates persistence to a [Store].
type Registry struct {
	store Store
}

// New returns a registry over s.
func New(s Store) *Registry {
	return &Registry{store: s}
}

// Input holds the user-entered fields of a new record.
type Input struct {
	First    string
	Middle   string
	Last     string
	Birthday string
	Gender   string
}

// CreateRecord trims the name and birthday fields, validates them and stores
// the record under the next ID. Gender is stored exactly as given.
//
// Errors match [person.ErrValidation], [store.ErrDuplicate],
// [person.ErrMalformedRecord] or [store.ErrIO].
func (r *Registry) CreateRecord(in Input) (person.Record, error) {
	rec := person.Record{
		First:    strings.TrimSpace(in.First),
		Middle:   strings.TrimSpace(in.Middle),
		Last:     strings.TrimSpace(in.Last),
		Birthday: strings.TrimSpace(in.Birthday),
		Gender:   in.Gender,
	}

	err := person.Validate(rec.First, rec.Middle, rec.Last, rec.Birthday)
	if err != nil {
		return person.Record{}, err
	}

	created, err := r.store.Create(rec)
	if err != nil {
		return person.Record{}, fmt.Errorf("create record: %w", err)
	}

	return created, nil
}

// ListRecords returns every record in file order.
func (r *Registry) ListRecords() ([]person.Record, error) {
	records, err := r.store.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return records, nil
}

// FindRecords returns the records matching keyword in file order.
func (r *Registry) FindRecords(ctx context.Context, mode person.Mode, keyword string) ([]person.Record, error) {
	records, err := r.store.Find(ctx, mode, keyword)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}

	return records, nil
}

// GetRecord returns the record with exactly this ID.
func (r *Registry) GetRecord(ctx context.Context, id string) (person.Record, error) {
	records, err := r.FindRecords(ctx, person.ModeID, id)
	if err != nil {
		return person.Record{}, err
	}

	if len(records) == 0 {
		return person.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, strings.TrimSpace(id))
	}

	return records[0], nil
}

// ErrRecordNotFound is returned by [Registry.GetRecord] when no record has the ID.
var ErrRecordNotFound = errors.New("record not found")
