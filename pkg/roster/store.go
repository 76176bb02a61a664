// Package roster stores the persons the scheduler draws from.
//
// Two implementations share the Store contract: GormStore persists to SQLite
// or PostgreSQL, MemoryStore keeps everything in process for tests and
// what-if runs. Both guarantee that a single person's load increment is
// atomic. Runs that write load back concurrently against one store are not
// guaranteed to be consistent with each other; callers serialize them.
package roster

import (
	"context"
	"errors"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
)

var (
	// ErrPersonNotFound is returned when a named person does not exist
	ErrPersonNotFound = errors.New("person not found")

	// ErrInvalidPerson is returned when an upsert carries invalid attributes
	ErrInvalidPerson = errors.New("invalid person")
)

// Store is the roster store contract
type Store interface {
	// Snapshot returns every person ordered by name
	Snapshot(ctx context.Context) ([]models.Person, error)
	// Get returns one person or ErrPersonNotFound
	Get(ctx context.Context, name string) (models.Person, error)
	// Upsert creates the person with p.Load as initial load, or overwrites the
	// ceiling, blocked dates and zones of an existing one. Load is never
	// changed for an existing person.
	Upsert(ctx context.Context, p models.Person) error
	// IncrementLoad adds delta to the person's load or returns ErrPersonNotFound
	IncrementLoad(ctx context.Context, name string, delta int) error
	// ResetLoad zeroes the load of the named persons, or of everyone when
	// names is nil. Unknown names are ignored.
	ResetLoad(ctx context.Context, names []string) error
	// Delete removes the named persons and returns how many existed
	Delete(ctx context.Context, names []string) (int, error)
}

func prepare(p models.Person) (models.Person, error) {
	p = p.Clone()
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Person{}, errors.Join(ErrInvalidPerson, err)
	}
	return p, nil
}
