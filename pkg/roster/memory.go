package roster

import (
	"context"
	"sort"
	"sync"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
)

// MemoryStore is a Store held in process memory
type MemoryStore struct {
	mu     sync.Mutex
	people map[string]models.Person
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store, optionally pre-populated. Seed persons keep
// their Load as given.
func NewMemoryStore(people ...models.Person) *MemoryStore {
	s := &MemoryStore{people: make(map[string]models.Person, len(people))}
	for _, p := range people {
		p = p.Clone()
		p.Normalize()
		s.people[p.Name] = p
	}
	return s
}

func (s *MemoryStore) Snapshot(ctx context.Context) ([]models.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Person, 0, len(s.people))
	for _, p := range s.people {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) (models.Person, error) {
	if err := ctx.Err(); err != nil {
		return models.Person{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.people[name]
	if !ok {
		return models.Person{}, ErrPersonNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Upsert(ctx context.Context, p models.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := prepare(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.people[p.Name]; ok {
		p.Load = existing.Load
	}
	s.people[p.Name] = p
	return nil
}

func (s *MemoryStore) IncrementLoad(ctx context.Context, name string, delta int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.people[name]
	if !ok {
		return ErrPersonNotFound
	}
	p.Load += delta
	s.people[name] = p
	return nil
}

func (s *MemoryStore) ResetLoad(ctx context.Context, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if names == nil {
		for name, p := range s.people {
			p.Load = 0
			s.people[name] = p
		}
		return nil
	}
	for _, name := range names {
		if p, ok := s.people[name]; ok {
			p.Load = 0
			s.people[name] = p
		}
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, names []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for _, name := range names {
		if _, ok := s.people[name]; ok {
			delete(s.people, name)
			deleted++
		}
	}
	return deleted, nil
}
