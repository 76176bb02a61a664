package roster

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/database"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.InitDB("", filepath.Join(t.TempDir(), "roster.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewGormStore(db)
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"gorm":   newGormStore(t),
	}
}

func person(name string, load, maxLoad int, zones ...models.Zone) models.Person {
	return models.Person{Name: name, Load: load, MaxLoad: maxLoad, AllowedZones: zones}
}

func TestStore_UpsertCreatesAndPreservesLoad(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Upsert(ctx, person("alice", 3, 10, models.ZoneA)))

			updated := person("alice", 0, 7, models.ZoneB, models.ZoneC)
			updated.PreferredZone = models.ZoneB
			updated.BlockedDates = []models.Date{models.NewDate(2025, 8, 12)}
			require.NoError(t, store.Upsert(ctx, updated))

			got, err := store.Get(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, 3, got.Load, "upsert must never reset load")
			assert.Equal(t, 7, got.MaxLoad)
			assert.Equal(t, models.ZoneB, got.PreferredZone)
			assert.Equal(t, []models.Zone{models.ZoneB, models.ZoneC}, got.AllowedZones)
			require.Len(t, got.BlockedDates, 1)
			assert.Equal(t, "2025-08-12", got.BlockedDates[0].String())
		})
	}
}

func TestStore_UpsertRejectsInvalid(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := store.Upsert(context.Background(), person(" ", 0, 10))
			assert.ErrorIs(t, err, ErrInvalidPerson)

			err = store.Upsert(context.Background(), person("bob", 0, 10, models.Zone("Z")))
			assert.ErrorIs(t, err, ErrInvalidPerson)
		})
	}
}

func TestStore_SnapshotOrderedByName(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, n := range []string{"carol", "alice", "bob"} {
				require.NoError(t, store.Upsert(ctx, person(n, 0, 10, models.ZoneA)))
			}
			people, err := store.Snapshot(ctx)
			require.NoError(t, err)
			require.Len(t, people, 3)
			assert.Equal(t, "alice", people[0].Name)
			assert.Equal(t, "bob", people[1].Name)
			assert.Equal(t, "carol", people[2].Name)
		})
	}
}

func TestStore_IncrementLoad(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Upsert(ctx, person("alice", 1, 10, models.ZoneA)))

			require.NoError(t, store.IncrementLoad(ctx, "alice", 2))
			require.NoError(t, store.IncrementLoad(ctx, "alice", -1))
			got, err := store.Get(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, 2, got.Load)

			assert.ErrorIs(t, store.IncrementLoad(ctx, "nobody", 1), ErrPersonNotFound)
		})
	}
}

func TestStore_IncrementLoadConcurrent(t *testing.T) {
	store := NewMemoryStore(person("alice", 0, 100, models.ZoneA))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.IncrementLoad(ctx, "alice", 1)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Load)
}

func TestStore_ResetLoad(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Upsert(ctx, person("alice", 4, 10, models.ZoneA)))
			require.NoError(t, store.Upsert(ctx, person("bob", 5, 10, models.ZoneA)))
			require.NoError(t, store.Upsert(ctx, person("carol", 6, 10, models.ZoneA)))

			require.NoError(t, store.ResetLoad(ctx, []string{"bob", "nobody"}))
			bob, err := store.Get(ctx, "bob")
			require.NoError(t, err)
			assert.Equal(t, 0, bob.Load)
			alice, err := store.Get(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, 4, alice.Load)

			require.NoError(t, store.ResetLoad(ctx, nil))
			people, err := store.Snapshot(ctx)
			require.NoError(t, err)
			for _, p := range people {
				assert.Zero(t, p.Load, p.Name)
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Upsert(ctx, person("alice", 0, 10, models.ZoneA)))
			require.NoError(t, store.Upsert(ctx, person("bob", 0, 10, models.ZoneA)))

			n, err := store.Delete(ctx, []string{"alice", "nobody"})
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			n, err = store.Delete(ctx, nil)
			require.NoError(t, err)
			assert.Zero(t, n)

			_, err = store.Get(ctx, "alice")
			assert.ErrorIs(t, err, ErrPersonNotFound)
		})
	}
}

func TestGormStore_DecodesDelimitedColumns(t *testing.T) {
	store := newGormStore(t)
	row := database.Employee{
		Name:          "legacy",
		Points:        2,
		MaxPoints:     9,
		OffDays:       "2025-08-12, 2025-08-20,",
		PreferredZone: " a ",
		AllowedZones:  "A,,B",
	}
	require.NoError(t, store.db.Create(&row).Error)

	got, err := store.Get(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, models.ZoneA, got.PreferredZone)
	assert.Equal(t, []models.Zone{models.ZoneA, models.ZoneB}, got.AllowedZones)
	assert.Len(t, got.BlockedDates, 2)
	assert.True(t, got.BlockedOn(models.NewDate(2025, 8, 20)))
}
