package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/roster"
)

// flakyStore fails or cancels after a number of successful load writes
type flakyStore struct {
	*roster.MemoryStore
	okWrites  int
	writes    int
	snapshots int
	cancel    context.CancelFunc
}

var errDiskFull = errors.New("disk full")

func (f *flakyStore) Snapshot(ctx context.Context) ([]models.Person, error) {
	f.snapshots++
	return f.MemoryStore.Snapshot(ctx)
}

func (f *flakyStore) IncrementLoad(ctx context.Context, name string, delta int) error {
	if f.writes >= f.okWrites {
		if f.cancel == nil {
			return errDiskFull
		}
		f.cancel()
		ctx = context.WithoutCancel(ctx)
	}
	f.writes++
	return f.MemoryStore.IncrementLoad(ctx, name, delta)
}

func day(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func demoStore(t *testing.T) *roster.MemoryStore {
	t.Helper()
	store := roster.NewMemoryStore()
	_, err := roster.Seed(context.Background(), store, roster.DemoRoster(), 10)
	require.NoError(t, err)
	return store
}

func quietScheduler(store RosterStore, opts ...Option) *Scheduler {
	logger, _ := test.NewNullLogger()
	ids := 0
	base := []Option{
		WithLogger(logger),
		WithRunIDs(func() string { ids++; return fmt.Sprintf("run-%d", ids) }),
	}
	return NewScheduler(store, append(base, opts...)...)
}

func TestRun_EmptyRoster(t *testing.T) {
	s := quietScheduler(roster.NewMemoryStore())
	res, err := s.Run(context.Background(), Options{Start: day("2025-08-04"), End: day("2025-08-04")})
	require.NoError(t, err)

	assert.Empty(t, res.Assignments)
	require.Len(t, res.Unassigned, 5)
	for i, rec := range res.Unassigned {
		assert.Equal(t, models.ReasonNoRoster, rec.Reason)
		assert.Equal(t, models.Zones[i], rec.Zone)
	}
}

func TestRun_SinglePersonCeilingAndCooldown(t *testing.T) {
	store := roster.NewMemoryStore(models.Person{Name: "solo", MaxLoad: 1, AllowedZones: []models.Zone{models.ZoneA}})
	s := quietScheduler(store)

	// Monday and Tuesday
	res, err := s.Run(context.Background(), Options{Start: day("2025-08-04"), End: day("2025-08-05")})
	require.NoError(t, err)

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, models.AssignmentRecord{Date: day("2025-08-04"), Zone: models.ZoneA, Person: "solo", Load: 1}, res.Assignments[0])
	assert.Equal(t, 1, res.Loads["solo"])

	require.Len(t, res.Unassigned, 9)
	var dayTwoA *models.UnassignedRecord
	for i := range res.Unassigned {
		rec := &res.Unassigned[i]
		assert.Equal(t, models.ReasonNoEligibleCandidate, rec.Reason)
		if rec.Date.Equal(day("2025-08-05").Time) && rec.Zone == models.ZoneA {
			dayTwoA = rec
		}
	}
	require.NotNil(t, dayTwoA)
	// cooldown is checked before the ceiling, so it is the constraint reported
	assert.Equal(t, []string{"1 within cooldown"}, dayTwoA.Details)
}

func TestRun_LowerLoadBreaksPreferenceTie(t *testing.T) {
	store := roster.NewMemoryStore(
		models.Person{Name: "Y", Load: 3, MaxLoad: 10, PreferredZone: models.ZoneB, AllowedZones: []models.Zone{models.ZoneB}},
		models.Person{Name: "X", Load: 0, MaxLoad: 10, PreferredZone: models.ZoneB, AllowedZones: []models.Zone{models.ZoneB}},
	)
	s := quietScheduler(store)

	res, err := s.Run(context.Background(), Options{Start: day("2025-08-06"), End: day("2025-08-06")})
	require.NoError(t, err)

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, "X", res.Assignments[0].Person)
	assert.Equal(t, models.ZoneB, res.Assignments[0].Zone)
}

func TestRun_PreferenceBeatsLoad(t *testing.T) {
	store := roster.NewMemoryStore(
		models.Person{Name: "fresh", Load: 0, MaxLoad: 10, AllowedZones: models.Zones},
		models.Person{Name: "keen", Load: 5, MaxLoad: 10, PreferredZone: models.ZoneA, AllowedZones: models.Zones},
	)
	s := quietScheduler(store)

	res, err := s.Run(context.Background(), Options{Start: day("2025-08-06"), End: day("2025-08-06")})
	require.NoError(t, err)

	require.Len(t, res.Assignments, 2)
	assert.Equal(t, "keen", res.Assignments[0].Person)
	assert.Equal(t, models.ZoneA, res.Assignments[0].Zone)
	assert.Equal(t, "fresh", res.Assignments[1].Person)
	assert.Equal(t, models.ZoneB, res.Assignments[1].Zone)
}

func TestRun_OneRecordPerDayAndZone(t *testing.T) {
	s := quietScheduler(demoStore(t))
	start, end := day("2025-08-01"), day("2025-08-31")

	res, err := s.Run(context.Background(), Options{Start: start, End: end})
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, a := range res.Assignments {
		seen[a.Date.String()+"/"+string(a.Zone)]++
	}
	for _, u := range res.Unassigned {
		seen[u.Date.String()+"/"+string(u.Zone)]++
	}
	dates := models.Range(start, end)
	assert.Len(t, seen, len(dates)*len(models.Zones))
	for _, d := range dates {
		for _, z := range models.Zones {
			assert.Equal(t, 1, seen[d.String()+"/"+string(z)], "%s %s", d, z)
		}
	}
	assert.Equal(t, end, res.CompletedThrough)
}

func TestRun_Deterministic(t *testing.T) {
	opts := Options{Start: day("2025-08-01"), End: day("2025-08-31")}

	first, err := quietScheduler(demoStore(t)).Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := quietScheduler(demoStore(t)).Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Unassigned, second.Unassigned)
}

func TestRun_Invariants(t *testing.T) {
	store := demoStore(t)
	before, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	ceilings := make(map[string]int)
	loads := make(map[string]int)
	for _, p := range before {
		ceilings[p.Name] = p.MaxLoad
		loads[p.Name] = p.Load
	}

	res, err := quietScheduler(store).Run(context.Background(), Options{Start: day("2025-08-01"), End: day("2025-09-15")})
	require.NoError(t, err)
	require.NotEmpty(t, res.Assignments)

	last := make(map[string]models.Date)
	perDay := make(map[string]bool)
	for _, a := range res.Assignments {
		assert.LessOrEqual(t, loads[a.Person]+a.Load, ceilings[a.Person], "ceiling for %s on %s", a.Person, a.Date)
		loads[a.Person] += a.Load

		if prev, ok := last[a.Person]; ok {
			assert.GreaterOrEqual(t, a.Date.DaysSince(prev), CooldownDays, "cooldown for %s on %s", a.Person, a.Date)
		}
		last[a.Person] = a.Date

		key := a.Date.String() + "/" + a.Person
		assert.False(t, perDay[key], "double booking %s", key)
		perDay[key] = true

		assert.Equal(t, LoadCost(a.Date), a.Load)
	}
}

func TestRun_WeekendWeighting(t *testing.T) {
	// Friday through Monday
	assert.Equal(t, 1, LoadCost(day("2025-08-01")))
	assert.Equal(t, 2, LoadCost(day("2025-08-02")))
	assert.Equal(t, 2, LoadCost(day("2025-08-03")))
	assert.Equal(t, 1, LoadCost(day("2025-08-04")))

	res, err := quietScheduler(demoStore(t)).Run(context.Background(), Options{Start: day("2025-08-01"), End: day("2025-08-04")})
	require.NoError(t, err)
	for _, a := range res.Assignments {
		if a.Date.IsWeekend() {
			assert.Equal(t, 2, a.Load, a.Date.String())
		} else {
			assert.Equal(t, 1, a.Load, a.Date.String())
		}
	}
}

func TestRun_InvalidRangeRejectedBeforeRunning(t *testing.T) {
	store := &flakyStore{MemoryStore: demoStore(t)}
	s := quietScheduler(store)

	res, err := s.Run(context.Background(), Options{Start: day("2025-08-05"), End: day("2025-08-04")})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.Nil(t, res)
	assert.Zero(t, store.snapshots)

	_, err = s.Run(context.Background(), Options{End: day("2025-08-04")})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = s.Run(context.Background(), Options{Start: day("2025-08-04"), End: day("2025-08-04"), Zones: []models.Zone{"Q"}})
	assert.ErrorIs(t, err, ErrNoZones)
}

func TestRun_CustomZoneOrder(t *testing.T) {
	store := roster.NewMemoryStore(models.Person{Name: "only", MaxLoad: 10, AllowedZones: models.Zones})
	res, err := quietScheduler(store).Run(context.Background(), Options{
		Start: day("2025-08-04"),
		End:   day("2025-08-04"),
		Zones: []models.Zone{models.ZoneE, models.ZoneA},
	})
	require.NoError(t, err)

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, models.ZoneE, res.Assignments[0].Zone)
	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, models.ZoneA, res.Unassigned[0].Zone)
	assert.Equal(t, []string{"1 already assigned today"}, res.Unassigned[0].Details)
}

func TestRun_WithoutApplyLoadLeavesStoreUntouched(t *testing.T) {
	store := demoStore(t)
	ctx := context.Background()
	require.NoError(t, store.ResetLoad(ctx, nil))
	before, err := store.Snapshot(ctx)
	require.NoError(t, err)

	res, err := quietScheduler(store).Run(ctx, Options{Start: day("2025-08-01"), End: day("2025-08-14")})
	require.NoError(t, err)
	require.NotEmpty(t, res.Assignments)

	after, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRun_ApplyLoadPersistsIncrements(t *testing.T) {
	store := demoStore(t)
	ctx := context.Background()

	res, err := quietScheduler(store).Run(ctx, Options{Start: day("2025-08-01"), End: day("2025-08-07"), ApplyLoad: true})
	require.NoError(t, err)

	after, err := store.Snapshot(ctx)
	require.NoError(t, err)
	for _, p := range after {
		assert.Equal(t, res.Loads[p.Name], p.Load, p.Name)
	}
}

func TestRun_StoreErrorReturnsPartialResult(t *testing.T) {
	store := &flakyStore{MemoryStore: demoStore(t), okWrites: 7}
	ctx := context.Background()

	res, err := quietScheduler(store).Run(ctx, Options{Start: day("2025-08-04"), End: day("2025-08-10"), ApplyLoad: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, day("2025-08-04"), storeErr.CompletedThrough)
	assert.Equal(t, day("2025-08-05"), storeErr.Date)

	require.NotNil(t, res)
	assert.Len(t, res.Assignments, 7, "only persisted assignments are reported")
	assert.Equal(t, day("2025-08-04"), res.CompletedThrough)

	persisted := 0
	people, err := store.Snapshot(ctx)
	require.NoError(t, err)
	for _, p := range people {
		persisted += p.Load
	}
	assert.Equal(t, 7, persisted)
}

func TestRun_CanceledBetweenDays(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := &flakyStore{MemoryStore: demoStore(t), okWrites: 0, cancel: cancel}

	res, err := quietScheduler(store).Run(ctx, Options{Start: day("2025-08-04"), End: day("2025-08-10"), ApplyLoad: true})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, day("2025-08-04"), res.CompletedThrough)
	for _, a := range res.Assignments {
		assert.Equal(t, day("2025-08-04"), a.Date)
	}
}

func TestRun_LogsSummary(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := NewScheduler(demoStore(t), WithLogger(logger), WithRunIDs(func() string { return "fixed" }))

	res, err := s.Run(context.Background(), Options{Start: day("2025-08-04"), End: day("2025-08-04")})
	require.NoError(t, err)
	assert.Equal(t, "fixed", res.RunID)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Run complete", entry.Message)
	assert.Equal(t, "fixed", entry.Data["run_id"])
	assert.Equal(t, len(res.Assignments), entry.Data["assignments"])
}

func TestOptionsFromInput(t *testing.T) {
	opts, err := OptionsFromInput(models.ScheduleInput{
		StartDate: "2025-08-01",
		EndDate:   " 2025-08-31 ",
		Zones:     []string{"e", "A"},
		ApplyLoad: true,
	})
	require.NoError(t, err)
	assert.Equal(t, day("2025-08-01"), opts.Start)
	assert.Equal(t, day("2025-08-31"), opts.End)
	assert.Equal(t, []models.Zone{models.ZoneE, models.ZoneA}, opts.Zones)
	assert.True(t, opts.ApplyLoad)

	_, err = OptionsFromInput(models.ScheduleInput{StartDate: "2025-13-01", EndDate: "2025-08-31"})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = OptionsFromInput(models.ScheduleInput{StartDate: "2025-08-01", EndDate: "2025-08-31", Zones: []string{"X"}})
	assert.ErrorIs(t, err, ErrNoZones)
}
