package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/metrics"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
)

// RosterStore is what the scheduler needs from roster storage
type RosterStore interface {
	Snapshot(ctx context.Context) ([]models.Person, error)
	IncrementLoad(ctx context.Context, name string, delta int) error
}

// Options describes a single run
type Options struct {
	Start models.Date
	End   models.Date
	// Zones are filled in this order each day; empty means models.Zones
	Zones []models.Zone
	// ApplyLoad writes every accepted assignment's load back to the store as it happens
	ApplyLoad bool
}

func (o Options) zones() []models.Zone {
	if len(o.Zones) == 0 {
		return append([]models.Zone(nil), models.Zones...)
	}
	return append([]models.Zone(nil), o.Zones...)
}

// Validate rejects options the engine must not start with
func (o Options) Validate() error {
	if o.Start.IsZero() || o.End.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidDateRange)
	}
	if o.Start.After(o.End.Time) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidDateRange, o.Start, o.End)
	}
	seen := make(map[models.Zone]bool, len(o.Zones))
	for _, z := range o.Zones {
		if !z.Valid() {
			return fmt.Errorf("%w: unknown zone %q", ErrNoZones, z)
		}
		if seen[z] {
			return fmt.Errorf("%w: zone %s listed twice", ErrNoZones, z)
		}
		seen[z] = true
	}
	return nil
}

// OptionsFromInput parses the request payload shared by the HTTP and CLI
// surfaces. Malformed dates wrap ErrInvalidDateRange and unknown zones wrap
// ErrNoZones so callers can map both to a client error.
func OptionsFromInput(in models.ScheduleInput) (Options, error) {
	start, err := models.ParseDate(in.StartDate)
	if err != nil {
		return Options{}, fmt.Errorf("%w: start_date: %v", ErrInvalidDateRange, err)
	}
	end, err := models.ParseDate(in.EndDate)
	if err != nil {
		return Options{}, fmt.Errorf("%w: end_date: %v", ErrInvalidDateRange, err)
	}
	opts := Options{Start: start, End: end, ApplyLoad: in.ApplyLoad}
	for _, raw := range in.Zones {
		z, err := models.ParseZone(raw)
		if err != nil {
			return Options{}, fmt.Errorf("%w: %v", ErrNoZones, err)
		}
		opts.Zones = append(opts.Zones, z)
	}
	return opts, opts.Validate()
}

// Result is the output of a run. On a failed run it holds everything decided
// before the failure.
type Result struct {
	RunID       string
	Start       models.Date
	End         models.Date
	Zones       []models.Zone
	Assignments []models.AssignmentRecord
	Unassigned  []models.UnassignedRecord
	// Roster is the snapshot the run was computed from, ordered by name
	Roster []models.Person
	// Loads is the load each roster person accrued during the run
	Loads map[string]int
	// CompletedThrough is the last date whose zones were all decided, zero if none
	CompletedThrough models.Date
}

// Response converts the result into the API payload
func (r *Result) Response() models.ScheduleResponse {
	return models.ScheduleResponse{
		RunID:         r.RunID,
		StartDate:     r.Start,
		EndDate:       r.End,
		Assignments:   r.Assignments,
		Unassigned:    r.Unassigned,
		Loads:         r.Loads,
		FairnessScore: r.FairnessScore(),
		Roster:        r.Roster,
	}
}

// Scheduler assigns roster persons to zones day by day
type Scheduler struct {
	store   RosterStore
	metrics metrics.Recorder
	log     logrus.FieldLogger
	newID   func() string
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithMetrics sets the recorder that receives scheduling events
func WithMetrics(m metrics.Recorder) Option {
	return func(s *Scheduler) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the logger used for run summaries and per-decision debug entries
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRunIDs overrides run ID generation
func WithRunIDs(gen func() string) Option {
	return func(s *Scheduler) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(store RosterStore, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:   store,
		metrics: metrics.NewNop(),
		log:     logrus.StandardLogger(),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run schedules every zone of every day in [opts.Start, opts.End].
//
// Days are processed in ascending order and zones in opts.Zones order, because
// every decision depends on the load, cooldown and same-day bookings left by
// the ones before it. A zone with no admissible person becomes an
// UnassignedRecord and the run continues.
//
// Cancellation is checked between days. When ctx is canceled or a load
// write-back fails, Run returns the partial result alongside the error; loads
// already written to the store stay written.
func (s *Scheduler) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	if err := opts.Validate(); err != nil {
		s.metrics.RecordRun(time.Since(started).Seconds(), metrics.OutcomeInvalid)
		return nil, err
	}

	roster, err := s.store.Snapshot(ctx)
	if err != nil {
		s.metrics.RecordRun(time.Since(started).Seconds(), metrics.OutcomeStoreError)
		return nil, fmt.Errorf("snapshot roster: %w", err)
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].Name < roster[j].Name })

	run := newScheduleRun(s.newID(), opts, roster)
	res := &Result{
		RunID:  run.ID,
		Start:  run.Start,
		End:    run.End,
		Zones:  run.Zones,
		Roster: roster,
		Loads:  run.accrued,
	}
	log := s.log.WithFields(logrus.Fields{
		"run_id":     run.ID,
		"start":      run.Start.String(),
		"end":        run.End.String(),
		"apply_load": run.ApplyLoad,
	})
	log.WithField("roster", len(roster)).Debug("Run started")

	for day := run.Start; !day.After(run.End.Time); day = day.AddDays(1) {
		if err := ctx.Err(); err != nil {
			s.metrics.RecordRun(time.Since(started).Seconds(), metrics.OutcomeCanceled)
			log.WithError(err).Warn("Run canceled")
			return res, err
		}
		if err := s.scheduleDay(ctx, run, res, day, log); err != nil {
			var storeErr *StoreError
			if errors.As(err, &storeErr) {
				storeErr.CompletedThrough = res.CompletedThrough
			}
			s.metrics.RecordRun(time.Since(started).Seconds(), metrics.OutcomeStoreError)
			log.WithError(err).Error("Run aborted")
			return res, err
		}
		res.CompletedThrough = day
	}

	s.metrics.RecordRun(time.Since(started).Seconds(), metrics.OutcomeOK)
	log.WithFields(logrus.Fields{
		"assignments": len(res.Assignments),
		"unassigned":  len(res.Unassigned),
	}).Info("Run complete")
	return res, nil
}

func (s *Scheduler) scheduleDay(ctx context.Context, run *ScheduleRun, res *Result, day models.Date, log logrus.FieldLogger) error {
	cost := LoadCost(day)
	run.beginDay()

	for _, zone := range run.Zones {
		if len(run.roster) == 0 {
			s.unassigned(res, models.UnassignedRecord{Date: day, Zone: zone, Reason: models.ReasonNoRoster})
			continue
		}

		var rejected [numRejections]int
		winner, ok := Pick(run.candidates(day, zone, &rejected))
		if !ok {
			s.unassigned(res, models.UnassignedRecord{
				Date:    day,
				Zone:    zone,
				Reason:  models.ReasonNoEligibleCandidate,
				Details: describeRejections(rejected),
			})
			log.WithFields(logrus.Fields{"date": day.String(), "zone": zone}).Debug("Zone left unassigned")
			continue
		}

		name := winner.Person.Name
		if run.ApplyLoad {
			if err := s.store.IncrementLoad(ctx, name, cost); err != nil {
				s.metrics.RecordLoadWrite(false)
				return &StoreError{Date: day, Zone: zone, Person: name, Err: err}
			}
			s.metrics.RecordLoadWrite(true)
		}

		run.commit(name, day, cost)
		res.Assignments = append(res.Assignments, models.AssignmentRecord{
			Date:   day,
			Zone:   zone,
			Person: name,
			Load:   cost,
		})
		s.metrics.RecordAssignment(string(zone), cost)
		log.WithFields(logrus.Fields{
			"date":      day.String(),
			"zone":      zone,
			"person":    name,
			"preferred": winner.Preferred,
			"load":      run.Load(name),
		}).Debug("Zone assigned")
	}
	return nil
}

func (s *Scheduler) unassigned(res *Result, rec models.UnassignedRecord) {
	res.Unassigned = append(res.Unassigned, rec)
	s.metrics.RecordUnassigned(string(rec.Zone), string(rec.Reason))
}

// describeRejections turns per-constraint counts into readable reasons
func describeRejections(rejected [numRejections]int) []string {
	var reasons []string
	for r := RejectNone + 1; r < numRejections; r++ {
		if rejected[r] > 0 {
			reasons = append(reasons, fmt.Sprintf("%d %s", rejected[r], r))
		}
	}
	return reasons
}
