package scheduler

import (
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
)

// ScheduleRun holds the mutable state of one engine invocation. It is owned
// by a single Run call and discarded afterwards.
type ScheduleRun struct {
	ID        string
	Start     models.Date
	End       models.Date
	Zones     []models.Zone
	ApplyLoad bool

	roster        []models.Person
	loads         map[string]int
	accrued       map[string]int
	lastAssigned  map[string]models.Date
	assignedToday map[string]bool
}

func newScheduleRun(id string, opts Options, roster []models.Person) *ScheduleRun {
	run := &ScheduleRun{
		ID:            id,
		Start:         opts.Start,
		End:           opts.End,
		Zones:         opts.zones(),
		ApplyLoad:     opts.ApplyLoad,
		roster:        make([]models.Person, 0, len(roster)),
		loads:         make(map[string]int, len(roster)),
		accrued:       make(map[string]int, len(roster)),
		lastAssigned:  make(map[string]models.Date),
		assignedToday: make(map[string]bool),
	}
	for _, p := range roster {
		run.roster = append(run.roster, p.Clone())
		run.loads[p.Name] = p.Load
		run.accrued[p.Name] = 0
	}
	return run
}

// Load returns the person's load including assignments made so far in the run
func (r *ScheduleRun) Load(name string) int {
	return r.loads[name]
}

// LastAssigned returns the most recent date the person was assigned in the run
func (r *ScheduleRun) LastAssigned(name string) (models.Date, bool) {
	d, ok := r.lastAssigned[name]
	return d, ok
}

// AssignedToday reports whether the person already holds a zone on the current day
func (r *ScheduleRun) AssignedToday(name string) bool {
	return r.assignedToday[name]
}

func (r *ScheduleRun) beginDay() {
	clear(r.assignedToday)
}

func (r *ScheduleRun) commit(name string, date models.Date, cost int) {
	r.assignedToday[name] = true
	r.lastAssigned[name] = date
	r.loads[name] += cost
	r.accrued[name] += cost
}

func (r *ScheduleRun) candidates(date models.Date, zone models.Zone, rejected *[numRejections]int) []Candidate {
	var out []Candidate
	for i := range r.roster {
		p := &r.roster[i]
		if reason := Check(r, p, date, zone); reason != RejectNone {
			rejected[reason]++
			continue
		}
		out = append(out, Candidate{
			Person:    p,
			Preferred: p.Prefers(zone),
			Load:      r.loads[p.Name],
		})
	}
	return out
}
