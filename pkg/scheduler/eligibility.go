package scheduler

import (
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
)

const (
	// CooldownDays is the minimum gap between two assignments of one person
	CooldownDays = 3

	WeekdayLoad = 1
	WeekendLoad = 2
)

// LoadCost returns the load a single assignment on d is worth
func LoadCost(d models.Date) int {
	if d.IsWeekend() {
		return WeekendLoad
	}
	return WeekdayLoad
}

// Rejection names the first constraint a person failed for a day and zone
type Rejection int

const (
	RejectNone Rejection = iota
	RejectBlocked
	RejectBookedToday
	RejectCooldown
	RejectLoadCeiling
	RejectZoneNotAllowed

	numRejections
)

func (r Rejection) String() string {
	switch r {
	case RejectNone:
		return "eligible"
	case RejectBlocked:
		return "blocked on date"
	case RejectBookedToday:
		return "already assigned today"
	case RejectCooldown:
		return "within cooldown"
	case RejectLoadCeiling:
		return "would exceed load ceiling"
	case RejectZoneNotAllowed:
		return "not allowed in zone"
	default:
		return "unknown"
	}
}

// Check evaluates the eligibility constraints in order and returns the first
// one p fails, or RejectNone. It reads run state and never changes it.
func Check(run *ScheduleRun, p *models.Person, date models.Date, zone models.Zone) Rejection {
	if p.BlockedOn(date) {
		return RejectBlocked
	}
	if run.AssignedToday(p.Name) {
		return RejectBookedToday
	}
	if last, ok := run.LastAssigned(p.Name); ok && date.DaysSince(last) < CooldownDays {
		return RejectCooldown
	}
	if run.Load(p.Name)+LoadCost(date) > p.MaxLoad {
		return RejectLoadCeiling
	}
	if !p.Allows(zone) {
		return RejectZoneNotAllowed
	}
	return RejectNone
}

// Admissible reports whether p may take zone on date
func Admissible(run *ScheduleRun, p *models.Person, date models.Date, zone models.Zone) bool {
	return Check(run, p, date, zone) == RejectNone
}
