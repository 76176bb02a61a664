package models

import (
	"fmt"
	"sort"
	"strings"
)

// Zone is a daily duty slot that needs exactly one person per day
type Zone string

const (
	ZoneA Zone = "A"
	ZoneB Zone = "B"
	ZoneC Zone = "C"
	ZoneI Zone = "I"
	ZoneE Zone = "E"
)

// Zones is the fixed zone set in the order the scheduler fills them
var Zones = []Zone{ZoneA, ZoneB, ZoneC, ZoneI, ZoneE}

// Valid reports whether z belongs to the fixed zone set
func (z Zone) Valid() bool {
	for _, known := range Zones {
		if z == known {
			return true
		}
	}
	return false
}

// ParseZone parses a zone code, ignoring surrounding whitespace and case
func ParseZone(s string) (Zone, error) {
	z := Zone(strings.ToUpper(strings.TrimSpace(s)))
	if !z.Valid() {
		return "", fmt.Errorf("unknown zone %q", s)
	}
	return z, nil
}

// Person is one roster entry
type Person struct {
	Name          string `json:"name"`
	Load          int    `json:"load"`
	MaxLoad       int    `json:"max_load"`
	BlockedDates  []Date `json:"blocked_dates"`
	PreferredZone Zone   `json:"preferred_zone,omitempty"`
	AllowedZones  []Zone `json:"allowed_zones"`
}

// BlockedOn reports whether the person is unavailable on d
func (p *Person) BlockedOn(d Date) bool {
	for _, b := range p.BlockedDates {
		if b.Equal(d.Time) {
			return true
		}
	}
	return false
}

// Allows reports whether the person may work zone z
func (p *Person) Allows(z Zone) bool {
	for _, allowed := range p.AllowedZones {
		if allowed == z {
			return true
		}
	}
	return false
}

// Prefers reports whether z is the person's preferred zone
func (p *Person) Prefers(z Zone) bool {
	return p.PreferredZone != "" && p.PreferredZone == z
}

// Validate checks the attributes an admin may set
func (p *Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.MaxLoad < 0 {
		return fmt.Errorf("max_load must not be negative")
	}
	if p.PreferredZone != "" && !p.PreferredZone.Valid() {
		return fmt.Errorf("unknown preferred zone %q", p.PreferredZone)
	}
	for _, z := range p.AllowedZones {
		if !z.Valid() {
			return fmt.Errorf("unknown allowed zone %q", z)
		}
	}
	return nil
}

// Normalize trims the name, sorts blocked dates and drops duplicates from
// the list fields so that stored rows are stable
func (p *Person) Normalize() {
	p.Name = strings.TrimSpace(p.Name)

	seenDates := make(map[string]bool, len(p.BlockedDates))
	dates := p.BlockedDates[:0]
	for _, d := range p.BlockedDates {
		if !seenDates[d.String()] {
			seenDates[d.String()] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j].Time) })
	p.BlockedDates = dates

	seenZones := make(map[Zone]bool, len(p.AllowedZones))
	zones := p.AllowedZones[:0]
	for _, z := range p.AllowedZones {
		if !seenZones[z] {
			seenZones[z] = true
			zones = append(zones, z)
		}
	}
	p.AllowedZones = zones
}

// Clone returns a deep copy so that callers cannot alias slices
func (p Person) Clone() Person {
	p.BlockedDates = append([]Date(nil), p.BlockedDates...)
	p.AllowedZones = append([]Zone(nil), p.AllowedZones...)
	return p
}

// UnassignedReason is the closed set of reasons a zone stays empty on a day
type UnassignedReason string

const (
	ReasonNoRoster            UnassignedReason = "no-roster"
	ReasonNoEligibleCandidate UnassignedReason = "no-eligible-candidate"
)

// AssignmentRecord is a committed decision for one day and zone
type AssignmentRecord struct {
	Date   Date   `json:"date"`
	Zone   Zone   `json:"zone"`
	Person string `json:"person"`
	Load   int    `json:"load"`
}

// UnassignedRecord explains why a day and zone has nobody assigned
type UnassignedRecord struct {
	Date    Date             `json:"date"`
	Zone    Zone             `json:"zone"`
	Reason  UnassignedReason `json:"reason"`
	Details []string         `json:"details,omitempty"`
}

// ScheduleInput is the data structure for the scheduling endpoints
type ScheduleInput struct {
	StartDate string   `json:"start_date" binding:"required"`
	EndDate   string   `json:"end_date" binding:"required"`
	ApplyLoad bool     `json:"apply_load"`
	Zones     []string `json:"zones,omitempty"`
}

// ScheduleResponse is the data structure for the scheduling result
type ScheduleResponse struct {
	RunID         string             `json:"run_id"`
	StartDate     Date               `json:"start_date"`
	EndDate       Date               `json:"end_date"`
	Assignments   []AssignmentRecord `json:"assignments"`
	Unassigned    []UnassignedRecord `json:"unassigned"`
	Loads         map[string]int     `json:"loads"` // name -> load accrued during the run
	FairnessScore float64            `json:"fairness_score"`
	Roster        []Person           `json:"roster"`
}

// PersonInput is the upsert payload; list fields arrive as plain strings
type PersonInput struct {
	Name          string   `json:"name" yaml:"name"`
	InitialLoad   int      `json:"initial_load" yaml:"initial_load"`
	MaxLoad       *int     `json:"max_load" yaml:"max_load"`
	BlockedDates  []string `json:"blocked_dates" yaml:"blocked_dates"`
	PreferredZone string   `json:"preferred_zone" yaml:"preferred_zone"`
	AllowedZones  []string `json:"allowed_zones" yaml:"allowed_zones"`
}

// ToPerson converts the payload, filling the admin form defaults: a
// missing ceiling becomes defaultMaxLoad and a missing zone list allows every zone
func (in PersonInput) ToPerson(defaultMaxLoad int) (Person, error) {
	p := Person{
		Name:    strings.TrimSpace(in.Name),
		Load:    in.InitialLoad,
		MaxLoad: defaultMaxLoad,
	}
	if in.MaxLoad != nil {
		p.MaxLoad = *in.MaxLoad
	}
	for _, raw := range in.BlockedDates {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		d, err := ParseDate(raw)
		if err != nil {
			return Person{}, err
		}
		p.BlockedDates = append(p.BlockedDates, d)
	}
	if pref := strings.TrimSpace(in.PreferredZone); pref != "" {
		z, err := ParseZone(pref)
		if err != nil {
			return Person{}, err
		}
		p.PreferredZone = z
	}
	if in.AllowedZones == nil {
		p.AllowedZones = append([]Zone(nil), Zones...)
	}
	for _, raw := range in.AllowedZones {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		z, err := ParseZone(raw)
		if err != nil {
			return Person{}, err
		}
		p.AllowedZones = append(p.AllowedZones, z)
	}
	p.Normalize()
	return p, p.Validate()
}
