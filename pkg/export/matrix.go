// Package export renders scheduling results for people: a day-by-person
// matrix with a load total row, long-form CSV and an XLSX workbook.
package export

import (
	"sort"
	"strings"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/scheduler"
)

// TotalRowLabel heads the per-person load total row
const TotalRowLabel = "Load"

// Report is everything an export needs from a run
type Report struct {
	Start       models.Date
	End         models.Date
	Roster      []models.Person
	Assignments []models.AssignmentRecord
	Unassigned  []models.UnassignedRecord
}

// FromResult builds a report from an engine result
func FromResult(res *scheduler.Result) Report {
	return Report{
		Start:       res.Start,
		End:         res.End,
		Roster:      res.Roster,
		Assignments: res.Assignments,
		Unassigned:  res.Unassigned,
	}
}

// Matrix is a day-by-person grid; each cell holds the zone codes worked that day
type Matrix struct {
	Dates  []models.Date
	People []string
	Cells  [][]string // [date][person]
	Totals []int      // load per person taken from the assignments
}

// BuildMatrix lays the assignments out by date and person. Columns follow the
// roster order, or sorted assignee names when the roster is empty.
func BuildMatrix(r Report) *Matrix {
	people := make([]string, 0, len(r.Roster))
	for _, p := range r.Roster {
		people = append(people, p.Name)
	}
	if len(people) == 0 {
		seen := make(map[string]bool)
		for _, a := range r.Assignments {
			if !seen[a.Person] {
				seen[a.Person] = true
				people = append(people, a.Person)
			}
		}
		sort.Strings(people)
	}

	m := &Matrix{
		Dates:  models.Range(r.Start, r.End),
		People: people,
		Totals: make([]int, len(people)),
	}
	m.Cells = make([][]string, len(m.Dates))
	for i := range m.Cells {
		m.Cells[i] = make([]string, len(people))
	}

	dateIdx := make(map[string]int, len(m.Dates))
	for i, d := range m.Dates {
		dateIdx[d.String()] = i
	}
	personIdx := make(map[string]int, len(people))
	for i, name := range people {
		personIdx[name] = i
	}

	for _, a := range r.Assignments {
		di, okDate := dateIdx[a.Date.String()]
		pi, okPerson := personIdx[a.Person]
		if !okDate || !okPerson {
			continue
		}
		m.Cells[di][pi] = joinZone(m.Cells[di][pi], a.Zone)
		m.Totals[pi] += a.Load
	}
	return m
}

// joinZone appends z to a cell, tolerating the two-zones-a-day case
func joinZone(cell string, z models.Zone) string {
	if cell == "" {
		return string(z)
	}
	for _, existing := range strings.Split(cell, "/") {
		if existing == string(z) {
			return cell
		}
	}
	return cell + "/" + string(z)
}

// Rows returns the matrix as a header row, one row per date and the total row
func (m *Matrix) Rows() [][]string {
	rows := make([][]string, 0, len(m.Dates)+2)
	rows = append(rows, append([]string{"Date"}, m.People...))
	for i, d := range m.Dates {
		rows = append(rows, append([]string{d.String()}, m.Cells[i]...))
	}
	total := []string{TotalRowLabel}
	for _, t := range m.Totals {
		total = append(total, itoa(t))
	}
	return append(rows, total)
}
