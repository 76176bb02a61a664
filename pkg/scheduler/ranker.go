package scheduler

import (
	"sort"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
)

// Candidate is an admissible person together with the keys used to rank it
type Candidate struct {
	Person    *models.Person
	Preferred bool
	Load      int
}

// outranks orders candidates: preferred zone first, then least load, then name
func outranks(a, b Candidate) bool {
	if a.Preferred != b.Preferred {
		return a.Preferred
	}
	if a.Load != b.Load {
		return a.Load < b.Load
	}
	return a.Person.Name < b.Person.Name
}

// Rank sorts candidates best first
func Rank(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		return outranks(candidates[i], candidates[j])
	})
}

// Pick returns the single best candidate, or false when there is none
func Pick(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if outranks(c, best) {
			best = c
		}
	}
	return best, true
}
