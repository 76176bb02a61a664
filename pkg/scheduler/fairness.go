package scheduler

import "math"

// FairnessScore returns a percentage (0-100) representing how evenly the
// run's load is spread over the roster. 100% is perfectly fair (Standard Deviation = 0).
func (r *Result) FairnessScore() float64 {
	if len(r.Roster) == 0 {
		return 100.0
	}

	var sum float64
	for _, p := range r.Roster {
		sum += float64(r.Loads[p.Name])
	}

	if sum == 0 {
		return 100.0 // Nobody working is perfectly fair
	}

	mean := sum / float64(len(r.Roster))

	var varianceSum float64
	for _, p := range r.Roster {
		diff := float64(r.Loads[p.Name]) - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(r.Roster)))

	// 100% means SD is 0. 0% means SD is >= mean.
	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
