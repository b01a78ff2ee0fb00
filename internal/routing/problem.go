package routing

import "time"

// MinTimeLimit is the smallest search budget accepted from callers.
const MinTimeLimit = 100 * time.Millisecond

// MaxTimeLimit is the largest search budget accepted from callers.
const MaxTimeLimit = 24 * time.Hour

// Vehicle is one routable vehicle. A nil Capacity is unconstrained; a nil End
// means the vehicle returns to Start.
type Vehicle struct {
	ID       string
	Capacity *int64
	Start    int
	End      *int
}

// EndLocation resolves the location the vehicle finishes at.
func (v Vehicle) EndLocation() int {
	if v.End != nil {
		return *v.End
	}
	return v.Start
}

// Job is a visit at a matrix location.
type Job struct {
	ID       string
	Demand   *int64
	Location int
	Service  int64
}

// SearchOptions carries the caller's search configuration. The solver-facing
// fields are passed through as-is.
type SearchOptions struct {
	TimeLimit   time.Duration
	MaxVehicles *int
	// ReturnToDepot is accepted for compatibility. Every route is costed up
	// to its end location whatever its value.
	ReturnToDepot bool
	FirstSolution FirstSolutionStrategy
	Metaheuristic Metaheuristic
}

// Problem is one immutable optimization instance.
type Problem struct {
	Vehicles []Vehicle
	Jobs     []Job
	Matrix   [][]int64
	Options  SearchOptions
}

// NumLocations is the number of addressable matrix locations.
func (p *Problem) NumLocations() int { return len(p.Matrix) }
