package routing

import (
	"fmt"
	"time"
)

// SearchStats summarizes the search that produced an assignment.
type SearchStats struct {
	Objective     int64
	Iterations    int
	Improvements  int
	FirstSolution FirstSolutionStrategy
	Metaheuristic Metaheuristic
	WallTime      time.Duration
}

// Assignment is a solver output: a successor for every non-end index and the
// cumul value of every registered dimension at every routed index.
type Assignment struct {
	next      []int
	cumul     [numDimensionKinds][]int64
	objective int64

	Stats SearchStats
}

// NewAssignment builds an assignment from one ordered visit sequence per
// vehicle. Every visit index must appear exactly once; depot indices must not
// appear. Cumul values are propagated from zero at each start, and a bound
// violation is reported as ErrNoSolution.
func NewAssignment(m *Model, routes [][]int) (*Assignment, error) {
	mgr := m.Manager()
	if len(routes) != mgr.NumVehicles() {
		return nil, fmt.Errorf("routing: got %d routes for %d vehicles", len(routes), mgr.NumVehicles())
	}
	a := &Assignment{next: make([]int, mgr.NumIndices())}
	for i := range a.next {
		a.next[i] = -1
	}
	for _, d := range m.Dimensions() {
		a.cumul[d.Kind] = make([]int64, mgr.NumIndices())
	}

	seen := make([]bool, mgr.NumIndices())
	for v, visits := range routes {
		for _, idx := range visits {
			if idx < 0 || idx >= mgr.NumIndices() || mgr.IsDepot(idx) {
				return nil, fmt.Errorf("routing: vehicle %d routes invalid index %d", v, idx)
			}
			if seen[idx] {
				return nil, fmt.Errorf("routing: index %d routed twice", idx)
			}
			seen[idx] = true
		}
		p := m.path(v, visits)
		for i := 0; i+1 < len(p); i++ {
			a.next[p[i]] = p[i+1]
		}
		for _, d := range m.Dimensions() {
			cumul := a.cumul[d.Kind]
			limit := d.Capacity(v)
			cumul[p[0]] = 0
			for i := 1; i < len(p); i++ {
				cumul[p[i]] = cumul[p[i-1]] + d.Transit(p[i-1], p[i])
				if cumul[p[i]] > limit {
					return nil, fmt.Errorf("%w: vehicle %d exceeds %s bound %d", ErrNoSolution, v, d.Kind, limit)
				}
			}
		}
		a.objective += m.RouteCost(v, visits)
	}
	for _, idx := range mgr.VisitIndices() {
		if !seen[idx] {
			return nil, fmt.Errorf("routing: index %d (location %d) is not routed", idx, mgr.IndexToNode(idx))
		}
	}
	a.Stats.Objective = a.objective
	return a, nil
}

// Next returns the successor of index, or -1 for end indices.
func (a *Assignment) Next(index int) int { return a.next[index] }

// Value returns the cumul of dimension k at index. Unregistered dimensions
// read as zero.
func (a *Assignment) Value(k DimensionKind, index int) int64 {
	c := a.cumul[k]
	if c == nil {
		return 0
	}
	return c[index]
}

// Objective is the total arc cost plus fixed costs of used vehicles.
func (a *Assignment) Objective() int64 { return a.objective }
