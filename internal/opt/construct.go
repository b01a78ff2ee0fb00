package opt

import (
	"math"

	"tmsopt/internal/routing"
)

// pathCheapestArc extends each vehicle's path, in vehicle order, with the
// cheapest feasible arc leaving its last node. Visits left over once every
// path is closed go through cheapest insertion.
func (s *search) pathCheapestArc() bool {
	mgr := s.m.Manager()
	dims := s.m.Dimensions()
	pending := mgr.VisitIndices()
	for v := 0; v < s.nv && len(pending) > 0; v++ {
		cumuls := s.endCumuls(v, dims)
		end := mgr.End(v)
		for len(pending) > 0 {
			if s.expired() {
				s.unplaced = len(pending)
				return false
			}
			last := mgr.Start(v)
			if n := len(s.routes[v]); n > 0 {
				last = s.routes[v][n-1]
			}
			best, bestPos := -1, -1
			bestCost := int64(math.MaxInt64)
			for pos, x := range pending {
				c := s.m.ArcCostForVehicle(last, x, v)
				if c >= bestCost || !canInsert(dims, cumuls, v, last, x, end) {
					continue
				}
				best, bestPos, bestCost = x, pos, c
			}
			if best < 0 {
				break
			}
			s.routes[v] = append(s.routes[v], best)
			pending = removeAt(pending, bestPos)
			cumuls = s.endCumuls(v, dims)
		}
	}
	return s.insertAll(pending)
}

// parallelCheapestInsertion repeatedly inserts the visit with the globally
// cheapest feasible insertion over all routes and positions.
func (s *search) parallelCheapestInsertion() bool {
	return s.insertAll(s.m.Manager().VisitIndices())
}

func (s *search) insertAll(pending []int) bool {
	dims := s.m.Dimensions()
	cumuls := make([][]int64, s.nv)
	for v := range cumuls {
		cumuls[v] = s.endCumuls(v, dims)
	}
	for len(pending) > 0 {
		bestNode, bestVehicle, bestPos := -1, -1, -1
		bestDelta := int64(math.MaxInt64)
		for ni, x := range pending {
			if s.expired() {
				s.unplaced = len(pending)
				return false
			}
			for v := 0; v < s.nv; v++ {
				for pos := 0; pos <= len(s.routes[v]); pos++ {
					prev, next := s.neighbours(v, pos)
					delta := s.insertionDelta(v, prev, x, next)
					if delta >= bestDelta || !canInsert(dims, cumuls[v], v, prev, x, next) {
						continue
					}
					bestNode, bestVehicle, bestPos, bestDelta = ni, v, pos, delta
				}
			}
		}
		if bestNode < 0 {
			s.unplaced = len(pending)
			return false
		}
		s.routes[bestVehicle] = insertAt(s.routes[bestVehicle], pending[bestNode], bestPos)
		cumuls[bestVehicle] = s.endCumuls(bestVehicle, dims)
		pending = removeAt(pending, bestNode)
	}
	return true
}

// neighbours returns the indices around insertion position pos on route v.
func (s *search) neighbours(v, pos int) (prev, next int) {
	mgr := s.m.Manager()
	r := s.routes[v]
	prev, next = mgr.Start(v), mgr.End(v)
	if pos > 0 {
		prev = r[pos-1]
	}
	if pos < len(r) {
		next = r[pos]
	}
	return prev, next
}

// insertionDelta is the change in RouteCost from placing x between prev and
// next on route v. Opening an empty route also pays the vehicle's fixed cost.
func (s *search) insertionDelta(v, prev, x, next int) int64 {
	in := s.m.ArcCostForVehicle(prev, x, v) + s.m.ArcCostForVehicle(x, next, v)
	if len(s.routes[v]) == 0 {
		return s.m.FixedCost(v) + in
	}
	return in - s.m.ArcCostForVehicle(prev, next, v)
}

// endCumuls returns each dimension's cumul at the end of route v.
func (s *search) endCumuls(v int, dims []*routing.Dimension) []int64 {
	mgr := s.m.Manager()
	out := make([]int64, len(dims))
	for k, d := range dims {
		prev := mgr.Start(v)
		for _, x := range s.routes[v] {
			out[k] += d.Transit(prev, x)
			prev = x
		}
		out[k] += d.Transit(prev, mgr.End(v))
	}
	return out
}

// canInsert reports whether placing x between prev and next keeps route v
// within every dimension bound. Transits are non-negative, so the end cumul
// is the largest cumul on the route.
func canInsert(dims []*routing.Dimension, cumuls []int64, v, prev, x, next int) bool {
	for k, d := range dims {
		c := cumuls[k] - d.Transit(prev, next) + d.Transit(prev, x) + d.Transit(x, next)
		if c < 0 || c > d.Capacity(v) {
			return false
		}
	}
	return true
}
