package opt

import (
	"context"

	"tmsopt/internal/routing"
)

// GLS penalty weight relative to the average arc cost of the first local optimum.
const penaltyFactor = 0.1

// Moves must improve by more than this to be applied.
const epsilon = 1e-9

type arc struct{ from, to int }

// search holds the mutable state of a single solve. Routes are per-vehicle
// visit sequences in solver indices, never including depot indices.
type search struct {
	ctx    context.Context
	m      *routing.Model
	nv     int
	routes [][]int
	cost   []float64 // augmented cost per route

	penalties map[arc]int
	lambda    float64

	unplaced     int
	iterations   int
	improvements int
}

func newSearch(ctx context.Context, m *routing.Model) *search {
	nv := m.NumVehicles()
	return &search{
		ctx:    ctx,
		m:      m,
		nv:     nv,
		routes: make([][]int, nv),
		cost:   make([]float64, nv),
	}
}

func (s *search) expired() bool { return s.ctx.Err() != nil }

// objective is the true (unpenalized) cost of the current routes.
func (s *search) objective() int64 {
	var total int64
	for v, r := range s.routes {
		total += s.m.RouteCost(v, r)
	}
	return total
}

// routeCost is the route cost plus the guided local search penalty of every
// arc on the path.
func (s *search) routeCost(v int, visits []int) float64 {
	c := float64(s.m.RouteCost(v, visits))
	if s.lambda == 0 || len(visits) == 0 {
		return c
	}
	var pen int
	s.eachArc(v, visits, func(a arc) { pen += s.penalties[a] })
	return c + s.lambda*float64(pen)
}

func (s *search) eachArc(v int, visits []int, fn func(arc)) {
	mgr := s.m.Manager()
	prev := mgr.Start(v)
	for _, x := range visits {
		fn(arc{prev, x})
		prev = x
	}
	fn(arc{prev, mgr.End(v)})
}

func (s *search) refreshCosts() {
	for v, r := range s.routes {
		s.cost[v] = s.routeCost(v, r)
	}
}

func (s *search) apply(v int, visits []int) {
	s.routes[v] = visits
	s.cost[v] = s.routeCost(v, visits)
}

// descend applies first-improvement moves until none improves the
// augmented cost or the search runs out of time.
func (s *search) descend() {
	s.refreshCosts()
	for !s.expired() {
		if s.relocate() || s.exchange() || s.twoOpt() {
			continue
		}
		return
	}
}

// relocate moves a single visit to another position, on the same or another route.
func (s *search) relocate() bool {
	for r1 := range s.routes {
		for i, x := range s.routes[r1] {
			if s.expired() {
				return false
			}
			from := removeAt(s.routes[r1], i)
			fromCost := s.routeCost(r1, from)
			fromFeasible := s.m.RouteFeasible(r1, from)
			for r2 := range s.routes {
				if r2 == r1 {
					for j := 0; j <= len(from); j++ {
						if j == i {
							continue
						}
						cand := insertAt(from, x, j)
						if s.routeCost(r1, cand)-s.cost[r1] < -epsilon && s.m.RouteFeasible(r1, cand) {
							s.apply(r1, cand)
							return true
						}
					}
					continue
				}
				if !fromFeasible {
					continue
				}
				for j := 0; j <= len(s.routes[r2]); j++ {
					cand := insertAt(s.routes[r2], x, j)
					delta := fromCost + s.routeCost(r2, cand) - s.cost[r1] - s.cost[r2]
					if delta < -epsilon && s.m.RouteFeasible(r2, cand) {
						s.apply(r1, from)
						s.apply(r2, cand)
						return true
					}
				}
			}
		}
	}
	return false
}

// exchange swaps two visits, within one route or across two.
func (s *search) exchange() bool {
	for r1 := range s.routes {
		for i, x := range s.routes[r1] {
			if s.expired() {
				return false
			}
			for r2 := r1; r2 < s.nv; r2++ {
				if r2 == r1 {
					for j := i + 1; j < len(s.routes[r1]); j++ {
						cand := replaceAt(s.routes[r1], i, s.routes[r1][j])
						cand[j] = x
						if s.routeCost(r1, cand)-s.cost[r1] < -epsilon && s.m.RouteFeasible(r1, cand) {
							s.apply(r1, cand)
							return true
						}
					}
					continue
				}
				for j, y := range s.routes[r2] {
					a := replaceAt(s.routes[r1], i, y)
					b := replaceAt(s.routes[r2], j, x)
					delta := s.routeCost(r1, a) + s.routeCost(r2, b) - s.cost[r1] - s.cost[r2]
					if delta < -epsilon && s.m.RouteFeasible(r1, a) && s.m.RouteFeasible(r2, b) {
						s.apply(r1, a)
						s.apply(r2, b)
						return true
					}
				}
			}
		}
	}
	return false
}

// twoOpt reverses a segment of a single route.
func (s *search) twoOpt() bool {
	for v, r := range s.routes {
		for i := 0; i+1 < len(r); i++ {
			if s.expired() {
				return false
			}
			for k := i + 1; k < len(r); k++ {
				cand := twoOptSwap(r, i, k)
				if s.routeCost(v, cand)-s.cost[v] < -epsilon && s.m.RouteFeasible(v, cand) {
					s.apply(v, cand)
					return true
				}
			}
		}
	}
	return false
}

// guidedLocalSearch alternates descents with penalizing the arcs of maximum
// utility in the current local optimum. It returns the best routes seen by
// true objective.
func (s *search) guidedLocalSearch(stallLimit int, best [][]int, bestCost int64) ([][]int, int64) {
	s.penalties = make(map[arc]int)
	stall := 0
	for !s.expired() {
		s.iterations++
		s.descend()
		if c := s.objective(); c < bestCost {
			best, bestCost = cloneRoutes(s.routes), c
			s.improvements++
			stall = 0
		} else {
			stall++
		}
		if stall >= stallLimit || bestCost == 0 {
			break
		}
		if s.lambda == 0 {
			arcs := s.arcCount()
			if arcs == 0 {
				break
			}
			s.lambda = penaltyFactor * float64(s.objective()) / float64(arcs)
			if s.lambda == 0 {
				break
			}
		}
		s.penalize()
	}
	return best, bestCost
}

func (s *search) arcCount() int {
	n := 0
	for _, r := range s.routes {
		if len(r) > 0 {
			n += len(r) + 1
		}
	}
	return n
}

// penalize increments the penalty of every arc in the current solution whose
// utility cost/(1+penalty) is maximal.
func (s *search) penalize() {
	var top []arc
	best := -1.0
	for v, r := range s.routes {
		if len(r) == 0 {
			continue
		}
		s.eachArc(v, r, func(a arc) {
			u := float64(s.m.ArcCostForVehicle(a.from, a.to, v)) / float64(1+s.penalties[a])
			switch {
			case u > best+epsilon:
				best = u
				top = append(top[:0], a)
			case u > best-epsilon:
				top = append(top, a)
			}
		})
	}
	for _, a := range top {
		s.penalties[a]++
	}
}
