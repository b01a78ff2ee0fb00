package opt

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"tmsopt/internal/routing"
)

// DefaultStallIterations bounds how many guided local search rounds may pass
// without improving the best known objective before the search stops early.
const DefaultStallIterations = 200

// Engine is the in-process search backend. It builds a first solution with
// the requested construction heuristic and improves it with relocate,
// exchange and 2-opt moves under the requested metaheuristic, until the time
// limit, the caller's context or the stall limit ends the search.
type Engine struct {
	StallIterations int
	Log             zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithStallIterations overrides DefaultStallIterations. Non-positive values
// are ignored.
func WithStallIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.StallIterations = n
		}
	}
}

// WithLogger attaches a logger for per-solve debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.Log = l }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{StallIterations: DefaultStallIterations, Log: zerolog.Nop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

var _ routing.Solver = (*Engine)(nil)

// Solve implements routing.Solver. It returns an error wrapping
// routing.ErrNoSolution when no feasible first solution exists or the time
// limit expires before one is built.
func (e *Engine) Solve(ctx context.Context, m *routing.Model, params routing.SearchParameters) (*routing.Assignment, error) {
	start := time.Now()
	if params.TimeLimit <= 0 {
		params.TimeLimit = routing.DefaultSearchParameters().TimeLimit
	}
	ctx, cancel := context.WithTimeout(ctx, params.TimeLimit)
	defer cancel()

	s := newSearch(ctx, m)
	var ok bool
	switch params.FirstSolution {
	case routing.ParallelCheapestInsertion:
		ok = s.parallelCheapestInsertion()
	default:
		ok = s.pathCheapestArc()
	}
	if !ok {
		if s.expired() {
			return nil, fmt.Errorf("%w: time limit reached with %d visits unplaced", routing.ErrNoSolution, s.unplaced)
		}
		return nil, fmt.Errorf("%w: %d visits cannot be placed on any vehicle", routing.ErrNoSolution, s.unplaced)
	}

	best := cloneRoutes(s.routes)
	bestCost := s.objective()
	firstCost := bestCost

	switch params.Metaheuristic {
	case routing.GreedyDescent:
		s.descend()
		s.iterations = 1
		if c := s.objective(); c < bestCost {
			best, bestCost = cloneRoutes(s.routes), c
			s.improvements++
		}
	default:
		best, bestCost = s.guidedLocalSearch(e.StallIterations, best, bestCost)
	}

	a, err := routing.NewAssignment(m, best)
	if err != nil {
		return nil, err
	}
	a.Stats = routing.SearchStats{
		Objective:     a.Objective(),
		Iterations:    s.iterations,
		Improvements:  s.improvements,
		FirstSolution: params.FirstSolution,
		Metaheuristic: params.Metaheuristic,
		WallTime:      time.Since(start),
	}
	e.Log.Debug().
		Str("first_solution", params.FirstSolution.String()).
		Str("metaheuristic", params.Metaheuristic.String()).
		Int64("first_objective", firstCost).
		Int64("objective", a.Objective()).
		Int("iterations", s.iterations).
		Int("improvements", s.improvements).
		Dur("elapsed", a.Stats.WallTime).
		Msg("search finished")
	return a, nil
}
