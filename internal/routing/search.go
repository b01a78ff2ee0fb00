package routing

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// FirstSolutionStrategy selects how the solver builds its initial assignment.
// The zero value is PathCheapestArc.
type FirstSolutionStrategy int

const (
	PathCheapestArc FirstSolutionStrategy = iota
	ParallelCheapestInsertion
)

var firstSolutionNames = map[FirstSolutionStrategy]string{
	PathCheapestArc:           "PATH_CHEAPEST_ARC",
	ParallelCheapestInsertion: "PARALLEL_CHEAPEST_INSERTION",
}

func (s FirstSolutionStrategy) String() string {
	if n, ok := firstSolutionNames[s]; ok {
		return n
	}
	return fmt.Sprintf("FirstSolutionStrategy(%d)", int(s))
}

// ParseFirstSolutionStrategy accepts the names printed by String, case-insensitively.
// An empty string yields the default.
func ParseFirstSolutionStrategy(s string) (FirstSolutionStrategy, error) {
	if strings.TrimSpace(s) == "" {
		return PathCheapestArc, nil
	}
	for k, n := range firstSolutionNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown first solution strategy %q", s)
}

// Metaheuristic selects the local-search strategy. The zero value is
// GuidedLocalSearch.
type Metaheuristic int

const (
	GuidedLocalSearch Metaheuristic = iota
	GreedyDescent
)

var metaheuristicNames = map[Metaheuristic]string{
	GuidedLocalSearch: "GUIDED_LOCAL_SEARCH",
	GreedyDescent:     "GREEDY_DESCENT",
}

func (m Metaheuristic) String() string {
	if n, ok := metaheuristicNames[m]; ok {
		return n
	}
	return fmt.Sprintf("Metaheuristic(%d)", int(m))
}

// ParseMetaheuristic accepts the names printed by String, case-insensitively.
// An empty string yields the default.
func ParseMetaheuristic(s string) (Metaheuristic, error) {
	if strings.TrimSpace(s) == "" {
		return GuidedLocalSearch, nil
	}
	for k, n := range metaheuristicNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown local search metaheuristic %q", s)
}

// SearchParameters is the opaque configuration handed to a Solver.
type SearchParameters struct {
	FirstSolution FirstSolutionStrategy
	Metaheuristic Metaheuristic
	TimeLimit     time.Duration
}

// DefaultSearchParameters mirrors the service defaults.
func DefaultSearchParameters() SearchParameters {
	return SearchParameters{
		FirstSolution: PathCheapestArc,
		Metaheuristic: GuidedLocalSearch,
		TimeLimit:     2 * time.Second,
	}
}

// SearchParameters derives the solver parameters from the caller's options.
func (o SearchOptions) SearchParameters() SearchParameters {
	p := DefaultSearchParameters()
	p.FirstSolution = o.FirstSolution
	p.Metaheuristic = o.Metaheuristic
	if o.TimeLimit > 0 {
		p.TimeLimit = o.TimeLimit
	}
	return p
}

// Solver is the external search capability. Implementations must return
// ErrNoSolution (possibly wrapped) when no feasible assignment was found
// within params.TimeLimit.
type Solver interface {
	Solve(ctx context.Context, m *Model, params SearchParameters) (*Assignment, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, m *Model, params SearchParameters) (*Assignment, error)

func (f SolverFunc) Solve(ctx context.Context, m *Model, params SearchParameters) (*Assignment, error) {
	return f(ctx, m, params)
}
