// Package optimize assembles optimization requests into routing problems,
// runs the solver and renders the result.
package optimize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tmsopt/internal/metrics"
	"tmsopt/internal/model"
	"tmsopt/internal/routing"
	"tmsopt/internal/store"
)

// EventSink receives one event per solved or infeasible request.
type EventSink interface {
	Emit(ctx context.Context, ev model.Event)
}

// Service runs optimizations. Store and Sinks are optional.
type Service struct {
	Solver routing.Solver
	Store  store.Store
	Sinks  []EventSink
	Log    zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewService(solver routing.Solver, st store.Store, log zerolog.Logger, sinks ...EventSink) *Service {
	return &Service{
		Solver: solver,
		Store:  st,
		Sinks:  sinks,
		Log:    log,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Optimize validates req, solves it and returns the response. Errors are a
// *routing.ValidationError, a *routing.InfeasibleError, a
// *routing.ConfigurationError, or a solver/context failure.
func (s *Service) Optimize(ctx context.Context, req *model.OptimizeRequest) (*model.OptimizeResponse, error) {
	p, err := ToProblem(req)
	if err != nil {
		metrics.Optimizations.WithLabelValues("invalid").Inc()
		return nil, err
	}
	requestID := s.newID()
	log := s.Log.With().Str("request_id", requestID).Int("vehicles", len(p.Vehicles)).Int("jobs", len(p.Jobs)).Logger()

	m, err := routing.NewModel(p)
	if err != nil {
		metrics.Optimizations.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("build routing model")
		return nil, err
	}

	params := p.Options.SearchParameters()
	start := time.Now()
	a, err := s.Solver.Solve(ctx, m, params)
	elapsed := time.Since(start)
	metrics.SolveDuration.WithLabelValues(params.FirstSolution.String(), params.Metaheuristic.String()).Observe(elapsed.Seconds())
	if err != nil {
		if !errors.Is(err, routing.ErrNoSolution) {
			metrics.Optimizations.WithLabelValues("error").Inc()
			log.Error().Err(err).Dur("elapsed", elapsed).Msg("solver failed")
			return nil, fmt.Errorf("solve: %w", err)
		}
		metrics.Optimizations.WithLabelValues(model.RunInfeasible).Inc()
		log.Info().Err(err).Dur("elapsed", elapsed).Msg("optimization infeasible")
		run := model.Run{
			RequestID: requestID,
			Status:    model.RunInfeasible,
			Vehicles:  len(p.Vehicles),
			Jobs:      len(p.Jobs),
			SolveMs:   elapsed.Milliseconds(),
			Error:     err.Error(),
			CreatedAt: s.now(),
		}
		s.record(ctx, log, run, model.EventOptimizationFailed)
		return nil, &routing.InfeasibleError{Reason: err.Error(), Err: err}
	}

	sol, err := routing.Extract(m, a)
	if err != nil {
		metrics.Optimizations.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("extract solution")
		return nil, err
	}
	resp := ToResponse(sol, requestID)

	metrics.Optimizations.WithLabelValues(model.RunOptimal).Inc()
	metrics.SearchIterations.Observe(float64(a.Stats.Iterations))
	log.Info().
		Int64("objective", a.Objective()).
		Int("iterations", a.Stats.Iterations).
		Int("routes", len(resp.Routes)).
		Int64("total_distance", resp.TotalDistance).
		Int64("total_duration", resp.TotalDuration).
		Dur("elapsed", elapsed).
		Msg("optimization solved")

	run := model.Run{
		RequestID:     requestID,
		Status:        model.RunOptimal,
		Vehicles:      len(p.Vehicles),
		Jobs:          len(p.Jobs),
		Routes:        resp.Routes,
		TotalDistance: resp.TotalDistance,
		TotalDuration: resp.TotalDuration,
		Objective:     a.Objective(),
		Iterations:    a.Stats.Iterations,
		SolveMs:       elapsed.Milliseconds(),
		CreatedAt:     s.now(),
	}
	s.record(ctx, log, run, model.EventOptimizationCompleted)
	return resp, nil
}

// record persists the run and fans the event out. Neither can fail the request.
func (s *Service) record(ctx context.Context, log zerolog.Logger, run model.Run, eventType string) {
	// The request context may be cancelled as soon as the response is written.
	ctx = context.WithoutCancel(ctx)
	if s.Store != nil {
		if err := s.Store.SaveRun(ctx, run); err != nil {
			log.Error().Err(err).Msg("save run")
		}
	}
	ev := model.Event{
		ID:        s.newID(),
		Type:      eventType,
		RequestID: run.RequestID,
		Time:      run.CreatedAt,
		Data:      summary(run),
	}
	for _, sink := range s.Sinks {
		sink.Emit(ctx, ev)
	}
}

// RunSummary is the event payload: the run without its routes.
type RunSummary struct {
	Status        string `json:"status"`
	Vehicles      int    `json:"vehicles"`
	Jobs          int    `json:"jobs"`
	Routes        int    `json:"routes"`
	TotalDistance int64  `json:"total_distance"`
	TotalDuration int64  `json:"total_duration"`
	Objective     int64  `json:"objective"`
	SolveMs       int64  `json:"solve_ms"`
	Error         string `json:"error,omitempty"`
}

func summary(r model.Run) RunSummary {
	return RunSummary{
		Status:        r.Status,
		Vehicles:      r.Vehicles,
		Jobs:          r.Jobs,
		Routes:        len(r.Routes),
		TotalDistance: r.TotalDistance,
		TotalDuration: r.TotalDuration,
		Objective:     r.Objective,
		SolveMs:       r.SolveMs,
		Error:         r.Error,
	}
}
