package optimize

import (
	"time"

	"tmsopt/internal/model"
	"tmsopt/internal/routing"
)

// ToProblem validates req and converts it into a routing problem with all
// defaults resolved.
func ToProblem(req *model.OptimizeRequest) (*routing.Problem, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	p := &routing.Problem{
		Vehicles: make([]routing.Vehicle, len(req.Vehicles)),
		Jobs:     make([]routing.Job, len(req.Jobs)),
		Matrix:   req.Matrix,
	}
	for i, v := range req.Vehicles {
		p.Vehicles[i] = routing.Vehicle{ID: v.ID, Capacity: v.Capacity, Start: v.StartIndex, End: v.EndIndex}
	}
	for i, j := range req.Jobs {
		p.Jobs[i] = routing.Job{ID: j.ID, Demand: j.Demand, Location: *j.LocationIndex, Service: j.Service}
	}
	p.Options = searchOptions(req.Options)
	return p, nil
}

func searchOptions(o *model.Options) routing.SearchOptions {
	out := routing.SearchOptions{
		TimeLimit:     DefaultTimeLimitMs * time.Millisecond,
		ReturnToDepot: true,
	}
	if o == nil {
		return out
	}
	if o.TimeLimitMs != nil {
		out.TimeLimit = time.Duration(*o.TimeLimitMs) * time.Millisecond
	}
	if o.ReturnToDepot != nil {
		out.ReturnToDepot = *o.ReturnToDepot
	}
	out.MaxVehicles = o.MaxVehicles
	// Already validated.
	out.FirstSolution, _ = routing.ParseFirstSolutionStrategy(o.FirstSolutionStrategy)
	out.Metaheuristic, _ = routing.ParseMetaheuristic(o.LocalSearchMetaheuristic)
	return out
}

// ToResponse renders an extracted solution on the wire.
func ToResponse(sol routing.Solution, requestID string) *model.OptimizeResponse {
	return &model.OptimizeResponse{
		Status:        model.StatusOptimal,
		Routes:        toRoutes(sol.Routes),
		TotalDistance: sol.TotalDistance,
		TotalDuration: sol.TotalDuration,
		RequestID:     requestID,
	}
}

func toRoutes(in []routing.Route) []model.Route {
	out := make([]model.Route, len(in))
	for i, r := range in {
		stops := make([]model.Stop, len(r.Stops))
		for k, s := range r.Stops {
			stops[k] = model.Stop{JobID: s.JobID, Index: s.Location, ArrivalMin: s.Arrival, DepartureMin: s.Departure}
		}
		out[i] = model.Route{VehicleID: r.VehicleID, Stops: stops, Distance: r.Distance, Duration: r.Duration}
	}
	return out
}
