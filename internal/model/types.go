package model

import "time"

// Wire types for the optimization API. Optional inputs are pointers so that
// "absent" can be told apart from zero.

type Vehicle struct {
	ID         string `json:"id"`
	Capacity   *int64 `json:"capacity,omitempty"`
	StartIndex int    `json:"start_index"`
	EndIndex   *int   `json:"end_index,omitempty"`
}

type Job struct {
	ID            string `json:"id"`
	Demand        *int64 `json:"demand,omitempty"`
	LocationIndex *int   `json:"location_index"`
	Service       int64  `json:"service"`
}

type Options struct {
	TimeLimitMs              *int   `json:"time_limit_ms,omitempty"`
	MaxVehicles              *int   `json:"max_vehicles,omitempty"`
	ReturnToDepot            *bool  `json:"return_to_depot,omitempty"`
	FirstSolutionStrategy    string `json:"first_solution_strategy,omitempty"`
	LocalSearchMetaheuristic string `json:"local_search_metaheuristic,omitempty"`
}

type OptimizeRequest struct {
	Vehicles []Vehicle `json:"vehicles"`
	Jobs     []Job     `json:"jobs"`
	Matrix   [][]int64 `json:"matrix"`
	Options  *Options  `json:"options,omitempty"`
}

type Stop struct {
	JobID        *string `json:"job_id"`
	Index        int     `json:"index"`
	ArrivalMin   int64   `json:"arrival_min"`
	DepartureMin int64   `json:"departure_min"`
}

type Route struct {
	VehicleID string `json:"vehicle_id"`
	Stops     []Stop `json:"stops"`
	Distance  int64  `json:"distance"`
	Duration  int64  `json:"duration"`
}

const StatusOptimal = "optimal"

type OptimizeResponse struct {
	Status        string  `json:"status"`
	Routes        []Route `json:"routes"`
	TotalDistance int64   `json:"total_distance"`
	TotalDuration int64   `json:"total_duration"`
	RequestID     string  `json:"request_id"`
}

// Run statuses recorded in history.
const (
	RunOptimal    = "optimal"
	RunInfeasible = "infeasible"
)

// Run is one recorded optimization attempt.
type Run struct {
	RequestID     string    `json:"request_id"`
	Status        string    `json:"status"`
	Vehicles      int       `json:"vehicles"`
	Jobs          int       `json:"jobs"`
	Routes        []Route   `json:"routes"`
	TotalDistance int64     `json:"total_distance"`
	TotalDuration int64     `json:"total_duration"`
	Objective     int64     `json:"objective"`
	Iterations    int       `json:"iterations"`
	SolveMs       int64     `json:"solve_ms"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type RunList struct {
	Items []Run `json:"items"`
}

// Event types published on the broker and delivered as webhooks.
const (
	EventOptimizationCompleted = "optimization.completed"
	EventOptimizationFailed    = "optimization.failed"
)

type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	RequestID string    `json:"request_id"`
	Time      time.Time `json:"time"`
	Data      any       `json:"data,omitempty"`
}
