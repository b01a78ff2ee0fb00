package optimize

import (
	"fmt"
	"math"

	"tmsopt/internal/model"
	"tmsopt/internal/routing"
)

// DefaultTimeLimitMs applies when options.time_limit_ms is absent.
const DefaultTimeLimitMs = 2000

// Validate checks the request shape and every index against the matrix. It
// returns a *routing.ValidationError for the first violation found.
func Validate(req *model.OptimizeRequest) error {
	if req == nil {
		return routing.Invalid("", "request body is required")
	}
	if len(req.Vehicles) == 0 {
		return routing.Invalid("vehicles", "at least one vehicle is required")
	}
	if len(req.Jobs) == 0 {
		return routing.Invalid("jobs", "at least one job is required")
	}
	if err := validateMatrix(req.Matrix); err != nil {
		return err
	}
	n := len(req.Matrix)
	var totalDemand int64
	for i, v := range req.Vehicles {
		field := fmt.Sprintf("vehicles[%d]", i)
		if v.ID == "" {
			return routing.Invalid(field+".id", "must not be empty")
		}
		if v.Capacity != nil && *v.Capacity < 0 {
			return routing.Invalid(field+".capacity", "must be >= 0")
		}
		if v.StartIndex < 0 || v.StartIndex >= n {
			return routing.Invalid(field+".start_index", "%d outside matrix of %d locations", v.StartIndex, n)
		}
		if v.EndIndex != nil && (*v.EndIndex < 0 || *v.EndIndex >= n) {
			return routing.Invalid(field+".end_index", "%d outside matrix of %d locations", *v.EndIndex, n)
		}
	}
	for i, j := range req.Jobs {
		field := fmt.Sprintf("jobs[%d]", i)
		if j.ID == "" {
			return routing.Invalid(field+".id", "must not be empty")
		}
		if j.LocationIndex == nil {
			return routing.Invalid(field+".location_index", "is required")
		}
		if *j.LocationIndex < 0 || *j.LocationIndex >= n {
			return routing.Invalid(field+".location_index", "%d outside matrix of %d locations", *j.LocationIndex, n)
		}
		if j.Demand != nil && *j.Demand < 0 {
			return routing.Invalid(field+".demand", "must be >= 0")
		}
		if j.Service < 0 {
			return routing.Invalid(field+".service", "must be >= 0")
		}
		if j.Demand != nil {
			if *j.Demand > math.MaxInt64-totalDemand {
				return routing.Invalid(field+".demand", "total demand overflows")
			}
			totalDemand += *j.Demand
		}
	}
	return validateOptions(req.Options)
}

func validateMatrix(m [][]int64) error {
	if len(m) == 0 {
		return routing.Invalid("matrix", "must not be empty")
	}
	width := len(m[0])
	if width < len(m) {
		return routing.Invalid("matrix", "rows have %d columns, need at least %d", width, len(m))
	}
	for i, row := range m {
		if len(row) != width {
			return routing.Invalid(fmt.Sprintf("matrix[%d]", i), "has %d columns, expected %d", len(row), width)
		}
		for j, d := range row {
			if d < 0 {
				return routing.Invalid(fmt.Sprintf("matrix[%d][%d]", i, j), "must be >= 0")
			}
		}
	}
	return nil
}

func validateOptions(o *model.Options) error {
	if o == nil {
		return nil
	}
	if o.TimeLimitMs != nil {
		// Compared in milliseconds so huge values cannot overflow a Duration.
		ms := int64(*o.TimeLimitMs)
		if ms < routing.MinTimeLimit.Milliseconds() {
			return routing.Invalid("options.time_limit_ms", "must be >= %d", routing.MinTimeLimit.Milliseconds())
		}
		if ms > routing.MaxTimeLimit.Milliseconds() {
			return routing.Invalid("options.time_limit_ms", "must be <= %d", routing.MaxTimeLimit.Milliseconds())
		}
	}
	if o.MaxVehicles != nil && *o.MaxVehicles < 1 {
		return routing.Invalid("options.max_vehicles", "must be >= 1")
	}
	if _, err := routing.ParseFirstSolutionStrategy(o.FirstSolutionStrategy); err != nil {
		return routing.Invalid("options.first_solution_strategy", "%v", err)
	}
	if _, err := routing.ParseMetaheuristic(o.LocalSearchMetaheuristic); err != nil {
		return routing.Invalid("options.local_search_metaheuristic", "%v", err)
	}
	return nil
}
