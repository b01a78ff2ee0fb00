package routing

import "fmt"

// Stop is one visited index on a route. JobID is nil for depot stops and for
// locations no job claims.
type Stop struct {
	JobID     *string
	Location  int
	Arrival   int64
	Departure int64
}

// Route is the itinerary of one vehicle that left its start.
type Route struct {
	VehicleID string
	Stops     []Stop
	Distance  int64
	Duration  int64
}

// Solution is the normalized result of a solve.
type Solution struct {
	Routes        []Route
	TotalDistance int64
	TotalDuration int64
}

// Extract walks the assignment per vehicle, in declaration order, and rebuilds
// each itinerary from the successor chain. Vehicles whose start is directly
// followed by their end are omitted.
func Extract(m *Model, a *Assignment) (Solution, error) {
	mgr := m.Manager()
	if _, ok := m.Dimension(DimensionTime); !ok {
		return Solution{}, &ConfigurationError{Msg: "time dimension is not registered"}
	}
	sol := Solution{Routes: []Route{}}
	for v, veh := range m.Problem().Vehicles {
		index := mgr.Start(v)
		if mgr.IsEnd(a.Next(index)) {
			continue
		}
		route := Route{VehicleID: veh.ID}
		// Guards against a malformed successor chain looping forever.
		steps := 0
		for !mgr.IsEnd(index) {
			if steps > mgr.NumIndices() {
				return Solution{}, &ConfigurationError{Msg: fmt.Sprintf("vehicle %s successor chain does not terminate", veh.ID)}
			}
			steps++
			arrival := a.Value(DimensionTime, index)
			stop := Stop{
				Location:  mgr.IndexToNode(index),
				Arrival:   arrival,
				Departure: arrival + m.ServiceTime(index),
			}
			if job, ok := m.JobAt(index); ok {
				id := job.ID
				stop.JobID = &id
			}
			route.Stops = append(route.Stops, stop)

			next := a.Next(index)
			if next < 0 {
				return Solution{}, &ConfigurationError{Msg: fmt.Sprintf("vehicle %s route breaks at index %d", veh.ID, index)}
			}
			route.Distance += m.ArcCostForVehicle(index, next, v)
			index = next
		}
		if index != mgr.End(v) {
			return Solution{}, &ConfigurationError{Msg: fmt.Sprintf("vehicle %s ends at another vehicle's end", veh.ID)}
		}
		end := a.Value(DimensionTime, index)
		route.Stops = append(route.Stops, Stop{
			Location:  mgr.IndexToNode(index),
			Arrival:   end,
			Departure: end,
		})
		route.Duration = end

		sol.Routes = append(sol.Routes, route)
		sol.TotalDistance += route.Distance
		sol.TotalDuration += route.Duration
	}
	return sol, nil
}
