package routing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestExtractSingleRoute(t *testing.T) {
	m, err := NewModel(baseProblem())
	require.NoError(t, err)
	a, err := NewAssignment(m, [][]int{{m.Manager().NodeToIndex(1)}})
	require.NoError(t, err)

	sol, err := Extract(m, a)
	require.NoError(t, err)

	want := Solution{
		Routes: []Route{{
			VehicleID: "truck-1",
			Stops: []Stop{
				{Location: 0, Arrival: 0, Departure: 0},
				{JobID: strp("stop-a"), Location: 1, Arrival: 10, Departure: 15},
				{Location: 0, Arrival: 25, Departure: 25},
			},
			Distance: 20,
			Duration: 25,
		}},
		TotalDistance: 20,
		TotalDuration: 25,
	}
	if diff := cmp.Diff(want, sol); diff != "" {
		t.Fatalf("solution mismatch (-want +got):\n%s", diff)
	}
}

func fleetProblem() *Problem {
	p := baseProblem()
	p.Matrix = [][]int64{
		{0, 4, 6, 9},
		{4, 0, 3, 7},
		{6, 3, 0, 2},
		{9, 7, 2, 0},
	}
	p.Vehicles = []Vehicle{
		{ID: "a", Capacity: i64(5), Start: 0},
		{ID: "b", Capacity: i64(5), Start: 0},
		{ID: "c", Start: 0, End: intp(3)},
	}
	p.Jobs = []Job{
		{ID: "j1", Demand: i64(2), Location: 1, Service: 3},
		{ID: "j2", Demand: i64(2), Location: 2, Service: 1},
	}
	return p
}

func TestExtractOmitsIdleVehicles(t *testing.T) {
	m, err := NewModel(fleetProblem())
	require.NoError(t, err)
	mgr := m.Manager()
	j1, j2 := mgr.NodeToIndex(1), mgr.NodeToIndex(2)

	a, err := NewAssignment(m, [][]int{{}, {j1}, {j2}})
	require.NoError(t, err)
	sol, err := Extract(m, a)
	require.NoError(t, err)

	require.Len(t, sol.Routes, 2)
	assert.Equal(t, "b", sol.Routes[0].VehicleID)
	assert.Equal(t, "c", sol.Routes[1].VehicleID)

	var dist, dur int64
	for _, r := range sol.Routes {
		dist += r.Distance
		dur += r.Duration
		first, last := r.Stops[0], r.Stops[len(r.Stops)-1]
		assert.Nil(t, first.JobID)
		assert.Nil(t, last.JobID)
		assert.Equal(t, last.Arrival, last.Departure)
		assert.Equal(t, r.Duration, last.Arrival)
		for _, s := range r.Stops {
			assert.GreaterOrEqual(t, s.Departure, s.Arrival)
			if s.JobID != nil {
				job, ok := m.JobAt(mgr.NodeToIndex(s.Location))
				require.True(t, ok)
				assert.Equal(t, job.Service, s.Departure-s.Arrival)
			}
		}
	}
	assert.Equal(t, dist, sol.TotalDistance)
	assert.Equal(t, dur, sol.TotalDuration)

	// Vehicle c: 0 -> 2 -> 3.
	assert.Equal(t, int64(8), sol.Routes[1].Distance)
	assert.Equal(t, 3, sol.Routes[1].Stops[2].Location)
	assert.Equal(t, int64(9), sol.Routes[1].Duration)
}

func TestExtractAllIdle(t *testing.T) {
	p := fleetProblem()
	// Only depots: nothing to visit.
	p.Matrix = [][]int64{{0}}
	p.Jobs = nil
	p.Vehicles = []Vehicle{{ID: "a", Start: 0}}
	m, err := NewModel(p)
	require.NoError(t, err)
	a, err := NewAssignment(m, [][]int{{}})
	require.NoError(t, err)

	sol, err := Extract(m, a)
	require.NoError(t, err)
	assert.Empty(t, sol.Routes)
	assert.Zero(t, sol.TotalDistance)
}
