package routing

import (
	"fmt"
	"math"
)

// TimeHorizon bounds the time dimension. It exceeds any feasible route
// duration the service accepts.
const TimeHorizon int64 = 10_000_000

// TransitFunc maps an ordered pair of solver indices to a scalar contribution.
type TransitFunc func(from, to int) int64

// DimensionKind identifies a cumulative dimension.
type DimensionKind int

const (
	DimensionCapacity DimensionKind = iota
	DimensionTime

	numDimensionKinds
)

func (k DimensionKind) String() string {
	switch k {
	case DimensionCapacity:
		return "capacity"
	case DimensionTime:
		return "time"
	default:
		return fmt.Sprintf("DimensionKind(%d)", int(k))
	}
}

// Dimension is a cumulative quantity tracked along each route. With zero slack
// the cumul at a node's successor is the node's cumul plus the transit between
// them, and every cumul must stay within [0, Capacity(v)].
type Dimension struct {
	Kind                DimensionKind
	FixStartCumulToZero bool

	transit  TransitFunc
	capacity []int64
}

// Transit evaluates the dimension's transit between two indices.
func (d *Dimension) Transit(from, to int) int64 { return d.transit(from, to) }

// Capacity is the upper bound of the dimension on vehicle v.
func (d *Dimension) Capacity(v int) int64 { return d.capacity[v] }

func newDimension(kind DimensionKind, transit TransitFunc, capacity []int64) *Dimension {
	return &Dimension{
		Kind:                kind,
		FixStartCumulToZero: true,
		transit:             transit,
		capacity:            capacity,
	}
}

// registerDimensions attaches the capacity dimension (only when some job
// declares a demand) and the time dimension.
func (m *Model) registerDimensions() {
	p := m.problem
	nv := len(p.Vehicles)

	hasDemand := false
	var totalDemand int64
	for _, j := range p.Jobs {
		if j.Demand != nil {
			hasDemand = true
		}
	}
	if hasDemand {
		for _, d := range m.demandByNode {
			if d > math.MaxInt64-totalDemand {
				totalDemand = math.MaxInt64
				break
			}
			totalDemand += d
		}
		caps := make([]int64, nv)
		for v, veh := range p.Vehicles {
			// A zero capacity counts as undeclared.
			if veh.Capacity != nil && *veh.Capacity > 0 {
				caps[v] = *veh.Capacity
			} else {
				caps[v] = totalDemand
			}
		}
		m.dims[DimensionCapacity] = newDimension(DimensionCapacity, func(from, _ int) int64 {
			return m.Demand(from)
		}, caps)
	}

	horizon := make([]int64, nv)
	for v := range horizon {
		horizon[v] = TimeHorizon
	}
	m.dims[DimensionTime] = newDimension(DimensionTime, func(from, to int) int64 {
		return m.travel(from, to) + m.ServiceTime(from)
	}, horizon)
}
