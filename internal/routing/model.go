package routing

// Model is the per-request routing model: the index space, the lookup tables
// derived from the problem, and the registered dimensions. It is built once
// per solve and shared read-only by the solver and the extractor.
type Model struct {
	problem *Problem
	manager *IndexManager

	// Indexed by location.
	demandByNode  []int64
	serviceByNode []int64
	jobByNode     []int

	fixedCost int64
	dims      [numDimensionKinds]*Dimension
}

// NewModel maps the problem into the solver index space and registers its
// cost structure. The problem must already be validated; bad depot indices
// surface as a ConfigurationError.
func NewModel(p *Problem) (*Model, error) {
	starts := make([]int, len(p.Vehicles))
	ends := make([]int, len(p.Vehicles))
	for v, veh := range p.Vehicles {
		starts[v] = veh.Start
		ends[v] = veh.EndLocation()
	}
	manager, err := NewIndexManager(p.NumLocations(), starts, ends)
	if err != nil {
		return nil, err
	}

	n := p.NumLocations()
	m := &Model{
		problem:       p,
		manager:       manager,
		demandByNode:  make([]int64, n),
		serviceByNode: make([]int64, n),
		jobByNode:     make([]int, n),
	}
	for i := range m.jobByNode {
		m.jobByNode[i] = -1
	}
	// Later jobs at the same location overwrite earlier ones.
	for ji, j := range p.Jobs {
		if j.Location < 0 || j.Location >= n {
			return nil, &ConfigurationError{Msg: "job " + j.ID + " location outside matrix"}
		}
		m.jobByNode[j.Location] = ji
		m.serviceByNode[j.Location] = j.Service
		m.demandByNode[j.Location] = 0
		if j.Demand != nil {
			m.demandByNode[j.Location] = *j.Demand
		}
	}
	// Cost shaping only: it does not cap the number of vehicles used.
	if p.Options.MaxVehicles != nil {
		m.fixedCost = 1
	}
	m.registerDimensions()
	return m, nil
}

// Problem returns the instance the model was built from.
func (m *Model) Problem() *Problem { return m.problem }

// Manager returns the model's index space.
func (m *Model) Manager() *IndexManager { return m.manager }

// NumVehicles is the number of vehicles in the model.
func (m *Model) NumVehicles() int { return m.manager.NumVehicles() }

// travel is the matrix lookup behind both the arc cost and the time transit.
// Every arc, including the one into a vehicle's end, costs its matrix entry.
func (m *Model) travel(from, to int) int64 {
	return m.problem.Matrix[m.manager.IndexToNode(from)][m.manager.IndexToNode(to)]
}

// ArcCost is the distance transit used as the arc cost of every vehicle.
func (m *Model) ArcCost(from, to int) int64 { return m.travel(from, to) }

// ArcCostForVehicle is the arc cost attributed to vehicle v. Costs do not vary
// per vehicle.
func (m *Model) ArcCostForVehicle(from, to, _ int) int64 { return m.ArcCost(from, to) }

// FixedCost is charged once for every vehicle that leaves its start.
func (m *Model) FixedCost(_ int) int64 { return m.fixedCost }

// Dimension returns the registered dimension of kind k.
func (m *Model) Dimension(k DimensionKind) (*Dimension, bool) {
	if k < 0 || k >= numDimensionKinds {
		return nil, false
	}
	d := m.dims[k]
	return d, d != nil
}

// Dimensions lists the registered dimensions in kind order.
func (m *Model) Dimensions() []*Dimension {
	out := make([]*Dimension, 0, numDimensionKinds)
	for _, d := range m.dims {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// Demand is the load picked up when leaving index. End indices carry none.
func (m *Model) Demand(index int) int64 {
	if m.manager.IsEnd(index) {
		return 0
	}
	return m.demandByNode[m.manager.IndexToNode(index)]
}

// ServiceTime is the time spent at index before departing. End indices carry
// none.
func (m *Model) ServiceTime(index int) int64 {
	if m.manager.IsEnd(index) {
		return 0
	}
	return m.serviceByNode[m.manager.IndexToNode(index)]
}

// JobAt returns the job served at index, if any.
func (m *Model) JobAt(index int) (Job, bool) {
	if m.manager.IsEnd(index) {
		return Job{}, false
	}
	ji := m.jobByNode[m.manager.IndexToNode(index)]
	if ji < 0 {
		return Job{}, false
	}
	return m.problem.Jobs[ji], true
}

// path expands a vehicle's visit sequence with its start and end indices.
func (m *Model) path(v int, visits []int) []int {
	out := make([]int, 0, len(visits)+2)
	out = append(out, m.manager.Start(v))
	out = append(out, visits...)
	return append(out, m.manager.End(v))
}

// RouteCost is the objective contribution of vehicle v serving visits in order.
// An empty route costs nothing.
func (m *Model) RouteCost(v int, visits []int) int64 {
	if len(visits) == 0 {
		return 0
	}
	p := m.path(v, visits)
	cost := m.FixedCost(v)
	for i := 1; i < len(p); i++ {
		cost += m.ArcCostForVehicle(p[i-1], p[i], v)
	}
	return cost
}

// RouteFeasible reports whether every registered dimension stays within its
// bounds at every prefix of the route.
func (m *Model) RouteFeasible(v int, visits []int) bool {
	p := m.path(v, visits)
	for _, d := range m.Dimensions() {
		var cumul int64
		limit := d.Capacity(v)
		for i := 1; i < len(p); i++ {
			cumul += d.Transit(p[i-1], p[i])
			if cumul < 0 || cumul > limit {
				return false
			}
		}
	}
	return true
}
