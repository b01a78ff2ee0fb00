package routing

import "fmt"

// IndexManager maps user locations (matrix rows) to solver indices and back.
//
// Layout: every location that is some vehicle's start, or no vehicle's end,
// gets one primary index in location order. A vehicle whose start location was
// already claimed by an earlier vehicle gets a fresh start index, and every
// vehicle gets its own end index. Locations that are only ends resolve to the
// end index of the first vehicle finishing there, so each location has exactly
// one canonical index.
type IndexManager struct {
	numLocations   int
	indexToNode    []int
	nodeToIndex    []int
	vehicleStart   []int
	vehicleEnd     []int
	indexToVehicle []int
	isStart        []bool
	isEnd          []bool
}

// NewIndexManager builds the index space. starts and ends hold one location
// per vehicle.
func NewIndexManager(numLocations int, starts, ends []int) (*IndexManager, error) {
	if numLocations < 1 {
		return nil, &ConfigurationError{Msg: "at least one location is required"}
	}
	if len(starts) == 0 {
		return nil, &ConfigurationError{Msg: "at least one vehicle is required"}
	}
	if len(starts) != len(ends) {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("got %d starts and %d ends", len(starts), len(ends))}
	}
	startSet := make(map[int]struct{}, len(starts))
	endSet := make(map[int]struct{}, len(ends))
	for v := range starts {
		if starts[v] < 0 || starts[v] >= numLocations {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("vehicle %d start %d outside [0,%d)", v, starts[v], numLocations)}
		}
		if ends[v] < 0 || ends[v] >= numLocations {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("vehicle %d end %d outside [0,%d)", v, ends[v], numLocations)}
		}
		startSet[starts[v]] = struct{}{}
		endSet[ends[v]] = struct{}{}
	}

	numVehicles := len(starts)
	m := &IndexManager{
		numLocations: numLocations,
		nodeToIndex:  make([]int, numLocations),
		vehicleStart: make([]int, numVehicles),
		vehicleEnd:   make([]int, numVehicles),
	}
	add := func(node, vehicle int, start, end bool) int {
		m.indexToNode = append(m.indexToNode, node)
		m.indexToVehicle = append(m.indexToVehicle, vehicle)
		m.isStart = append(m.isStart, start)
		m.isEnd = append(m.isEnd, end)
		return len(m.indexToNode) - 1
	}

	for node := 0; node < numLocations; node++ {
		m.nodeToIndex[node] = -1
		_, s := startSet[node]
		_, e := endSet[node]
		if s || !e {
			m.nodeToIndex[node] = add(node, -1, false, false)
		}
	}
	claimed := make(map[int]bool, len(starts))
	for v, node := range starts {
		if !claimed[node] {
			claimed[node] = true
			idx := m.nodeToIndex[node]
			m.indexToVehicle[idx] = v
			m.isStart[idx] = true
			m.vehicleStart[v] = idx
			continue
		}
		m.vehicleStart[v] = add(node, v, true, false)
	}
	for v, node := range ends {
		idx := add(node, v, false, true)
		m.vehicleEnd[v] = idx
		if m.nodeToIndex[node] < 0 {
			m.nodeToIndex[node] = idx
		}
	}
	return m, nil
}

// NumIndices is the size of the solver index space.
func (m *IndexManager) NumIndices() int { return len(m.indexToNode) }

// NumLocations is the number of user locations.
func (m *IndexManager) NumLocations() int { return m.numLocations }

// NumVehicles is the number of vehicles.
func (m *IndexManager) NumVehicles() int { return len(m.vehicleStart) }

// IndexToNode returns the location of a solver index.
func (m *IndexManager) IndexToNode(index int) int { return m.indexToNode[index] }

// NodeToIndex returns the canonical solver index of a location.
func (m *IndexManager) NodeToIndex(node int) int { return m.nodeToIndex[node] }

// Start returns the start index of vehicle v.
func (m *IndexManager) Start(v int) int { return m.vehicleStart[v] }

// End returns the end index of vehicle v.
func (m *IndexManager) End(v int) int { return m.vehicleEnd[v] }

// IsStart reports whether index is some vehicle's start.
func (m *IndexManager) IsStart(index int) bool { return m.isStart[index] }

// IsEnd reports whether index is some vehicle's end.
func (m *IndexManager) IsEnd(index int) bool { return m.isEnd[index] }

// IsDepot reports whether index is any vehicle's start or end.
func (m *IndexManager) IsDepot(index int) bool { return m.isStart[index] || m.isEnd[index] }

// VehicleOf returns the vehicle owning a start or end index, or -1.
func (m *IndexManager) VehicleOf(index int) int { return m.indexToVehicle[index] }

// VisitIndices lists the indices every feasible assignment must route, in
// ascending order.
func (m *IndexManager) VisitIndices() []int {
	out := make([]int, 0, len(m.indexToNode))
	for i := range m.indexToNode {
		if !m.IsDepot(i) {
			out = append(out, i)
		}
	}
	return out
}
