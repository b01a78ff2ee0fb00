package routing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexManagerRoundTrip(t *testing.T) {
	m, err := NewIndexManager(4, []int{0}, []int{0})
	require.NoError(t, err)

	assert.Equal(t, 5, m.NumIndices())
	assert.Equal(t, 0, m.Start(0))
	assert.Equal(t, 4, m.End(0))
	assert.Equal(t, 0, m.IndexToNode(m.End(0)))
	assert.Equal(t, []int{1, 2, 3}, m.VisitIndices())
	assert.True(t, m.IsStart(0))
	assert.True(t, m.IsEnd(4))
	assert.False(t, m.IsDepot(2))
	assert.Equal(t, -1, m.VehicleOf(2))
	assert.Equal(t, 0, m.VehicleOf(4))
}

func TestIndexManagerSharedDepot(t *testing.T) {
	m, err := NewIndexManager(3, []int{0, 0}, []int{0, 0})
	require.NoError(t, err)

	// locations + 2*vehicles - unique depots
	assert.Equal(t, 6, m.NumIndices())
	assert.Equal(t, 0, m.Start(0))
	assert.Equal(t, 3, m.Start(1))
	assert.Equal(t, 0, m.IndexToNode(m.Start(1)))
	assert.NotEqual(t, m.End(0), m.End(1))
	assert.Equal(t, 1, m.VehicleOf(m.Start(1)))
	assert.Equal(t, []int{1, 2}, m.VisitIndices())
}

func TestIndexManagerAsymmetricEnds(t *testing.T) {
	m, err := NewIndexManager(4, []int{0}, []int{3})
	require.NoError(t, err)

	assert.Equal(t, 4, m.NumIndices())
	assert.Equal(t, m.End(0), m.NodeToIndex(3))
	assert.Equal(t, []int{1, 2}, m.VisitIndices())
}

func TestIndexManagerCoversEveryLocationOnce(t *testing.T) {
	cases := []struct {
		name   string
		n      int
		starts []int
		ends   []int
	}{
		{"round trip", 5, []int{0}, []int{0}},
		{"shared depot", 5, []int{0, 0, 0}, []int{0, 0, 0}},
		{"distinct depots", 6, []int{0, 1}, []int{2, 3}},
		{"crossed depots", 4, []int{0, 1}, []int{1, 0}},
		{"end only", 3, []int{0, 0}, []int{2, 2}},
		{"single location", 1, []int{0}, []int{0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewIndexManager(tc.n, tc.starts, tc.ends)
			require.NoError(t, err)
			seen := map[int]bool{}
			for loc := 0; loc < tc.n; loc++ {
				idx := m.NodeToIndex(loc)
				require.GreaterOrEqual(t, idx, 0)
				assert.Equal(t, loc, m.IndexToNode(idx))
				assert.False(t, seen[idx], "index %d shared by two locations", idx)
				seen[idx] = true
			}
			for v := range tc.starts {
				assert.Equal(t, tc.starts[v], m.IndexToNode(m.Start(v)))
				assert.Equal(t, tc.ends[v], m.IndexToNode(m.End(v)))
			}
		})
	}
}

func TestIndexManagerRejectsOutOfRange(t *testing.T) {
	var cfgErr *ConfigurationError

	_, err := NewIndexManager(2, []int{2}, []int{0})
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))

	_, err = NewIndexManager(2, []int{0}, []int{-1})
	assert.True(t, errors.As(err, &cfgErr))

	_, err = NewIndexManager(0, []int{0}, []int{0})
	assert.True(t, errors.As(err, &cfgErr))

	_, err = NewIndexManager(2, []int{0, 1}, []int{0})
	assert.True(t, errors.As(err, &cfgErr))
}
