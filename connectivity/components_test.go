package connectivity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/usgflow/connectivity"
	"github.com/katalvlaran/usgflow/grid"
)

// TestActiveComponents walks a 2×3 layer:
//
//	1 1 0
//	0 0 1
//
// Cells 1 and 5 only share a corner, so the active cells form two regions.
func TestActiveComponents(t *testing.T) {
	g, err := grid.NewStructured(1, grid.Uniform(3, 1), grid.Uniform(2, 1))
	require.NoError(t, err)
	adj, err := connectivity.Build(g)
	require.NoError(t, err)

	cases := []struct {
		name   string
		active []bool
		want   [][]int
	}{
		{"all active", nil, [][]int{{0, 1, 2, 3, 4, 5}}},
		{"corner touch", []bool{true, true, false, false, false, true}, [][]int{{0, 1}, {5}}},
		{"bridge", []bool{true, true, true, false, false, true}, [][]int{{0, 1, 2, 5}}},
		{"none", make([]bool, 6), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := adj.ActiveComponents(tc.active)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err = adj.ActiveComponents([]bool{true})
	assert.ErrorIs(t, err, connectivity.ErrInvariant)
}
