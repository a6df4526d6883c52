package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/usgflow/matrix"
)

// flows returns a 3×3 matrix with distinct entries.
func flows(t *testing.T) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(3, 3)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.NoError(t, m.Set(i, j, float64(i*3+j)))
		}
	}
	return m
}

func TestNewDense_BadShape(t *testing.T) {
	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-1, 2}} {
		_, err := matrix.NewDense(dims[0], dims[1])
		assert.ErrorIs(t, err, matrix.ErrBadShape)
	}
}

func TestDense_Accessors(t *testing.T) {
	m := flows(t)
	r, c := m.Shape()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)

	require.NoError(t, m.Add(1, 2, 0.5))
	require.NoError(t, m.Add(1, 2, 0.5))
	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
	assert.Equal(t, []float64{3, 4, 6}, m.Row(1))
	assert.Nil(t, m.Row(3))

	cases := []struct {
		name string
		call func() error
	}{
		{"At", func() error { _, err := m.At(3, 0); return err }},
		{"Set", func() error { return m.Set(0, -1, 1) }},
		{"Add", func() error { return m.Add(5, 5, 1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), matrix.ErrOutOfRange)
		})
	}

	clone := m.Clone()
	require.NoError(t, clone.Set(0, 0, 99))
	v, _ = m.At(0, 0)
	assert.Zero(t, v, "clone is independent")
	assert.Equal(t, "[0, 1, 2]\n[3, 4, 6]\n[6, 7, 8]\n", m.String())
}

func TestKernels(t *testing.T) {
	m := flows(t)

	tr, err := matrix.Transpose(m)
	require.NoError(t, err)
	net, err := matrix.Sub(m, tr)
	require.NoError(t, err)
	// net flow is antisymmetric
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a, _ := net.At(i, j)
			b, _ := net.At(j, i)
			assert.Equal(t, -a, b)
		}
	}

	rows, err := matrix.RowSums(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 12, 21}, rows)
	cols, err := matrix.ColSums(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 12, 15}, cols)

	half, err := matrix.Scale(m, 0.5)
	require.NoError(t, err)
	v, _ := half.At(2, 2)
	assert.Equal(t, 4.0, v)

	ok, err := matrix.AllClose(m, m.Clone(), 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = matrix.AllClose(m, half, 1e-9, 1e-9)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKernels_Errors(t *testing.T) {
	a := flows(t)
	b, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	_, err = matrix.Sub(a, b)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.AllClose(a, b, 0, 0)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Transpose(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = matrix.RowSums(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}
