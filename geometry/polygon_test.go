package geometry_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/usgflow/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//----------------------------------------------------------------------------//
// Orientation
//----------------------------------------------------------------------------//

// TestIsClockwise_KnownQuad checks the reference counter-clockwise quadrilateral.
func TestIsClockwise_KnownQuad(t *testing.T) {
	xs := []float64{20.0000, 18.9394, 21.9192, 22.2834}
	ys := []float64{30.0000, 25.9806, 25.3013, 27.5068}
	if geometry.IsClockwise(xs, ys) {
		t.Fatal("IsClockwise(ccw quad) = true; want false")
	}

	// Same ring reversed must flip.
	rx := []float64{22.2834, 21.9192, 18.9394, 20.0000}
	ry := []float64{27.5068, 25.3013, 25.9806, 30.0000}
	if !geometry.IsClockwise(rx, ry) {
		t.Fatal("IsClockwise(reversed quad) = false; want true")
	}
}

func TestSignedArea(t *testing.T) {
	cases := []struct {
		name   string
		xs, ys []float64
		want   float64
	}{
		{"UnitSquareCCW", []float64{0, 1, 1, 0}, []float64{0, 0, 1, 1}, 1},
		{"UnitSquareCW", []float64{0, 0, 1, 1}, []float64{0, 1, 1, 0}, -1},
		{"ExplicitClose", []float64{0, 1, 1, 0, 0}, []float64{0, 0, 1, 1, 0}, 1},
		{"Collinear", []float64{0, 1, 2}, []float64{0, 1, 2}, 0},
		{"TooFew", []float64{0, 1}, []float64{0, 1}, 0},
		{"Mismatch", []float64{0, 1, 1}, []float64{0, 1}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, geometry.SignedArea(tc.xs, tc.ys), 1e-12)
		})
	}
}

// TestIsClockwise_Degenerate documents that zero-area rings report false.
func TestIsClockwise_Degenerate(t *testing.T) {
	assert.False(t, geometry.IsClockwise([]float64{0, 1, 2}, []float64{0, 0, 0}))
}

func TestCentroid(t *testing.T) {
	sq := geometry.Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	c := geometry.Centroid(sq)
	assert.InDelta(t, 1.0, c.X, 1e-12)
	assert.InDelta(t, 1.0, c.Y, 1e-12)

	// L-shape: area-weighted, not the vertex mean.
	l := geometry.Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}}
	c = geometry.Centroid(l)
	assert.InDelta(t, 5.0/6.0, c.X, 1e-12)
	assert.InDelta(t, 5.0/6.0, c.Y, 1e-12)

	// Degenerate falls back to the vertex mean.
	c = geometry.Centroid(geometry.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}})
	assert.InDelta(t, 1.0, c.X, 1e-12)

	c = geometry.Centroid(nil)
	assert.True(t, math.IsNaN(c.X))
}

//----------------------------------------------------------------------------//
// Edge sharing
//----------------------------------------------------------------------------//

// TestSharesEdge covers rook adjacency and the queen-move rejection.
//
//	0───1───2
//	│ A │ B │
//	3───4───5
//	│ C │ D │
//	6───7───8
func TestSharesEdge(t *testing.T) {
	a := []int{0, 1, 4, 3}
	b := []int{1, 2, 5, 4}
	c := []int{3, 4, 7, 6}
	d := []int{4, 5, 8, 7}

	cases := []struct {
		name string
		x, y []int
		want bool
	}{
		{"AB_Rook", a, b, true},
		{"AC_Rook", a, c, true},
		{"AD_Queen", a, d, false},
		{"BC_Queen", b, c, false},
		{"Self", a, a, true},
		{"OppositeWinding", a, []int{4, 5, 2, 1}, true},
		{"ExplicitClose", []int{0, 1, 4, 3, 0}, []int{3, 4, 7, 6, 3}, true},
		{"Empty", nil, a, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := geometry.SharesEdge(tc.x, tc.y); got != tc.want {
				t.Errorf("SharesEdge(%v,%v) = %v; want %v", tc.x, tc.y, got, tc.want)
			}
			if got := geometry.SharesEdge(tc.y, tc.x); got != tc.want {
				t.Errorf("SharesEdge is not symmetric for %v,%v", tc.y, tc.x)
			}
		})
	}
}

func TestSharedEdge_ReturnsSortedPair(t *testing.T) {
	v1, v2, ok := geometry.SharedEdge([]int{0, 1, 4, 3}, []int{1, 2, 5, 4})
	require.True(t, ok)
	assert.Equal(t, 1, v1)
	assert.Equal(t, 4, v2)
}

// TestSharesEdge_RepeatedVertex makes sure a collapsed edge is never shared.
func TestSharesEdge_RepeatedVertex(t *testing.T) {
	assert.False(t, geometry.SharesEdge([]int{0, 1, 1, 2}, []int{1, 1, 5}))
}

//----------------------------------------------------------------------------//
// Clipping
//----------------------------------------------------------------------------//

func TestOverlapArea(t *testing.T) {
	unit := geometry.Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	cases := []struct {
		name string
		b    geometry.Polygon
		want float64
	}{
		{"Identical", unit, 1},
		{"HalfShift", geometry.Polygon{{X: 0.5, Y: 0}, {X: 1.5, Y: 0}, {X: 1.5, Y: 1}, {X: 0.5, Y: 1}}, 0.5},
		{"QuarterCorner", geometry.Polygon{{X: 0.5, Y: 0.5}, {X: 1.5, Y: 0.5}, {X: 1.5, Y: 1.5}, {X: 0.5, Y: 1.5}}, 0.25},
		{"EdgeTouchOnly", geometry.Polygon{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}}, 0},
		{"Disjoint", geometry.Polygon{{X: 3, Y: 3}, {X: 4, Y: 3}, {X: 4, Y: 4}, {X: 3, Y: 4}}, 0},
		{"ClockwiseClip", geometry.Polygon{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}, 1},
		{"Contained", geometry.Polygon{{X: 0.25, Y: 0.25}, {X: 0.75, Y: 0.25}, {X: 0.75, Y: 0.75}, {X: 0.25, Y: 0.75}}, 0.25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, geometry.OverlapArea(unit, tc.b), 1e-12)
			assert.InDelta(t, tc.want, geometry.OverlapArea(tc.b, unit), 1e-12)
		})
	}
}

// TestOverlapArea_NonConvex forces the triangulation path on both sides.
func TestOverlapArea_NonConvex(t *testing.T) {
	l1 := geometry.Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}}
	l2 := geometry.Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}}
	require.False(t, geometry.IsConvex(l1))
	assert.InDelta(t, 3.0, geometry.OverlapArea(l1, l2), 1e-9)
}

func TestTriangulate(t *testing.T) {
	l := geometry.Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}}
	tris := geometry.Triangulate(l)
	require.Len(t, tris, 4)
	var sum float64
	for _, tri := range tris {
		sum += geometry.Area(tri)
	}
	assert.InDelta(t, 3.0, sum, 1e-12)
}
