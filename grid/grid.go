// SPDX-License-Identifier: MIT
// Package: usgflow/grid
//
// grid.go — Grid type, validation and node/layer arithmetic.
//
// Contract:
//   • Nodes are 0-based and numbered layer by layer: layer 0 holds nodes
//     [0, NCPL[0]), layer 1 holds [NCPL[0], NCPL[0]+NCPL[1]), and so on.
//   • Layer lookups go through the cumulative offsets, never n / ncpl, so
//     layers with different cell counts resolve correctly.
//   • Vertices and IVerts are shared, not copied; callers must not mutate
//     them after New.

package grid

import (
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/usgflow/geometry"
)

// Grid is a layered unstructured grid.
type Grid struct {
	// Vertices is the deduplicated planar vertex table.
	Vertices []geometry.Point
	// IVerts[n] is the ordered vertex cycle of node n (indices into Vertices).
	IVerts [][]int
	// NCPL[k] is the number of cells in layer k.
	NCPL []int
	// Z optionally holds one elevation per node (cell centre). May be nil.
	Z []float64

	offsets   []int // len NLay+1, offsets[k] = first node of layer k
	clockwise bool

	once      sync.Once
	centroids []geometry.Point
}

// New validates and assembles a grid. z may be nil.
func New(verts []geometry.Point, iverts [][]int, ncpl []int, z []float64) (*Grid, error) {
	// 1) Shape checks.
	if len(iverts) == 0 || len(ncpl) == 0 {
		return nil, ErrEmptyGrid
	}
	offsets := make([]int, len(ncpl)+1)
	for k, n := range ncpl {
		if n < 0 {
			return nil, fmt.Errorf("layer %d has %d cells: %w", k+1, n, ErrLayerCount)
		}
		offsets[k+1] = offsets[k] + n
	}
	if offsets[len(ncpl)] != len(iverts) {
		return nil, fmt.Errorf("sum(ncpl)=%d, nodes=%d: %w", offsets[len(ncpl)], len(iverts), ErrLayerCount)
	}
	if z != nil && len(z) != len(iverts) {
		return nil, fmt.Errorf("len(z)=%d, nodes=%d: %w", len(z), len(iverts), ErrLayerCount)
	}

	g := &Grid{Vertices: verts, IVerts: iverts, NCPL: ncpl, Z: z, offsets: offsets}

	// 2) Per-cell checks: index range, distinct vertices, area, winding.
	sign := 0
	for n, cyc := range iverts {
		distinct := make(map[int]struct{}, len(cyc))
		for _, v := range cyc {
			if v < 0 || v >= len(verts) {
				return nil, fmt.Errorf("node %d vertex %d: %w", n, v, ErrVertexIndex)
			}
			distinct[v] = struct{}{}
		}
		if len(distinct) < 3 {
			return nil, fmt.Errorf("node %d has %d distinct vertices: %w", n, len(distinct), ErrDegenerateCell)
		}
		xs, ys := g.Polygon(n).XY()
		a := geometry.SignedArea(xs, ys)
		s := 1
		switch {
		case a == 0:
			return nil, fmt.Errorf("node %d has zero area: %w", n, ErrDegenerateCell)
		case a < 0:
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return nil, fmt.Errorf("node %d: %w", n, ErrOrientation)
		}
	}
	g.clockwise = sign < 0
	return g, nil
}

// NNodes returns the total number of cells.
func (g *Grid) NNodes() int { return len(g.IVerts) }

// NLay returns the number of layers.
func (g *Grid) NLay() int { return len(g.NCPL) }

// Clockwise reports the common winding of all cells.
func (g *Grid) Clockwise() bool { return g.clockwise }

// Layer returns the 0-based layer of node and its index within that layer.
// Out-of-range nodes return (-1, -1).
func (g *Grid) Layer(node int) (lay, local int) {
	if node < 0 || node >= g.NNodes() {
		return -1, -1
	}
	// First k with offsets[k+1] > node.
	lay = sort.Search(g.NLay(), func(k int) bool { return g.offsets[k+1] > node })
	return lay, node - g.offsets[lay]
}

// LayerRange returns the half-open node range [start, end) of layer lay.
func (g *Grid) LayerRange(lay int) (start, end int) {
	if lay < 0 || lay >= g.NLay() {
		return 0, 0
	}
	return g.offsets[lay], g.offsets[lay+1]
}

// Node returns the global node of (lay, local), or -1 when out of range.
func (g *Grid) Node(lay, local int) int {
	if lay < 0 || lay >= g.NLay() || local < 0 || local >= g.NCPL[lay] {
		return -1
	}
	return g.offsets[lay] + local
}

// Polygon returns the footprint of node as coordinates.
func (g *Grid) Polygon(node int) geometry.Polygon {
	cyc := g.IVerts[node]
	p := make(geometry.Polygon, len(cyc))
	for i, v := range cyc {
		p[i] = g.Vertices[v]
	}
	return p
}

// Centroid returns the planar centroid of node.
func (g *Grid) Centroid(node int) geometry.Point {
	return g.Centroids()[node]
}

// Centroids returns all cell centroids. The slice is computed once and
// shared; do not modify it.
func (g *Grid) Centroids() []geometry.Point {
	g.once.Do(func() {
		g.centroids = make([]geometry.Point, g.NNodes())
		for n := range g.IVerts {
			g.centroids[n] = geometry.Centroid(g.Polygon(n))
		}
	})
	return g.centroids
}

// CentroidXY returns the centroids as parallel coordinate slices.
func (g *Grid) CentroidXY() (xs, ys []float64) {
	c := g.Centroids()
	xs, ys = make([]float64, len(c)), make([]float64, len(c))
	for i, p := range c {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}
