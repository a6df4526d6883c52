// SPDX-License-Identifier: MIT
// Package: usgflow/grid
//
// vertices.go — tolerance-aware vertex deduplication.
//
// Points are bucketed by (⌊x/tol⌋, ⌊y/tol⌋). Two points within tol of each
// other (per axis) always fall in the same or an adjacent bucket, so probing
// the 3×3 neighbourhood finds every merge candidate. With tol == 0 only
// exactly equal coordinates merge.

package grid

import (
	"math"

	"github.com/katalvlaran/usgflow/geometry"
)

// DefaultVertexTolerance is the merge distance used when none is given.
const DefaultVertexTolerance = 1e-6

type bucket struct{ i, j int64 }

// VertexTable accumulates unique planar vertices.
type VertexTable struct {
	tol     float64
	pts     []geometry.Point
	buckets map[bucket][]int
	exact   map[geometry.Point]int
}

// NewVertexTable returns an empty table merging points closer than tol.
// A negative tol is treated as 0.
func NewVertexTable(tol float64) *VertexTable {
	if tol < 0 {
		tol = 0
	}
	t := &VertexTable{tol: tol}
	if tol == 0 {
		t.exact = make(map[geometry.Point]int)
	} else {
		t.buckets = make(map[bucket][]int)
	}
	return t
}

func (t *VertexTable) key(x, y float64) bucket {
	return bucket{int64(math.Floor(x / t.tol)), int64(math.Floor(y / t.tol))}
}

// Find returns the index of a stored vertex within tol of (x, y).
func (t *VertexTable) Find(x, y float64) (int, bool) {
	if t.exact != nil {
		i, ok := t.exact[geometry.Point{X: x, Y: y}]
		return i, ok
	}
	k := t.key(x, y)
	for di := int64(-1); di <= 1; di++ {
		for dj := int64(-1); dj <= 1; dj++ {
			for _, idx := range t.buckets[bucket{k.i + di, k.j + dj}] {
				p := t.pts[idx]
				if math.Abs(p.X-x) <= t.tol && math.Abs(p.Y-y) <= t.tol {
					return idx, true
				}
			}
		}
	}
	return 0, false
}

// Add returns the index of (x, y), inserting it when no stored vertex is
// within tolerance. The first inserted coordinates are kept.
func (t *VertexTable) Add(x, y float64) int {
	if idx, ok := t.Find(x, y); ok {
		return idx
	}
	idx := len(t.pts)
	t.pts = append(t.pts, geometry.Point{X: x, Y: y})
	if t.exact != nil {
		t.exact[geometry.Point{X: x, Y: y}] = idx
	} else {
		k := t.key(x, y)
		t.buckets[k] = append(t.buckets[k], idx)
	}
	return idx
}

// Len returns the number of unique vertices.
func (t *VertexTable) Len() int { return len(t.pts) }

// Points returns the unique vertices in insertion order.
func (t *VertexTable) Points() []geometry.Point { return t.pts }
