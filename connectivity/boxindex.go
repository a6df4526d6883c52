// SPDX-License-Identifier: MIT
// Package: usgflow/connectivity
//
// boxindex.go — uniform bucket index over bounding boxes.
//
// Each box is registered in every bucket it covers; a query visits the
// buckets covered by the query box and reports each candidate once.

package connectivity

import (
	"math"

	"github.com/katalvlaran/usgflow/geometry"
)

type boxIndex struct {
	minX, minY float64
	dx, dy     float64
	nx, ny     int
	buckets    [][]int
	boxes      []geometry.BBox
	stamp      []int
	epoch      int
}

func newBoxIndex(boxes []geometry.BBox) *boxIndex {
	b := &boxIndex{boxes: boxes, stamp: make([]int, len(boxes))}
	if len(boxes) == 0 {
		return b
	}
	ext := boxes[0]
	for _, bb := range boxes[1:] {
		ext.MinX = math.Min(ext.MinX, bb.MinX)
		ext.MinY = math.Min(ext.MinY, bb.MinY)
		ext.MaxX = math.Max(ext.MaxX, bb.MaxX)
		ext.MaxY = math.Max(ext.MaxY, bb.MaxY)
	}
	side := int(math.Ceil(math.Sqrt(float64(len(boxes)))))
	b.nx, b.ny = side, side
	b.minX, b.minY = ext.MinX, ext.MinY
	b.dx = (ext.MaxX - ext.MinX) / float64(side)
	b.dy = (ext.MaxY - ext.MinY) / float64(side)
	if b.dx <= 0 {
		b.dx = 1
	}
	if b.dy <= 0 {
		b.dy = 1
	}
	b.buckets = make([][]int, b.nx*b.ny)
	for i, bb := range boxes {
		x0, x1, y0, y1 := b.span(bb)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				b.buckets[y*b.nx+x] = append(b.buckets[y*b.nx+x], i)
			}
		}
	}
	return b
}

func (b *boxIndex) cell(v, lo, d float64, n int) int {
	c := int(math.Floor((v - lo) / d))
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

func (b *boxIndex) span(bb geometry.BBox) (x0, x1, y0, y1 int) {
	return b.cell(bb.MinX, b.minX, b.dx, b.nx), b.cell(bb.MaxX, b.minX, b.dx, b.nx),
		b.cell(bb.MinY, b.minY, b.dy, b.ny), b.cell(bb.MaxY, b.minY, b.dy, b.ny)
}

// query calls fn for each indexed box intersecting q, once per box.
func (b *boxIndex) query(q geometry.BBox, fn func(i int)) {
	if len(b.boxes) == 0 {
		return
	}
	b.epoch++
	x0, x1, y0, y1 := b.span(q)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			for _, i := range b.buckets[y*b.nx+x] {
				if b.stamp[i] == b.epoch || !b.boxes[i].Intersects(q, 0) {
					continue
				}
				b.stamp[i] = b.epoch
				fn(i)
			}
		}
	}
}
