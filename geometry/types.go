// SPDX-License-Identifier: MIT

package geometry

import "math"

// Point is a planar coordinate pair.
type Point struct {
	X, Y float64
}

// Polygon is a closed ring of points. The closing edge from the last point
// back to the first is implicit; a repeated closing point is tolerated.
type Polygon []Point

// BBox is an axis-aligned bounding box.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewPolygon zips parallel coordinate slices into a Polygon.
func NewPolygon(xs, ys []float64) (Polygon, error) {
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}
	p := make(Polygon, len(xs))
	for i := range xs {
		p[i] = Point{X: xs[i], Y: ys[i]}
	}
	return p, nil
}

// XY splits the polygon into coordinate slices.
func (p Polygon) XY() (xs, ys []float64) {
	xs = make([]float64, len(p))
	ys = make([]float64, len(p))
	for i, pt := range p {
		xs[i], ys[i] = pt.X, pt.Y
	}
	return xs, ys
}

// open returns the ring without a duplicated closing point.
func (p Polygon) open() Polygon {
	n := len(p)
	if n > 1 && p[0] == p[n-1] {
		return p[:n-1]
	}
	return p
}

// Bounds returns the bounding box of the polygon.
// An empty polygon yields an inverted (empty) box.
func (p Polygon) Bounds() BBox {
	b := BBox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, pt := range p {
		b.MinX = math.Min(b.MinX, pt.X)
		b.MinY = math.Min(b.MinY, pt.Y)
		b.MaxX = math.Max(b.MaxX, pt.X)
		b.MaxY = math.Max(b.MaxY, pt.Y)
	}
	return b
}

// Contains reports whether (x, y) lies inside or on the box.
func (b BBox) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Intersects reports whether the two boxes overlap by more than tol in both axes.
func (b BBox) Intersects(o BBox, tol float64) bool {
	return b.MinX < o.MaxX-tol && o.MinX < b.MaxX-tol &&
		b.MinY < o.MaxY-tol && o.MinY < b.MaxY-tol
}
