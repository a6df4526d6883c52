// SPDX-License-Identifier: MIT
// Package: usgflow/geometry
//
// raycast.go — point in polygon by ray casting.
//
// Two access patterns are served separately because their costs differ:
//   • many points against one polygon   (PointsInPolygon): O(P×V)
//   • one point against many polygons   (PolygonSet.Locate): O(N×V), bbox reject first
//
// Both share crossings(), so the boundary convention is identical.

package geometry

// crossings counts edges of ring crossed by the ray from (x, y) towards +x.
func crossings(x, y float64, ring Polygon) int {
	n := len(ring)
	c := 0
	j := n - 1
	for i := 0; i < n; i++ {
		yi, yj := ring[i].Y, ring[j].Y
		if (yi > y) != (yj > y) {
			xCross := ring[i].X + (ring[j].X-ring[i].X)*(y-yi)/(yj-yi)
			if x < xCross {
				c++
			}
		}
		j = i
	}
	return c
}

// PointInPolygon reports whether (x, y) lies inside poly (odd crossing count).
func PointInPolygon(x, y float64, poly Polygon) bool {
	ring := poly.open()
	if len(ring) < 3 {
		return false
	}
	return crossings(x, y, ring)%2 == 1
}

// PointsInPolygon evaluates many query points against one polygon.
// mask[i] is true when (xs[i], ys[i]) is inside poly.
func PointsInPolygon(xs, ys []float64, poly Polygon) ([]bool, error) {
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}
	ring := poly.open()
	if len(ring) < 3 {
		return nil, ErrTooFewVertices
	}
	box := ring.Bounds()
	mask := make([]bool, len(xs))
	for i := range xs {
		if !box.Contains(xs[i], ys[i]) {
			continue
		}
		mask[i] = crossings(xs[i], ys[i], ring)%2 == 1
	}
	return mask, nil
}

// PolygonSet holds many polygons with precomputed bounding boxes for
// repeated point location.
type PolygonSet struct {
	rings []Polygon
	boxes []BBox
}

// NewPolygonSet prepares polys for point location. Polygons with fewer than
// three vertices are kept (to preserve indices) but never match.
func NewPolygonSet(polys []Polygon) *PolygonSet {
	s := &PolygonSet{
		rings: make([]Polygon, len(polys)),
		boxes: make([]BBox, len(polys)),
	}
	for i, p := range polys {
		r := p.open()
		s.rings[i] = r
		s.boxes[i] = r.Bounds()
	}
	return s
}

// Len returns the number of polygons in the set.
func (s *PolygonSet) Len() int { return len(s.rings) }

// Locate returns the index of the first polygon containing (x, y), or -1.
func (s *PolygonSet) Locate(x, y float64) int {
	for i, r := range s.rings {
		if len(r) < 3 || !s.boxes[i].Contains(x, y) {
			continue
		}
		if crossings(x, y, r)%2 == 1 {
			return i
		}
	}
	return -1
}

// LocateAll locates every query point; unmatched points map to -1.
func (s *PolygonSet) LocateAll(xs, ys []float64) ([]int, error) {
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}
	out := make([]int, len(xs))
	for i := range xs {
		out[i] = s.Locate(xs[i], ys[i])
	}
	return out, nil
}

// LocatePoint is a one-shot form of PolygonSet.Locate.
func LocatePoint(x, y float64, polys []Polygon) int {
	return NewPolygonSet(polys).Locate(x, y)
}

// LocatePoints is a one-shot form of PolygonSet.LocateAll.
func LocatePoints(xs, ys []float64, polys []Polygon) ([]int, error) {
	return NewPolygonSet(polys).LocateAll(xs, ys)
}
