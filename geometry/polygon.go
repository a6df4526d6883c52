// SPDX-License-Identifier: MIT
// Package: usgflow/geometry
//
// polygon.go — orientation, area, centroid and edge sharing.
//
// Contract:
//   • SignedArea/IsClockwise accept parallel x/y slices (the legacy call shape)
//     and never panic: mismatched lengths or < 3 points yield 0 / false.
//   • SharesEdge works on vertex indices, not coordinates; vertex
//     deduplication upstream (grid.VertexTable) makes index equality exact.

package geometry

import "math"

// SignedArea returns the shoelace signed area of the ring (xs, ys).
// Positive for counter-clockwise rings, negative for clockwise rings.
func SignedArea(xs, ys []float64) float64 {
	n := len(xs)
	if n != len(ys) || n < 3 {
		return 0
	}
	if xs[0] == xs[n-1] && ys[0] == ys[n-1] {
		n-- // explicit closing point
	}
	var s float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		s += xs[i]*ys[j] - xs[j]*ys[i]
	}
	return s / 2
}

// IsClockwise reports whether the ring (xs, ys) is ordered clockwise,
// i.e. its signed area is negative. Degenerate rings report false.
func IsClockwise(xs, ys []float64) bool {
	return SignedArea(xs, ys) < 0
}

// Area returns the unsigned area of p.
func Area(p Polygon) float64 {
	xs, ys := p.XY()
	return math.Abs(SignedArea(xs, ys))
}

// Centroid returns the area-weighted centroid of p. For zero-area rings it
// falls back to the vertex mean so that degenerate cells still get a position.
func Centroid(p Polygon) Point {
	ring := p.open()
	n := len(ring)
	if n == 0 {
		return Point{X: math.NaN(), Y: math.NaN()}
	}
	var a, cx, cy float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
		a += cross
		cx += (ring[i].X + ring[j].X) * cross
		cy += (ring[i].Y + ring[j].Y) * cross
	}
	if a == 0 {
		var mx, my float64
		for _, pt := range ring {
			mx += pt.X
			my += pt.Y
		}
		return Point{X: mx / float64(n), Y: my / float64(n)}
	}
	a /= 2
	return Point{X: cx / (6 * a), Y: cy / (6 * a)}
}

// edge is an unordered vertex-index pair with lo <= hi.
type edge struct{ lo, hi int }

func makeEdge(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{lo: a, hi: b}
}

// openCycle drops an explicit closing index.
func openCycle(c []int) []int {
	if n := len(c); n > 1 && c[0] == c[n-1] {
		return c[:n-1]
	}
	return c
}

// SharedEdge returns the first unordered vertex pair that is consecutive in
// both closed cycles a and b. Repeated consecutive indices are skipped so a
// degenerate edge can never be "shared".
func SharedEdge(a, b []int) (v1, v2 int, ok bool) {
	a, b = openCycle(a), openCycle(b)
	if len(a) < 2 || len(b) < 2 {
		return 0, 0, false
	}
	// The smaller cycle goes into the set; cells rarely exceed a dozen edges.
	if len(a) > len(b) {
		a, b = b, a
	}
	set := make(map[edge]struct{}, len(a))
	for i := range a {
		u, w := a[i], a[(i+1)%len(a)]
		if u == w {
			continue
		}
		set[makeEdge(u, w)] = struct{}{}
	}
	for i := range b {
		u, w := b[i], b[(i+1)%len(b)]
		if u == w {
			continue
		}
		e := makeEdge(u, w)
		if _, hit := set[e]; hit {
			return e.lo, e.hi, true
		}
	}
	return 0, 0, false
}

// SharesEdge reports whether cycles a and b have a common edge.
// Sharing a single vertex is not enough.
func SharesEdge(a, b []int) bool {
	_, _, ok := SharedEdge(a, b)
	return ok
}
