// SPDX-License-Identifier: MIT
// Package: usgflow/geometry
//
// clip.go — convex clipping and polygon overlap area.
//
// OverlapArea is what vertical connectivity falls back to when two layers do
// not share a horizontal mesh: cells overlap when their footprints intersect
// with positive area. Clipping is Sutherland–Hodgman, which requires a convex
// clip ring; when neither ring is convex the clip ring is ear-clipped into
// triangles first.

package geometry

// IsConvex reports whether p is convex (collinear vertices allowed).
func IsConvex(p Polygon) bool {
	ring := p.open()
	n := len(ring)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a, b, c := ring[i], ring[(i+1)%n], ring[(i+2)%n]
		cr := cross(a, b, c)
		switch {
		case cr > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cr < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

// cross returns the z component of (b-a)×(c-b).
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
}

// orient returns the z component of (b-a)×(p-a).
func orient(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// ClipConvex clips subject against the convex ring clip and returns the
// intersection polygon (possibly empty). clip may be wound either way.
func ClipConvex(subject, clip Polygon) Polygon {
	c := clip.open()
	out := append(Polygon(nil), subject.open()...)
	if len(c) < 3 || len(out) < 3 {
		return nil
	}
	xs, ys := c.XY()
	dir := 1.0
	if IsClockwise(xs, ys) {
		dir = -1.0
	}
	for i := range c {
		a, b := c[i], c[(i+1)%len(c)]
		in := out
		out = out[:0:0]
		if len(in) == 0 {
			break
		}
		prev := in[len(in)-1]
		prevIn := dir*orient(a, b, prev) >= 0
		for _, cur := range in {
			curIn := dir*orient(a, b, cur) >= 0
			if curIn != prevIn {
				out = append(out, lineIntersect(prev, cur, a, b))
			}
			if curIn {
				out = append(out, cur)
			}
			prev, prevIn = cur, curIn
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// lineIntersect intersects segment p→q with the infinite line a→b.
func lineIntersect(p, q, a, b Point) Point {
	d1 := orient(a, b, p)
	d2 := orient(a, b, q)
	t := d1 / (d1 - d2)
	return Point{X: p.X + t*(q.X-p.X), Y: p.Y + t*(q.Y-p.Y)}
}

// OverlapArea returns the area shared by polygons a and b.
func OverlapArea(a, b Polygon) float64 {
	if !a.Bounds().Intersects(b.Bounds(), 0) {
		return 0
	}
	switch {
	case IsConvex(b):
		return Area(ClipConvex(a, b))
	case IsConvex(a):
		return Area(ClipConvex(b, a))
	}
	var total float64
	for _, tri := range Triangulate(b) {
		total += Area(ClipConvex(a, tri))
	}
	return total
}

// Triangulate splits a simple polygon into triangles by ear clipping.
// Degenerate input returns nil.
func Triangulate(p Polygon) []Polygon {
	ring := append(Polygon(nil), p.open()...)
	if len(ring) < 3 {
		return nil
	}
	xs, ys := ring.XY()
	if IsClockwise(xs, ys) {
		for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
			ring[i], ring[j] = ring[j], ring[i]
		}
	}
	var tris []Polygon
	for guard := 0; len(ring) > 3 && guard < 4*len(p); guard++ {
		n := len(ring)
		clipped := false
		for i := 0; i < n; i++ {
			a, b, c := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
			if cross(a, b, c) <= 0 {
				continue // reflex or flat
			}
			if anyInside(ring, a, b, c) {
				continue
			}
			tris = append(tris, Polygon{a, b, c})
			ring = append(ring[:i], ring[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break
		}
	}
	if len(ring) == 3 {
		tris = append(tris, ring)
	}
	return tris
}

// anyInside reports whether a ring vertex other than a, b, c lies in triangle abc.
func anyInside(ring Polygon, a, b, c Point) bool {
	const eps = 1e-12
	for _, q := range ring {
		if q == a || q == b || q == c {
			continue
		}
		if orient(a, b, q) > eps && orient(b, c, q) > eps && orient(c, a, q) > eps {
			return true
		}
	}
	return false
}
