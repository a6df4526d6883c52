// SPDX-License-Identifier: MIT
// Package: usgflow/connectivity
//
// build.go — grid → IAC/JA/IVC.
//
// Contract:
//   • Horizontal: two cells of one layer are neighbours iff their vertex
//     cycles share an edge. A shared corner alone is not a connection.
//   • Vertical: cells of layers k and k+1 are neighbours iff their
//     footprints overlap. Aligned layers (same NCPL, same vertex set per
//     local index) pair by index without any geometry.
//   • Output is identical for every WithParallel value: each layer's
//     goroutine writes only the slots of its own nodes, and segments are
//     sorted during assembly.
//   • The result is validated before it is returned.

package connectivity

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/usgflow/geometry"
	"github.com/katalvlaran/usgflow/grid"
)

// Build derives the adjacency of g.
func Build(g *grid.Grid, opts ...Option) (*Adjacency, error) {
	return BuildContext(context.Background(), g, opts...)
}

// BuildContext is Build with cancellation between layers.
func BuildContext(ctx context.Context, g *grid.Grid, opts ...Option) (*Adjacency, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	cfg := newBuildConfig(opts)
	nn := g.NNodes()

	// 1) Horizontal pass, one task per layer.
	horiz := make([][]int, nn)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers)
	for k := 0; k < g.NLay(); k++ {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			horizontalLayer(g, k, horiz)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 2) Vertical pass between consecutive layers.
	vert := make([][]int, nn)
	for k := 0; k+1 < g.NLay(); k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		verticalPair(g, k, vert, cfg.areaTol)
	}

	// 3) Assembly.
	adj := assemble(horiz, vert, cfg.ordering)
	if err := adj.Validate(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	// 4) Diagnostics.
	for _, n := range adj.Isolated() {
		lay, local := g.Layer(n)
		cfg.logger.Warn("isolated cell",
			zap.Int("node", n), zap.Int("layer", lay+1), zap.Int("local", local))
	}
	if comps := adj.Components(); len(comps) > 1 {
		cfg.logger.Warn("grid is not connected", zap.Int("components", len(comps)))
	}
	cfg.logger.Debug("connectivity built",
		zap.Int("nodes", nn), zap.Int("nja", adj.NJA()),
		zap.Stringer("ordering", cfg.ordering), zap.Int("workers", cfg.workers))
	return adj, nil
}

// horizontalLayer fills horiz for the nodes of layer k.
func horizontalLayer(g *grid.Grid, k int, horiz [][]int) {
	start, end := g.LayerRange(k)

	// vertex → incident cells of this layer
	byVertex := make(map[int][]int)
	for n := start; n < end; n++ {
		for _, v := range g.IVerts[n] {
			byVertex[v] = append(byVertex[v], n)
		}
	}

	stamp := make([]int, end-start)
	for n := start; n < end; n++ {
		for _, v := range g.IVerts[n] {
			for _, m := range byVertex[v] {
				if m <= n || stamp[m-start] == n+1 {
					continue
				}
				stamp[m-start] = n + 1
				if geometry.SharesEdge(g.IVerts[n], g.IVerts[m]) {
					horiz[n] = append(horiz[n], m)
					horiz[m] = append(horiz[m], n)
				}
			}
		}
	}
}

// verticalPair connects layer k with layer k+1.
func verticalPair(g *grid.Grid, k int, vert [][]int, areaTol float64) {
	s0, e0 := g.LayerRange(k)
	s1, e1 := g.LayerRange(k + 1)

	if aligned(g, s0, e0, s1, e1) {
		for i := 0; i < e0-s0; i++ {
			vert[s0+i] = append(vert[s0+i], s1+i)
			vert[s1+i] = append(vert[s1+i], s0+i)
		}
		return
	}

	lower := make([]geometry.Polygon, e1-s1)
	boxes := make([]geometry.BBox, e1-s1)
	areas := make([]float64, e1-s1)
	for i := range lower {
		lower[i] = g.Polygon(s1 + i)
		boxes[i] = lower[i].Bounds()
		areas[i] = geometry.Area(lower[i])
	}
	idx := newBoxIndex(boxes)
	for n := s0; n < e0; n++ {
		up := g.Polygon(n)
		upArea := geometry.Area(up)
		idx.query(up.Bounds(), func(i int) {
			limit := areaTol * min(upArea, areas[i])
			if geometry.OverlapArea(up, lower[i]) > limit {
				m := s1 + i
				vert[n] = append(vert[n], m)
				vert[m] = append(vert[m], n)
			}
		})
	}
}

// aligned reports whether two layers share footprints index by index.
func aligned(g *grid.Grid, s0, e0, s1, e1 int) bool {
	if e0-s0 != e1-s1 {
		return false
	}
	for i := 0; i < e0-s0; i++ {
		if !sameVertexSet(g.IVerts[s0+i], g.IVerts[s1+i]) {
			return false
		}
	}
	return true
}

func sameVertexSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]int(nil), a...)
	y := append([]int(nil), b...)
	sort.Ints(x)
	sort.Ints(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// assemble builds the sorted segments.
func assemble(horiz, vert [][]int, ord Ordering) *Adjacency {
	nn := len(horiz)
	nja := nn
	for n := 0; n < nn; n++ {
		nja += len(horiz[n]) + len(vert[n])
	}
	adj := &Adjacency{
		IAC: make([]int, nn),
		JA:  make([]int, 0, nja),
		IVC: make([]int, 0, nja),
	}
	for n := 0; n < nn; n++ {
		h, v := horiz[n], vert[n]
		sort.Ints(h)
		sort.Ints(v)
		adj.JA = append(adj.JA, n)
		adj.IVC = append(adj.IVC, IVCSelf)
		switch ord {
		case OrderAscending:
			i, j := 0, 0
			for i < len(h) || j < len(v) {
				if j == len(v) || (i < len(h) && h[i] < v[j]) {
					adj.JA = append(adj.JA, h[i])
					adj.IVC = append(adj.IVC, IVCHorizontal)
					i++
				} else {
					adj.JA = append(adj.JA, v[j])
					adj.IVC = append(adj.IVC, IVCVertical)
					j++
				}
			}
		default:
			for _, m := range h {
				adj.JA = append(adj.JA, m)
				adj.IVC = append(adj.IVC, IVCHorizontal)
			}
			for _, m := range v {
				adj.JA = append(adj.JA, m)
				adj.IVC = append(adj.IVC, IVCVertical)
			}
		}
		adj.IAC[n] = 1 + len(h) + len(v)
	}
	return adj
}
