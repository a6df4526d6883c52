// SPDX-License-Identifier: MIT
// Package: usgflow/grid
//
// structured.go — layered rectangular grid expressed as a Grid.
//
// Contract:
//   • delr has ncol widths (along x), delc has nrow heights (along y).
//   • Row 0 is the northern row; the grid's upper-left corner sits at
//     (0, Σdelc), matching the usual row/column convention.
//   • Vertices are shared: (nrow+1)×(ncol+1) points, row-major from the
//     upper-left corner. Cell (i, j) is wound clockwise:
//     (i,j) → (i,j+1) → (i+1,j+1) → (i+1,j).
//   • Every layer repeats the same footprint; node = k·nrow·ncol + i·ncol + j.
//
// Complexity: O(nlay·nrow·ncol) time and space.

package grid

import (
	"fmt"

	"github.com/katalvlaran/usgflow/geometry"
)

// NewStructured builds an nlay×nrow×ncol grid from column widths delr and
// row heights delc.
func NewStructured(nlay int, delr, delc []float64) (*Grid, error) {
	nrow, ncol := len(delc), len(delr)
	// 1) Validate dimensions early.
	if nlay < 1 || nrow < 1 || ncol < 1 {
		return nil, fmt.Errorf("nlay=%d nrow=%d ncol=%d: %w", nlay, nrow, ncol, ErrBadDimension)
	}
	for _, d := range append(append([]float64(nil), delr...), delc...) {
		if d <= 0 {
			return nil, fmt.Errorf("cell size %g: %w", d, ErrBadDimension)
		}
	}

	// 2) Vertex lattice, row-major from the upper-left corner.
	xe := make([]float64, ncol+1)
	for j, d := range delr {
		xe[j+1] = xe[j] + d
	}
	ye := make([]float64, nrow+1)
	for i := nrow - 1; i >= 0; i-- {
		ye[i] = ye[i+1] + delc[i]
	}
	verts := make([]geometry.Point, 0, (nrow+1)*(ncol+1))
	for i := 0; i <= nrow; i++ {
		for j := 0; j <= ncol; j++ {
			verts = append(verts, geometry.Point{X: xe[j], Y: ye[i]})
		}
	}

	// 3) One footprint per (i, j), shared by every layer.
	vid := func(i, j int) int { return i*(ncol+1) + j }
	ncpl := make([]int, nlay)
	iverts := make([][]int, 0, nlay*nrow*ncol)
	for k := 0; k < nlay; k++ {
		ncpl[k] = nrow * ncol
		for i := 0; i < nrow; i++ {
			for j := 0; j < ncol; j++ {
				iverts = append(iverts, []int{vid(i, j), vid(i, j+1), vid(i+1, j+1), vid(i+1, j)})
			}
		}
	}
	return New(verts, iverts, ncpl, nil)
}

// Uniform returns n copies of d, for building delr/delc.
func Uniform(n int, d float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = d
	}
	return out
}
