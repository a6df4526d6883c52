// SPDX-License-Identifier: MIT

// Package matrix - flow-table kernels.
//
// Contract:
//   - All kernels validate operands first and return sentinels wrapped by
//     matrixErrorf with the operation tag.
//   - Results are fresh allocations; inputs are never mutated.

package matrix

import (
	"fmt"
	"math"
)

const (
	opSub       = "Sub"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opRowSums   = "RowSums"
	opColSums   = "ColSums"
	opAllClose  = "AllClose"
)

// matrixErrorf wraps err with an operation tag, preserving it via %w.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("matrix.%s: %w", tag, err)
}

func validateNotNil(ms ...*Dense) error {
	for _, m := range ms {
		if m == nil {
			return ErrNilMatrix
		}
	}
	return nil
}

func validateSameShape(a, b *Dense) error {
	if err := validateNotNil(a, b); err != nil {
		return err
	}
	if a.r != b.r || a.c != b.c {
		return fmt.Errorf("%dx%d vs %dx%d: %w", a.r, a.c, b.r, b.c, ErrDimensionMismatch)
	}
	return nil
}

// Sub computes the element-wise difference C = A − B.
func Sub(a, b *Dense) (*Dense, error) {
	if err := validateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	res := &Dense{r: a.r, c: a.c, data: make([]float64, len(a.data))}
	for idx := range a.data {
		res.data[idx] = a.data[idx] - b.data[idx]
	}
	return res, nil
}

// Transpose returns Aᵀ.
func Transpose(m *Dense) (*Dense, error) {
	if err := validateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res := &Dense{r: m.c, c: m.r, data: make([]float64, len(m.data))}
	// data[i*c + j] → res.data[j*r + i]
	for i := 0; i < m.r; i++ {
		base := i * m.c
		for j := 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[base+j]
		}
	}
	return res, nil
}

// Scale returns alpha·A.
func Scale(m *Dense, alpha float64) (*Dense, error) {
	if err := validateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	for idx, v := range m.data {
		res.data[idx] = v * alpha
	}
	return res, nil
}

// RowSums returns Σ_j A[i,j] for every row i.
func RowSums(m *Dense) ([]float64, error) {
	if err := validateNotNil(m); err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	out := make([]float64, m.r)
	m.Do(func(i, _ int, v float64) bool {
		out[i] += v
		return true
	})
	return out, nil
}

// ColSums returns Σ_i A[i,j] for every column j.
func ColSums(m *Dense) ([]float64, error) {
	if err := validateNotNil(m); err != nil {
		return nil, matrixErrorf(opColSums, err)
	}
	out := make([]float64, m.c)
	m.Do(func(_, j int, v float64) bool {
		out[j] += v
		return true
	})
	return out, nil
}

// AllClose reports whether |a−b| <= atol + rtol·|b| holds element-wise.
// NaNs compare unequal.
func AllClose(a, b *Dense, rtol, atol float64) (bool, error) {
	if err := validateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	for idx, av := range a.data {
		bv := b.data[idx]
		if math.IsNaN(av) || math.IsNaN(bv) || math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
			return false, nil
		}
	}
	return true, nil
}
