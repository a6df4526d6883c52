// SPDX-License-Identifier: MIT
// Package: usgflow/connectivity
//
// adjacency.go — compressed sparse adjacency and its invariants.
//
// Contract:
//   • len(IAC) == nodes, Σ IAC == len(JA) == len(IVC).
//   • JA[Offsets()[n]] == n for every node (self first, exactly once).
//   • m ∈ Neighbors(n) ⇔ n ∈ Neighbors(m), with equal IVC on both sides.
//   • JA is 0-based; only the DISU text form is 1-based.

package connectivity

import "fmt"

// IVC values stored parallel to JA.
const (
	IVCSelf       = -1
	IVCHorizontal = 0
	IVCVertical   = 1
)

// Adjacency is the IAC/JA/IVC triple of a grid.
type Adjacency struct {
	IAC []int
	JA  []int
	IVC []int

	offsets []int
}

// NewAdjacency wraps existing arrays and validates them. Self entries of ivc
// are rewritten to IVCSelf in place, so file-style zeros are accepted. ivc
// may be nil, in which case every non-self entry is reported as horizontal.
func NewAdjacency(iac, ja, ivc []int) (*Adjacency, error) {
	if ivc == nil {
		ivc = make([]int, len(ja))
		for i := range ivc {
			ivc[i] = IVCHorizontal
		}
	}
	a := &Adjacency{IAC: iac, JA: ja, IVC: ivc}
	if err := a.index(); err != nil {
		return nil, err
	}
	for n := range a.IAC {
		if off := a.offsets[n]; off < len(a.JA) && a.JA[off] == n {
			a.IVC[off] = IVCSelf
		}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// index computes segment offsets.
func (a *Adjacency) index() error {
	a.offsets = make([]int, len(a.IAC)+1)
	for n, c := range a.IAC {
		if c < 1 {
			return fmt.Errorf("IAC[%d]=%d: %w", n, c, ErrInvariant)
		}
		a.offsets[n+1] = a.offsets[n] + c
	}
	if a.offsets[len(a.IAC)] != len(a.JA) {
		return fmt.Errorf("sum(IAC)=%d, len(JA)=%d: %w", a.offsets[len(a.IAC)], len(a.JA), ErrInvariant)
	}
	if len(a.IVC) != len(a.JA) {
		return fmt.Errorf("len(IVC)=%d, len(JA)=%d: %w", len(a.IVC), len(a.JA), ErrInvariant)
	}
	return nil
}

// NNodes returns the number of nodes.
func (a *Adjacency) NNodes() int { return len(a.IAC) }

// NJA returns the total number of JA entries, self entries included.
func (a *Adjacency) NJA() int { return len(a.JA) }

// Offsets returns the start of each node's segment; Offsets()[NNodes()] == NJA().
func (a *Adjacency) Offsets() []int { return a.offsets }

// Segment returns node n's full JA segment (self first).
func (a *Adjacency) Segment(n int) []int {
	return a.JA[a.offsets[n]:a.offsets[n+1]]
}

// Neighbors returns node n's neighbours without the self entry.
func (a *Adjacency) Neighbors(n int) []int {
	return a.JA[a.offsets[n]+1 : a.offsets[n+1]]
}

// Horizontal returns node n's horizontal neighbours.
func (a *Adjacency) Horizontal(n int) []int { return a.byKind(n, IVCHorizontal) }

// Vertical returns node n's vertical neighbours.
func (a *Adjacency) Vertical(n int) []int { return a.byKind(n, IVCVertical) }

func (a *Adjacency) byKind(n, kind int) []int {
	var out []int
	for i := a.offsets[n] + 1; i < a.offsets[n+1]; i++ {
		if a.IVC[i] == kind {
			out = append(out, a.JA[i])
		}
	}
	return out
}

// Position returns the JA index of the connection n→m, or -1.
func (a *Adjacency) Position(n, m int) int {
	for i := a.offsets[n] + 1; i < a.offsets[n+1]; i++ {
		if a.JA[i] == m {
			return i
		}
	}
	return -1
}

// Isolated returns the nodes whose segment holds only the self entry.
func (a *Adjacency) Isolated() []int {
	var out []int
	for n, c := range a.IAC {
		if c == 1 {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks every structural invariant and wraps ErrInvariant on the
// first violation found.
func (a *Adjacency) Validate() error {
	// 1) Sizes and offsets.
	if a.offsets == nil || len(a.offsets) != len(a.IAC)+1 {
		if err := a.index(); err != nil {
			return err
		}
	}
	nn := a.NNodes()

	// 2) Self first, range, duplicates, IVC values.
	seen := make(map[int]struct{})
	for n := 0; n < nn; n++ {
		seg := a.Segment(n)
		if seg[0] != n {
			return fmt.Errorf("node %d segment starts with %d: %w", n, seg[0], ErrInvariant)
		}
		if a.IVC[a.offsets[n]] != IVCSelf {
			return fmt.Errorf("node %d self IVC=%d: %w", n, a.IVC[a.offsets[n]], ErrInvariant)
		}
		clear(seen)
		seen[n] = struct{}{}
		for i, m := range seg[1:] {
			if m < 0 || m >= nn {
				return fmt.Errorf("node %d neighbour %d out of range: %w", n, m, ErrInvariant)
			}
			if _, dup := seen[m]; dup {
				return fmt.Errorf("node %d lists %d twice: %w", n, m, ErrInvariant)
			}
			seen[m] = struct{}{}
			if k := a.IVC[a.offsets[n]+1+i]; k != IVCHorizontal && k != IVCVertical {
				return fmt.Errorf("node %d neighbour %d IVC=%d: %w", n, m, k, ErrInvariant)
			}
		}
	}

	// 3) Symmetry with matching IVC.
	for n := 0; n < nn; n++ {
		for i := a.offsets[n] + 1; i < a.offsets[n+1]; i++ {
			m := a.JA[i]
			j := a.Position(m, n)
			if j < 0 {
				return fmt.Errorf("%d→%d has no reverse: %w", n, m, ErrInvariant)
			}
			if a.IVC[i] != a.IVC[j] {
				return fmt.Errorf("%d↔%d IVC %d vs %d: %w", n, m, a.IVC[i], a.IVC[j], ErrInvariant)
			}
		}
	}
	return nil
}

// Upper calls fn once per undirected connection (n < m) with the JA
// position of n→m.
func (a *Adjacency) Upper(fn func(n, m, pos int)) {
	for n := 0; n < a.NNodes(); n++ {
		for i := a.offsets[n] + 1; i < a.offsets[n+1]; i++ {
			if m := a.JA[i]; m > n {
				fn(n, m, i)
			}
		}
	}
}
