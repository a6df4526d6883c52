// SPDX-License-Identifier: MIT
// Package: usgflow/connectivity
//
// components.go — connected regions of the adjacency graph.
//
// Contract:
//   • Components are ordered by their smallest node; nodes within a
//     component are sorted ascending.
//   • ActiveComponents only walks nodes with active[n] true; inactive nodes
//     belong to no component.
//
// Complexity: O(N + NJA) time, O(N) memory.

package connectivity

import (
	"fmt"
	"sort"
)

// Components returns the connected components of every node.
func (a *Adjacency) Components() [][]int {
	comps, _ := a.ActiveComponents(nil)
	return comps
}

// ActiveComponents returns the connected components of the active nodes,
// as a model's IDOMAIN > 0 cells would be. A nil mask marks every node
// active; otherwise len(active) must equal NNodes.
func (a *Adjacency) ActiveComponents(active []bool) ([][]int, error) {
	nn := a.NNodes()
	if active != nil && len(active) != nn {
		return nil, fmt.Errorf("active mask has %d entries for %d nodes: %w", len(active), nn, ErrInvariant)
	}
	on := func(n int) bool { return active == nil || active[n] }

	seen := make([]bool, nn)
	var comps [][]int
	for s := 0; s < nn; s++ {
		if seen[s] || !on(s) {
			continue
		}
		// BFS to collect component
		queue := []int{s}
		seen[s] = true
		for qi := 0; qi < len(queue); qi++ {
			for _, v := range a.Neighbors(queue[qi]) {
				if !seen[v] && on(v) {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
		sort.Ints(queue)
		comps = append(comps, queue)
	}
	return comps, nil
}
