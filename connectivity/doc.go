// SPDX-License-Identifier: MIT

// Package connectivity derives the compressed sparse adjacency of a layered
// unstructured grid: the IAC/JA arrays of the DISU discretization plus the
// IVC flags that tell horizontal from vertical connections.
//
// What:
//
//   - Build: grid → *Adjacency. Horizontal neighbours share an edge within a
//     layer; vertical neighbours overlap in plan between consecutive layers.
//   - Adjacency: IAC (segment length per node), JA (concatenated segments,
//     0-based), IVC (parallel to JA). Each segment starts with the node itself.
//   - Validate: structural invariants (Σ IAC == len(JA), self first, no
//     duplicates, symmetry with matching IVC).
//   - Components / ActiveComponents: connected regions of the grid, or of
//     its active cells only.
//   - WriteDISU / ReadDISU: IAC/JA/IVC as DISU array control records
//     (INTERNAL, CONSTANT, OPEN/CLOSE), JA 1-based.
//
// Ordering:
//
//	OrderSplit (default):  [self] + sorted(horizontal) + sorted(vertical)
//	OrderAscending:        [self] + sorted(horizontal ∪ vertical)
//
// IVC values:
//
//	IVCHorizontal = 0, IVCVertical = 1 and IVCSelf = -1 at the self entry in
//	memory. Files carry 0 at self entries, as the simulator expects.
//
// Complexity:
//
//   - Horizontal pass: O(Σ cycle · k) per layer, k = cells per vertex.
//   - Vertical pass:   O(NCPL) when layers are aligned, otherwise
//     O(NCPL · c · V²) with c bucket candidates per cell.
//   - Assembly:        O(NJA log d) for per-node degree d.
//
// Errors:
//
//   - ErrNilGrid:   Build called with a nil grid.
//   - ErrInvariant: an adjacency violates a structural invariant.
//   - ErrFormat:    a DISU text block is malformed.
//
// Isolated cells (no neighbours at all) are legal: they are logged as
// warnings and listed by Adjacency.Isolated.
package connectivity
