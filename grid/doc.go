// SPDX-License-Identifier: MIT

// Package grid holds the cell geometry of a layered unstructured grid: the
// shared vertex table, each cell's ordered vertex cycle and the per-layer
// cell counts that stack the layers into one node numbering.
//
// What:
//
//   - Grid: vertices, IVerts (one vertex cycle per node) and NCPL
//     (cells per layer). Nodes are 0-based and numbered layer by layer.
//   - Layer / Node / LayerRange: node ↔ (layer, local index) through a
//     cumulative prefix sum, so layers may hold different cell counts.
//   - VertexTable: tolerance-aware vertex deduplication with a bucketed
//     spatial hash, used when grids are read from files that repeat
//     coordinates per cell.
//   - ReadGridSpec / WriteGridSpec: the GSF grid specification text format.
//   - NewStructured: a layered rectangular grid with shared vertices.
//
// Validation (New):
//
//   - at least one node and one layer (ErrEmptyGrid);
//   - Σ NCPL == len(IVerts) with no negative counts (ErrLayerCount);
//   - every vertex index inside the table (ErrVertexIndex);
//   - every cell has ≥ 3 distinct vertices and non-zero area (ErrDegenerateCell);
//   - all cells share one winding (ErrOrientation).
//
// Complexity:
//
//   - New:        O(Σ cycle lengths).
//   - Layer:      O(log NLay).
//   - Centroids:  O(Σ cycle lengths) once, then cached.
//   - VertexTable.Add: O(1) expected.
//
// A Grid is immutable after New; all methods are safe for concurrent use.
package grid
