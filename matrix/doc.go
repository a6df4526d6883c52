// SPDX-License-Identifier: MIT

// Package matrix provides the small dense float64 matrix used for zone-to-zone
// flow accounting.
//
// What:
//
//   - Dense: row-major r×c storage with bounds-checked At/Set and an
//     accumulating Add, so callers can sum flows cell by cell.
//   - Sub, Transpose, Scale, RowSums, ColSums and AllClose: the handful of
//     kernels a flow table needs (net flow is F − Fᵀ, volumes are F·Δt).
//
// Determinism:
//
//   - Every kernel walks i→j in row-major order; results do not depend on
//     scheduling or map iteration.
//
// Complexity:
//
//   - At/Set/Add O(1); every kernel O(r·c) time and one allocation.
//
// Errors:
//
//   - ErrBadShape for non-positive dimensions, ErrOutOfRange for indices,
//     ErrDimensionMismatch for operands of different shape, ErrNilMatrix for
//     nil operands. Errors are wrapped with the operation name and matched
//     with errors.Is.
package matrix
