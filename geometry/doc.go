// SPDX-License-Identifier: MIT

// Package geometry provides the planar primitives used by the grid
// connectivity engine: points, polygons and the predicates built on them.
//
// What:
//
//   - SignedArea / IsClockwise: shoelace orientation test.
//   - Centroid: area-weighted polygon centroid.
//   - PointInPolygon, PointsInPolygon, LocatePoint, LocatePoints:
//     ray casting for one point or many points, against one polygon or many.
//   - SharesEdge / SharedEdge: edge ("rook") adjacency between two vertex
//     cycles; a single shared vertex ("queen" move) is not adjacency.
//   - ClipConvex / OverlapArea: footprint overlap for non-aligned layers.
//
// Orientation convention:
//
//	Signed area follows the shoelace formula A = ½ Σ (xᵢ·yᵢ₊₁ − xᵢ₊₁·yᵢ).
//	IsClockwise reports true iff A < 0. Collinear or repeated vertices give
//	A == 0, for which the orientation is ambiguous; IsClockwise reports false.
//
// Ray casting convention:
//
//	An edge (i, j) is crossed when (yᵢ > y) != (yⱼ > y) and the crossing
//	abscissa is strictly greater than x. The half-open test counts a vertex
//	lying exactly on the ray once, never twice.
//
// Complexity:
//
//   - PointsInPolygon: O(P×V) for P points and a V-vertex polygon.
//   - LocatePoint:     O(N×V) for N polygons, with an O(1) bbox reject.
//   - SharesEdge:      O(Va+Vb) using a small edge set.
//   - ClipConvex:      O(Vs×Vc).
//
// All functions are pure and safe for concurrent use.
package geometry
