// SPDX-License-Identifier: MIT

// Package zonebudget aggregates cell-by-cell budget records into flows
// between user-defined zones.
//
// What:
//
//   - Compute: one Table per output step of a budget file.
//   - Table.Flow[a][b]: gross flow from zone a into zone b (>= 0), summed
//     over every connection whose end cells lie in different zones.
//   - Table.In / Table.Out: boundary terms (wells, recharge, storage …) per
//     zone, split by sign of the cell flow.
//   - WriteCSV / ReadZones: tabular output and whitespace-separated zone
//     arrays.
//
// Zones:
//
//	zones[node] is the zone of 0-based cell node. Zone 0 excludes a cell from
//	every named zone; its row and column in Flow collect what crosses into
//	and out of the excluded region.
//
// Internal flows:
//
//	FLOW-JA-FACE   needs WithAdjacency; every connection is read once from the
//	               upper triangle and a positive value flows into the lower
//	               node.
//	FLOW RIGHT/FRONT/LOWER FACE
//	               needs WithStructured; a positive value flows towards the
//	               next column, row or layer.
//
// Complexity:
//
//   - O(NJA + Σ boundary entries) per step, plus O(Z²) for the tables.
//
// Errors:
//
//   - ErrZones:    empty zone array or a negative zone.
//   - ErrTopology: an internal-flow record without the matching option.
//   - datafile.ErrShapeMismatch: records that do not fit the zone array.
package zonebudget
