// SPDX-License-Identifier: MIT

package grid

import "errors"

var (
	// ErrEmptyGrid indicates a grid with no nodes or no layers.
	ErrEmptyGrid = errors.New("grid: grid must have at least one node and one layer")
	// ErrLayerCount indicates per-layer cell counts that do not cover the nodes.
	ErrLayerCount = errors.New("grid: layer cell counts do not sum to the node count")
	// ErrVertexIndex indicates a cell referencing a vertex outside the table.
	ErrVertexIndex = errors.New("grid: vertex index out of range")
	// ErrDegenerateCell indicates a cell with < 3 distinct vertices or zero area.
	ErrDegenerateCell = errors.New("grid: degenerate cell")
	// ErrOrientation indicates cells wound in opposite directions.
	ErrOrientation = errors.New("grid: inconsistent cell orientation")
	// ErrBadDimension indicates a non-positive structured grid dimension.
	ErrBadDimension = errors.New("grid: dimensions must be positive")
	// ErrSyntax indicates a malformed grid specification file.
	ErrSyntax = errors.New("grid: malformed grid specification")
)
