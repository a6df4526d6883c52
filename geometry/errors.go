// SPDX-License-Identifier: MIT

package geometry

import "errors"

var (
	// ErrTooFewVertices indicates a polygon with fewer than three vertices.
	ErrTooFewVertices = errors.New("geometry: polygon needs at least 3 vertices")

	// ErrLengthMismatch indicates coordinate slices of different lengths.
	ErrLengthMismatch = errors.New("geometry: coordinate slices differ in length")
)
