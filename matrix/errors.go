// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
//
// Every message is prefixed with "matrix: ". Kernels wrap these with the
// operation tag (see matrixErrorf); callers match them with errors.Is.

package matrix

import "errors"

var (
	// ErrBadShape is returned when a requested shape has r<=0 or c<=0.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates a row or column index outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates operands of incompatible shape.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates a nil *Dense operand.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)
