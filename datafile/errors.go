// SPDX-License-Identifier: MIT

package datafile

import "errors"

var (
	// ErrCorruptFile indicates an undecodable file or record.
	ErrCorruptFile = errors.New("datafile: corrupt file")
	// ErrNotFound indicates a missing record.
	ErrNotFound = errors.New("datafile: record not found")
	// ErrShapeMismatch indicates a record with unexpected dimensions.
	ErrShapeMismatch = errors.New("datafile: shape mismatch")
)
