// SPDX-License-Identifier: MIT

package connectivity

import "errors"

var (
	// ErrNilGrid indicates a nil *grid.Grid.
	ErrNilGrid = errors.New("connectivity: grid is nil")
	// ErrInvariant indicates an adjacency that breaks a structural invariant.
	ErrInvariant = errors.New("connectivity: invariant violated")
	// ErrFormat indicates a malformed DISU connectivity block.
	ErrFormat = errors.New("connectivity: malformed DISU block")
)
