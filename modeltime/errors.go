// SPDX-License-Identifier: MIT

package modeltime

import "errors"

var (
	// ErrInvalid indicates an inconsistent time discretization.
	ErrInvalid = errors.New("modeltime: invalid time discretization")
	// ErrSyntax indicates a malformed TDIS file.
	ErrSyntax = errors.New("modeltime: malformed TDIS file")
)
