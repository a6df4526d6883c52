// SPDX-License-Identifier: MIT

package zonebudget

import "errors"

var (
	// ErrZones indicates an unusable zone array.
	ErrZones = errors.New("zonebudget: invalid zones")
	// ErrTopology indicates internal flows that cannot be attributed.
	ErrTopology = errors.New("zonebudget: internal flows need grid topology")
	// ErrNoStepLength indicates a table whose step length is unknown.
	ErrNoStepLength = errors.New("zonebudget: step length unknown")
)
