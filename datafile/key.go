// SPDX-License-Identifier: MIT

package datafile

import "fmt"

// Key identifies a record by time step and stress period, both 1-based.
type Key struct {
	Kstp int
	Kper int
}

// String implements fmt.Stringer.
func (k Key) String() string { return fmt.Sprintf("(kstp=%d, kper=%d)", k.Kstp, k.Kper) }

// Less orders keys by period, then step.
func (k Key) Less(o Key) bool {
	if k.Kper != o.Kper {
		return k.Kper < o.Kper
	}
	return k.Kstp < o.Kstp
}
