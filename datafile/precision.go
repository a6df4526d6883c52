// SPDX-License-Identifier: MIT

package datafile

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// DefaultByteOrder is the byte order assumed when none is configured. The
// simulator writes native-endian stream files.
var DefaultByteOrder binary.ByteOrder = binary.NativeEndian

// Precision is the floating point width of a file.
type Precision int

const (
	// Auto asks the reader to detect the precision.
	Auto Precision = iota
	// Single is 4-byte IEEE-754.
	Single
	// Double is 8-byte IEEE-754.
	Double
)

// Size returns the width in bytes, or 0 for Auto.
func (p Precision) Size() int {
	switch p {
	case Single:
		return 4
	case Double:
		return 8
	}
	return 0
}

// String implements fmt.Stringer.
func (p Precision) String() string {
	switch p {
	case Auto:
		return "auto"
	case Single:
		return "single"
	case Double:
		return "double"
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

// ParsePrecision maps "auto", "single" or "double" (any case) to a Precision.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "single", "float32":
		return Single, nil
	case "double", "float64":
		return Double, nil
	}
	return Auto, fmt.Errorf("datafile: unknown precision %q", s)
}

// ParseByteOrder maps "native", "little" or "big" to a byte order.
func ParseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native":
		return binary.NativeEndian, nil
	case "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("datafile: unknown byte order %q", s)
}
