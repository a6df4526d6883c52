// SPDX-License-Identifier: MIT
// Package: usgflow/datafile
//
// codec.go — fixed-width values at explicit offsets.
//
// Decoder methods take the buffer and the offset of the value; Encoder
// methods append to a buffer. Both assume the caller sized the buffer from
// the header, so decoding panics only on programmer error.

package datafile

import (
	"encoding/binary"
	"math"
	"strings"
)

// TextLen is the width of record labels.
const TextLen = 16

// Decoder reads values with a fixed byte order and precision.
type Decoder struct {
	Order binary.ByteOrder
	Prec  Precision
}

// Int32 decodes a 4-byte integer at off.
func (d Decoder) Int32(b []byte, off int) int {
	return int(int32(d.Order.Uint32(b[off:])))
}

// Float decodes one float of the decoder's precision at off.
func (d Decoder) Float(b []byte, off int) float64 {
	if d.Prec == Double {
		return math.Float64frombits(d.Order.Uint64(b[off:]))
	}
	return float64(math.Float32frombits(d.Order.Uint32(b[off:])))
}

// Float32 decodes a 4-byte float at off regardless of precision.
func (d Decoder) Float32(b []byte, off int) float64 {
	return float64(math.Float32frombits(d.Order.Uint32(b[off:])))
}

// Floats decodes n floats starting at off.
func (d Decoder) Floats(b []byte, off, n int) []float64 {
	out := make([]float64, n)
	w := d.Prec.Size()
	for i := range out {
		out[i] = d.Float(b, off+i*w)
	}
	return out
}

// Int32s decodes n integers starting at off.
func (d Decoder) Int32s(b []byte, off, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = d.Int32(b, off+4*i)
	}
	return out
}

// Text decodes an n-byte label at off, keeping its padding.
func (d Decoder) Text(b []byte, off, n int) string {
	return string(b[off : off+n])
}

// Encoder writes values with a fixed byte order and precision.
type Encoder struct {
	Order binary.ByteOrder
	Prec  Precision
}

// AppendInt32 appends v as a 4-byte integer.
func (e Encoder) AppendInt32(b []byte, v int) []byte {
	var tmp [4]byte
	e.Order.PutUint32(tmp[:], uint32(int32(v)))
	return append(b, tmp[:]...)
}

// AppendFloat appends v at the encoder's precision.
func (e Encoder) AppendFloat(b []byte, v float64) []byte {
	if e.Prec == Double {
		var tmp [8]byte
		e.Order.PutUint64(tmp[:], math.Float64bits(v))
		return append(b, tmp[:]...)
	}
	var tmp [4]byte
	e.Order.PutUint32(tmp[:], math.Float32bits(float32(v)))
	return append(b, tmp[:]...)
}

// AppendFloats appends every value of vs.
func (e Encoder) AppendFloats(b []byte, vs []float64) []byte {
	for _, v := range vs {
		b = e.AppendFloat(b, v)
	}
	return b
}

// AppendInt32s appends every value of vs.
func (e Encoder) AppendInt32s(b []byte, vs []int) []byte {
	for _, v := range vs {
		b = e.AppendInt32(b, v)
	}
	return b
}

// AppendText appends s as an n-byte label (see PadText).
func (e Encoder) AppendText(b []byte, s string, n int) []byte {
	return append(b, PadText(s, n)...)
}

// PadText returns s right-justified in n bytes, the way the simulator
// writes labels. Longer strings are truncated.
func PadText(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return strings.Repeat(" ", n-len(s)) + s
}

// ValidLabel reports whether b looks like a record label: printable ASCII
// with at least one letter.
func ValidLabel(b []byte) bool {
	letter := false
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			letter = true
		}
	}
	return letter
}
