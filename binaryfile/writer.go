// SPDX-License-Identifier: MIT
// Package: usgflow/binaryfile
//
// writer.go — binary record writer.
//
// Contract:
//   • Headers come from datafile.Entry: the same fields the readers fill,
//     so a read record can be written back unchanged.
//   • Labels shorter than 16 bytes are right-justified; 16-byte labels are
//     written as they are.
//   • ArrayPayload{Compact: false} is written with a plain header
//     (ndim3 > 0); every other payload uses the compact header.
//   • Precision Auto writes double precision.

package binaryfile

import (
	"fmt"
	"io"

	"github.com/katalvlaran/usgflow/datafile"
)

// Writer appends records to w.
type Writer struct {
	w    io.Writer
	enc  datafile.Encoder
	kind Kind
}

// NewWriter returns a writer honouring WithPrecision, WithByteOrder and
// WithKind.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	cfg := newConfig(opts)
	prec := cfg.prec
	if prec == datafile.Auto {
		prec = datafile.Double
	}
	return &Writer{w: w, enc: datafile.Encoder{Order: cfg.order, Prec: prec}, kind: cfg.kind}
}

// Precision returns the float width written.
func (w *Writer) Precision() datafile.Precision { return w.enc.Prec }

// WriteHead writes one array record.
func (w *Writer) WriteHead(e datafile.Entry, values []float64) error {
	want := e.Ncol * e.Nrow
	if w.kind == KindHeadU {
		want = e.Nrow - e.Ncol + 1
	}
	if len(values) != want {
		return fmt.Errorf("record %s: %d values for %d cells: %w", e.Key, len(values), want, datafile.ErrShapeMismatch)
	}
	b := w.appendHeadHeader(nil, e)
	b = w.enc.AppendFloats(b, values)
	_, err := w.w.Write(b)
	return err
}

func (w *Writer) appendHeadHeader(b []byte, e datafile.Entry) []byte {
	if w.kind == KindConcentration {
		b = w.enc.AppendInt32(b, e.Ntrans)
		b = w.enc.AppendInt32(b, e.Key.Kstp)
		b = w.enc.AppendInt32(b, e.Key.Kper)
		b = w.enc.AppendFloat(b, e.Totim)
	} else {
		b = w.enc.AppendInt32(b, e.Key.Kstp)
		b = w.enc.AppendInt32(b, e.Key.Kper)
		b = w.enc.AppendFloat(b, e.Pertim)
		b = w.enc.AppendFloat(b, e.Totim)
	}
	b = w.enc.AppendText(b, e.Text, datafile.TextLen)
	b = w.enc.AppendInt32(b, e.Ncol)
	b = w.enc.AppendInt32(b, e.Nrow)
	return w.enc.AppendInt32(b, e.Ilay)
}

// WriteBudget writes one budget record.
func (w *Writer) WriteBudget(e datafile.Entry, p Payload) error {
	if err := checkPayload(e, p); err != nil {
		return err
	}
	b := w.appendBudgetHeader(nil, e, p)
	b = p.appendTo(w.enc, b)
	_, err := w.w.Write(b)
	return err
}

func (w *Writer) appendBudgetHeader(b []byte, e datafile.Entry, p Payload) []byte {
	nlay := max(e.Nlay, 1)
	compact := p.Method() != MethodArray
	b = w.enc.AppendInt32(b, e.Key.Kstp)
	b = w.enc.AppendInt32(b, e.Key.Kper)
	b = w.enc.AppendText(b, e.Text, datafile.TextLen)
	b = w.enc.AppendInt32(b, e.Ncol)
	b = w.enc.AppendInt32(b, e.Nrow)
	if !compact {
		return w.enc.AppendInt32(b, nlay)
	}
	b = w.enc.AppendInt32(b, -nlay)
	b = w.enc.AppendInt32(b, int(p.Method()))
	b = w.enc.AppendFloat(b, e.Delt)
	b = w.enc.AppendFloat(b, e.Pertim)
	return w.enc.AppendFloat(b, e.Totim)
}

func checkPayload(e datafile.Entry, p Payload) error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("record %s %q: %s: %w", e.Key, e.Text, fmt.Sprintf(format, args...), datafile.ErrShapeMismatch)
	}
	switch v := p.(type) {
	case *ArrayPayload:
		if want := e.Ncol * e.Nrow * max(e.Nlay, 1); len(v.Values) != want {
			return bad("%d values for %d cells", len(v.Values), want)
		}
	case *LayerArrayPayload:
		want := e.Ncol * e.Nrow
		if len(v.Values) != want || (v.Layers != nil && len(v.Layers) != want) {
			return bad("layer array of %d values for %d cells", len(v.Values), want)
		}
	case *ListPayload:
		if len(v.Q) != len(v.Nodes) {
			return bad("%d flows for %d nodes", len(v.Q), len(v.Nodes))
		}
		if v.Aux != nil {
			if len(v.AuxValues) != len(v.Nodes) {
				return bad("%d aux rows for %d nodes", len(v.AuxValues), len(v.Nodes))
			}
			for i, row := range v.AuxValues {
				if len(row) != len(v.Aux) {
					return bad("aux row %d has %d values for %d names", i, len(row), len(v.Aux))
				}
			}
		}
	case *NamedListPayload:
		n := len(v.ID1)
		if len(v.ID2) != n || len(v.Q) != n || len(v.AuxValues) != n {
			return bad("named list columns differ in length")
		}
		for i, row := range v.AuxValues {
			if len(row) != len(v.Aux) {
				return bad("aux row %d has %d values for %d names", i, len(row), len(v.Aux))
			}
		}
	}
	return nil
}
