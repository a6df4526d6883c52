// SPDX-License-Identifier: MIT
// Package: usgflow/formattedfile
//
// writer.go — formatted array writer.

package formattedfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/usgflow/datafile"
)

// Writer writes formatted array records with one edit descriptor.
type Writer struct {
	w     io.Writer
	f     Format
	fmtin string
}

// NewWriter returns a writer using descriptor fmtin (DefaultFormat when
// empty). Descriptors ParseFormat rejects return ErrFormat.
func NewWriter(w io.Writer, fmtin string) (*Writer, error) {
	if fmtin == "" {
		fmtin = DefaultFormat
	}
	f, err := ParseFormat(fmtin)
	if err != nil {
		return nil, err
	}
	return &Writer{w: w, f: f, fmtin: strings.ToUpper(strings.ReplaceAll(fmtin, " ", ""))}, nil
}

// WriteRecord writes the header of e and ncol·nrow values wrapped at the
// descriptor's repeat count.
func (w *Writer) WriteRecord(e datafile.Entry, values []float64) error {
	if len(values) != e.Ncol*e.Nrow {
		return fmt.Errorf("record %s: %d values for %d cells: %w", e.Key, len(values), e.Ncol*e.Nrow, datafile.ErrShapeMismatch)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, " %5d%5d%15.7E%15.7E %s%6d%6d%6d %s\n",
		e.Key.Kstp, e.Key.Kper, e.Pertim, e.Totim,
		datafile.PadText(strings.TrimSpace(e.Text), datafile.TextLen),
		e.Ncol, e.Nrow, e.Ilay, w.fmtin)
	for i, v := range values {
		sb.WriteString(w.f.field(v))
		if (i+1)%w.f.PerLine == 0 || i == len(values)-1 {
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w.w, sb.String())
	return err
}
