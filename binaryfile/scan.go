// SPDX-License-Identifier: MIT
// Package: usgflow/binaryfile
//
// scan.go — precision probing, header scan and per-read file access.
//
// Contract:
//   • A layout decodes one header at an explicit offset and reports where
//     its payload lives; it rejects implausible headers with
//     datafile.ErrCorruptFile.
//   • The file is opened once for the scan and once per read operation,
//     and closed on every exit path.

package binaryfile

import (
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/datafile"
)

// layout decodes record headers of one file family.
type layout interface {
	entryAt(r io.ReaderAt, size, off int64, dec datafile.Decoder) (datafile.Entry, error)
}

func implausible(off int64, format string, args ...any) error {
	return fmt.Errorf("header at offset %d: %s: %w", off, fmt.Sprintf(format, args...), datafile.ErrCorruptFile)
}

func finiteNonNeg(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}

// detect probes double, then single precision.
func detect(r io.ReaderAt, size int64, lay layout, cfg config) (datafile.Precision, error) {
	if size == 0 {
		return datafile.Auto, fmt.Errorf("empty file: %w", datafile.ErrCorruptFile)
	}
	for _, p := range []datafile.Precision{datafile.Double, datafile.Single} {
		dec := datafile.Decoder{Order: cfg.order, Prec: p}
		e, err := lay.entryAt(r, size, 0, dec)
		if err != nil || e.End() > size {
			continue
		}
		if e.End() == size {
			return p, nil
		}
		if _, err := lay.entryAt(r, size, e.End(), dec); err == nil {
			return p, nil
		}
	}
	return datafile.Auto, fmt.Errorf("precision detection failed: %w", datafile.ErrCorruptFile)
}

// scan indexes every record until EOF or the first unreadable one.
func scan(r io.ReaderAt, size int64, lay layout, dec datafile.Decoder, cfg config, name string, check func(*datafile.Entry)) *datafile.Index {
	ix := &datafile.Index{}
	var off int64
	for off < size {
		e, err := lay.entryAt(r, size, off, dec)
		if err == nil && e.End() > size {
			err = fmt.Errorf("record at offset %d ends at %d past EOF %d: %w", off, e.End(), size, datafile.ErrCorruptFile)
		}
		if err != nil {
			ix.Truncated = true
			cfg.logger.Warn("index truncated",
				zap.String("file", name), zap.Int("records", ix.Len()),
				zap.Int64("offset", off), zap.Error(err))
			break
		}
		if check != nil {
			check(&e)
		}
		ix.Add(e)
		off = e.End()
	}
	return ix
}

// file is the state shared by head and budget readers.
type file struct {
	src   datafile.Source
	cfg   config
	dec   datafile.Decoder
	index *datafile.Index
}

func openFile(src datafile.Source, lay layout, cfg config, check func(*datafile.Entry)) (*file, error) {
	r, size, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	prec := cfg.prec
	if prec == datafile.Auto {
		if prec, err = detect(r, size, lay, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name(), err)
		}
	}
	dec := datafile.Decoder{Order: cfg.order, Prec: prec}
	ix := scan(r, size, lay, dec, cfg, src.Name(), check)
	cfg.logger.Debug("file indexed",
		zap.String("file", src.Name()), zap.Stringer("precision", prec),
		zap.Int("records", ix.Len()), zap.Bool("truncated", ix.Truncated))
	return &file{src: src, cfg: cfg, dec: dec, index: ix}, nil
}

// Index returns the record index.
func (f *file) Index() *datafile.Index { return f.index }

// Precision returns the (detected) float precision.
func (f *file) Precision() datafile.Precision { return f.dec.Prec }

// Len returns the number of indexed records.
func (f *file) Len() int { return f.index.Len() }

// Times returns the unique simulation times in file order.
func (f *file) Times() []float64 { return f.index.Times() }

// KstpKper returns the unique keys in file order.
func (f *file) KstpKper() []datafile.Key { return f.index.KstpKper() }

// entry returns entry i or ErrNotFound.
func (f *file) entry(i int) (datafile.Entry, error) {
	if i < 0 || i >= f.index.Len() {
		return datafile.Entry{}, fmt.Errorf("record %d of %d: %w", i, f.index.Len(), datafile.ErrNotFound)
	}
	return f.index.Entries[i], nil
}

// withReader opens the source for one operation.
func (f *file) withReader(fn func(r io.ReaderAt) error) error {
	r, _, err := f.src.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(r)
}
