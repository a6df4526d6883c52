// SPDX-License-Identifier: MIT
// Package: usgflow/formattedfile
//
// file.go — line-offset index and explicit-offset reads.
//
// Contract:
//   • Entry.HeaderOffset is the byte offset of the header line,
//     DataOffset/DataLength span the value lines (newlines included).
//   • Entry.Text is the trimmed label.
//   • Records are decoded into binaryfile.HeadRecord / binaryfile.Array so
//     formatted and binary heads are interchangeable downstream.

package formattedfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/binaryfile"
	"github.com/katalvlaran/usgflow/datafile"
)

// Option customizes readers.
type Option func(*config)

type config struct {
	logger *zap.Logger
}

// WithLogger routes scan warnings to l. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("formattedfile: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}

// HeadFile reads a formatted array file.
type HeadFile struct {
	src     datafile.Source
	index   *datafile.Index
	formats []*Format // nil entries split on whitespace
}

// Open indexes the file at path.
func Open(path string, opts ...Option) (*HeadFile, error) {
	return newHeadFile(datafile.PathSource(path), opts)
}

// New indexes size bytes of r. r must stay readable while the HeadFile is
// used.
func New(r io.ReaderAt, size int64, opts ...Option) (*HeadFile, error) {
	return newHeadFile(datafile.ReaderSource(r, size, "<reader>"), opts)
}

func newHeadFile(src datafile.Source, opts []Option) (*HeadFile, error) {
	cfg := config{logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}
	r, size, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	hf := &HeadFile{src: src, index: &datafile.Index{}}
	if err := hf.scan(r, size); err != nil {
		if hf.index.Len() == 0 {
			return nil, fmt.Errorf("%s: %w", src.Name(), err)
		}
		hf.index.Truncated = true
		cfg.logger.Warn("index truncated",
			zap.String("file", src.Name()), zap.Int("records", hf.index.Len()), zap.Error(err))
	}
	if hf.index.Len() == 0 {
		return nil, fmt.Errorf("%s: no records: %w", src.Name(), datafile.ErrCorruptFile)
	}
	return hf, nil
}

// lineReader tracks the byte offset of every line it returns.
type lineReader struct {
	br  *bufio.Reader
	off int64
}

// next returns the next line and its start offset; io.EOF at the end.
func (lr *lineReader) next() (string, int64, error) {
	s, err := lr.br.ReadString('\n')
	start := lr.off
	lr.off += int64(len(s))
	if errors.Is(err, io.EOF) && s != "" {
		err = nil
	}
	return s, start, err
}

func (hf *HeadFile) scan(r io.ReaderAt, size int64) error {
	lr := &lineReader{br: bufio.NewReader(io.NewSectionReader(r, 0, size))}
	var vals []float64
	for {
		line, start, err := lr.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		// 1) Header.
		e, f, err := parseHeader(line)
		if err != nil {
			return fmt.Errorf("header at offset %d: %w", start, err)
		}
		e.HeaderOffset, e.DataOffset = start, lr.off

		// 2) Value lines until ncol·nrow values are seen.
		want := e.Ncol * e.Nrow
		vals = vals[:0]
		for len(vals) < want {
			l, _, err := lr.next()
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("record at offset %d: %d of %d values before EOF: %w", start, len(vals), want, datafile.ErrCorruptFile)
			}
			if err != nil {
				return err
			}
			if vals, err = f.split(l, vals); err != nil {
				return fmt.Errorf("record at offset %d: %w", start, err)
			}
		}
		if len(vals) != want {
			return fmt.Errorf("record at offset %d: %d values for %d cells: %w", start, len(vals), want, datafile.ErrCorruptFile)
		}
		e.DataLength = lr.off - e.DataOffset
		hf.index.Add(e)
		hf.formats = append(hf.formats, f)
	}
}

// parseHeader decodes "kstp kper pertim totim text… ncol nrow ilay fmtin".
func parseHeader(line string) (datafile.Entry, *Format, error) {
	tok := strings.Fields(line)
	if len(tok) < 9 {
		return datafile.Entry{}, nil, fmt.Errorf("%d fields: %w", len(tok), datafile.ErrCorruptFile)
	}
	n := len(tok)
	ints := make([]int, 0, 5)
	for _, s := range []string{tok[0], tok[1], tok[n-4], tok[n-3], tok[n-2]} {
		v, err := strconv.Atoi(s)
		if err != nil {
			return datafile.Entry{}, nil, fmt.Errorf("%q is not an integer: %w", s, datafile.ErrCorruptFile)
		}
		ints = append(ints, v)
	}
	pertim, err1 := datafile.ParseFloat(tok[2])
	totim, err2 := datafile.ParseFloat(tok[3])
	if err1 != nil || err2 != nil {
		return datafile.Entry{}, nil, fmt.Errorf("times %q %q: %w", tok[2], tok[3], datafile.ErrCorruptFile)
	}
	e := datafile.Entry{
		Key:    datafile.Key{Kstp: ints[0], Kper: ints[1]},
		Pertim: pertim, Totim: totim,
		Text: strings.Join(tok[4:n-4], " "),
		Ncol: ints[2], Nrow: ints[3], Ilay: ints[4], Nlay: 1,
	}
	if e.Key.Kstp < 1 || e.Key.Kper < 1 || e.Ncol < 1 || e.Nrow < 1 || e.Ilay < 1 {
		return e, nil, fmt.Errorf("kstp=%d kper=%d ncol=%d nrow=%d ilay=%d: %w",
			e.Key.Kstp, e.Key.Kper, e.Ncol, e.Nrow, e.Ilay, datafile.ErrCorruptFile)
	}
	var f *Format
	if pf, err := ParseFormat(tok[n-1]); err == nil {
		f = &pf
	}
	return e, f, nil
}

// Index returns the record index.
func (hf *HeadFile) Index() *datafile.Index { return hf.index }

// Len returns the number of records.
func (hf *HeadFile) Len() int { return hf.index.Len() }

// Times returns the unique simulation times in file order.
func (hf *HeadFile) Times() []float64 { return hf.index.Times() }

// KstpKper returns the unique keys in file order.
func (hf *HeadFile) KstpKper() []datafile.Key { return hf.index.KstpKper() }

// NLay returns the highest layer number present.
func (hf *HeadFile) NLay() int {
	n := 0
	for _, e := range hf.index.Entries {
		n = max(n, e.Ilay)
	}
	return n
}

func (hf *HeadFile) withReader(fn func(r io.ReaderAt) error) error {
	r, _, err := hf.src.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(r)
}

// ReadRecord decodes record i.
func (hf *HeadFile) ReadRecord(i int) (*binaryfile.HeadRecord, error) {
	var rec *binaryfile.HeadRecord
	err := hf.withReader(func(r io.ReaderAt) error {
		var err error
		rec, err = hf.readRecord(r, i)
		return err
	})
	return rec, err
}

func (hf *HeadFile) readRecord(r io.ReaderAt, i int) (*binaryfile.HeadRecord, error) {
	if i < 0 || i >= hf.index.Len() {
		return nil, fmt.Errorf("record %d of %d: %w", i, hf.index.Len(), datafile.ErrNotFound)
	}
	e := hf.index.Entries[i]
	b, err := datafile.ReadAt(r, e.DataOffset, int(e.DataLength))
	if err != nil {
		return nil, err
	}
	vals := make([]float64, 0, e.Ncol*e.Nrow)
	for _, line := range strings.SplitAfter(string(b), "\n") {
		if vals, err = hf.formats[i].split(line, vals); err != nil {
			return nil, err
		}
	}
	if len(vals) != e.Ncol*e.Nrow {
		return nil, fmt.Errorf("record %d: %d values for %d cells: %w", i, len(vals), e.Ncol*e.Nrow, datafile.ErrCorruptFile)
	}
	return &binaryfile.HeadRecord{Entry: e, Values: vals}, nil
}

// ReadAll decodes every record in file order.
func (hf *HeadFile) ReadAll() ([]*binaryfile.HeadRecord, error) {
	out := make([]*binaryfile.HeadRecord, hf.Len())
	err := hf.withReader(func(r io.ReaderAt) error {
		for i := range out {
			rec, err := hf.readRecord(r, i)
			if err != nil {
				return err
			}
			out[i] = rec
		}
		return nil
	})
	return out, err
}

// GetData returns the array written for key.
func (hf *HeadFile) GetData(key datafile.Key) (*binaryfile.Array, error) {
	idx := hf.index.FindKey(key)
	if len(idx) == 0 {
		return nil, fmt.Errorf("key %s: %w", key, datafile.ErrNotFound)
	}
	return hf.assemble(idx)
}

// GetDataAtTime returns the array written at simulation time totim.
func (hf *HeadFile) GetDataAtTime(totim float64) (*binaryfile.Array, error) {
	idx := hf.index.FindTime(totim)
	if len(idx) == 0 {
		return nil, fmt.Errorf("time %g: %w", totim, datafile.ErrNotFound)
	}
	return hf.assemble(idx)
}

func (hf *HeadFile) assemble(idx []int) (*binaryfile.Array, error) {
	first := hf.index.Entries[idx[0]]
	a := &binaryfile.Array{
		Key: first.Key, Totim: first.Totim, Text: first.Text,
		Nrow: first.Nrow, Ncol: first.Ncol,
		Layers: make([][]float64, hf.NLay()),
	}
	err := hf.withReader(func(r io.ReaderAt) error {
		for _, i := range idx {
			if hf.index.Entries[i].Text != first.Text {
				continue
			}
			rec, err := hf.readRecord(r, i)
			if err != nil {
				return err
			}
			a.Layers[rec.Ilay-1] = rec.Values
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// TimeSeries returns the value of cell (lay, row, col), 0-based, at every
// output time of the first label in the file.
func (hf *HeadFile) TimeSeries(lay, row, col int) (times, values []float64, err error) {
	text := hf.index.Entries[0].Text
	err = hf.withReader(func(r io.ReaderAt) error {
		for i, e := range hf.index.Entries {
			if e.Text != text || e.Ilay != lay+1 || row < 0 || row >= e.Nrow || col < 0 || col >= e.Ncol {
				continue
			}
			rec, err := hf.readRecord(r, i)
			if err != nil {
				return err
			}
			times = append(times, e.Totim)
			values = append(values, rec.Values[row*e.Ncol+col])
		}
		return nil
	})
	if err == nil && len(times) == 0 {
		err = fmt.Errorf("cell (%d, %d, %d) not present in any record: %w", lay, row, col, datafile.ErrNotFound)
	}
	return times, values, err
}
