// SPDX-License-Identifier: MIT
// Package: usgflow/binaryfile
//
// head.go — dependent-variable array files.
//
// Contract:
//   • Structured records hold one layer (ilay) of ncol×nrow values, row-major.
//   • KindHeadU records hold the nodes [ncol, nrow] (1-based, inclusive) of
//     layer ilay; layers may have different node counts.
//   • KindConcentration headers carry ntrans and no pertim (Pertim is 0).
//   • GetData assembles every record of one key (or time) that shares the
//     label of the first such record.

package binaryfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/usgflow/datafile"
)

// Kind selects a head record layout.
type Kind int

const (
	// KindHead is a structured array file (heads, drawdown).
	KindHead Kind = iota
	// KindHeadU is an unstructured array file with node ranges.
	KindHeadU
	// KindConcentration is a transport concentration file.
	KindConcentration
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindHead:
		return "head"
	case KindHeadU:
		return "headu"
	case KindConcentration:
		return "concentration"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// headLayout decodes head, headu and concentration headers.
type headLayout struct {
	kind Kind
	auto bool
}

// headerLen returns the header size for float width fw.
func (h headLayout) headerLen(fw int) int {
	if h.kind == KindConcentration {
		return 3*4 + fw + datafile.TextLen + 3*4
	}
	return 2*4 + 2*fw + datafile.TextLen + 3*4
}

// resolve picks KindHeadU for labels ending in U when auto.
func (h headLayout) resolve(text []byte) Kind {
	if !h.auto {
		return h.kind
	}
	if strings.HasSuffix(strings.ToUpper(strings.TrimSpace(string(text))), "U") {
		return KindHeadU
	}
	return KindHead
}

func (h headLayout) entryAt(r io.ReaderAt, size, off int64, dec datafile.Decoder) (datafile.Entry, error) {
	fw := dec.Prec.Size()
	n := h.headerLen(fw)
	if off+int64(n) > size {
		return datafile.Entry{}, implausible(off, "header runs past EOF")
	}
	b, err := datafile.ReadAt(r, off, n)
	if err != nil {
		return datafile.Entry{}, err
	}

	// 1) Decode.
	e := datafile.Entry{HeaderOffset: off}
	p := 0
	if h.kind == KindConcentration {
		e.Ntrans = dec.Int32(b, 0)
		e.Key = datafile.Key{Kstp: dec.Int32(b, 4), Kper: dec.Int32(b, 8)}
		e.Totim = dec.Float(b, 12)
		p = 12 + fw
	} else {
		e.Key = datafile.Key{Kstp: dec.Int32(b, 0), Kper: dec.Int32(b, 4)}
		e.Pertim = dec.Float(b, 8)
		e.Totim = dec.Float(b, 8+fw)
		p = 8 + 2*fw
	}
	text := b[p : p+datafile.TextLen]
	p += datafile.TextLen
	e.Text = string(text)
	e.Ncol, e.Nrow, e.Ilay = dec.Int32(b, p), dec.Int32(b, p+4), dec.Int32(b, p+8)

	// 2) Plausibility.
	if !datafile.ValidLabel(text) {
		return e, implausible(off, "label %q", text)
	}
	if e.Key.Kstp < 1 || e.Key.Kper < 1 || e.Ilay < 1 {
		return e, implausible(off, "kstp=%d kper=%d ilay=%d", e.Key.Kstp, e.Key.Kper, e.Ilay)
	}
	if !finiteNonNeg(e.Pertim, e.Totim) {
		return e, implausible(off, "pertim=%g totim=%g", e.Pertim, e.Totim)
	}
	var count int64
	if h.resolve(text) == KindHeadU {
		if e.Ncol < 1 || e.Nrow < e.Ncol {
			return e, implausible(off, "node range %d..%d", e.Ncol, e.Nrow)
		}
		count = int64(e.Nrow - e.Ncol + 1)
	} else {
		if e.Ncol < 1 || e.Nrow < 1 {
			return e, implausible(off, "ncol=%d nrow=%d", e.Ncol, e.Nrow)
		}
		count = int64(e.Ncol) * int64(e.Nrow)
	}
	e.Nlay = 1
	e.DataOffset = off + int64(n)
	e.DataLength = count * int64(fw)
	return e, nil
}

// HeadRecord is one decoded array record.
type HeadRecord struct {
	datafile.Entry
	Values []float64
}

// Array is every layer of one output time.
type Array struct {
	Key   datafile.Key
	Totim float64
	Text  string
	// Nrow, Ncol are the structured layer shape; 0 for KindHeadU.
	Nrow, Ncol int
	// Layers[k] holds layer k+1; nil when the file has no record for it.
	Layers [][]float64
}

// At returns the value at 0-based (lay, row, col) of a structured array.
func (a *Array) At(lay, row, col int) float64 {
	return a.Layers[lay][row*a.Ncol+col]
}

// Nodes returns all layers concatenated in layer order.
func (a *Array) Nodes() []float64 {
	var out []float64
	for _, l := range a.Layers {
		out = append(out, l...)
	}
	return out
}

// HeadFile reads a dependent-variable array file.
type HeadFile struct {
	*file
	kind Kind
}

// OpenHeadFile indexes the file at path.
func OpenHeadFile(path string, opts ...Option) (*HeadFile, error) {
	return newHeadFile(datafile.PathSource(path), opts)
}

// OpenConcentrationFile indexes a concentration file at path.
func OpenConcentrationFile(path string, opts ...Option) (*HeadFile, error) {
	return newHeadFile(datafile.PathSource(path), append(opts, WithKind(KindConcentration)))
}

// NewHeadFile indexes size bytes of r. r must stay readable while the
// HeadFile is used.
func NewHeadFile(r io.ReaderAt, size int64, opts ...Option) (*HeadFile, error) {
	return newHeadFile(datafile.ReaderSource(r, size, "<reader>"), opts)
}

func newHeadFile(src datafile.Source, opts []Option) (*HeadFile, error) {
	cfg := newConfig(opts)
	lay := headLayout{kind: cfg.kind, auto: !cfg.kindSet}
	f, err := openFile(src, lay, cfg, func(e *datafile.Entry) { checkHeadShape(cfg, lay, e) })
	if err != nil {
		return nil, err
	}
	hf := &HeadFile{file: f, kind: cfg.kind}
	if lay.auto && f.index.Len() > 0 {
		hf.kind = lay.resolve([]byte(f.index.Entries[0].Text))
	}
	return hf, nil
}

func checkHeadShape(cfg config, lay headLayout, e *datafile.Entry) {
	s := cfg.shape
	if s == nil || lay.resolve([]byte(e.Text)) == KindHeadU {
		return
	}
	if e.Ncol != s.Ncol || e.Nrow != s.Nrow || e.Ilay > s.Nlay {
		e.Err = fmt.Errorf("record %s ilay %d is %d×%d, want %d×%d in %d layers: %w",
			e.Key, e.Ilay, e.Nrow, e.Ncol, s.Nrow, s.Ncol, s.Nlay, datafile.ErrShapeMismatch)
	}
}

// Kind returns the record layout of the file.
func (hf *HeadFile) Kind() Kind { return hf.kind }

// NLay returns the highest layer number present (or the declared shape).
func (hf *HeadFile) NLay() int {
	if hf.cfg.shape != nil {
		return hf.cfg.shape.Nlay
	}
	n := 0
	for _, e := range hf.index.Entries {
		n = max(n, e.Ilay)
	}
	return n
}

// ReadRecord decodes record i.
func (hf *HeadFile) ReadRecord(i int) (*HeadRecord, error) {
	var rec *HeadRecord
	err := hf.withReader(func(r io.ReaderAt) error {
		var err error
		rec, err = hf.readRecord(r, i)
		return err
	})
	return rec, err
}

func (hf *HeadFile) readRecord(r io.ReaderAt, i int) (*HeadRecord, error) {
	e, err := hf.entry(i)
	if err != nil {
		return nil, err
	}
	if e.Err != nil {
		return nil, e.Err
	}
	b, err := datafile.ReadAt(r, e.DataOffset, int(e.DataLength))
	if err != nil {
		return nil, err
	}
	n := int(e.DataLength) / hf.dec.Prec.Size()
	return &HeadRecord{Entry: e, Values: hf.dec.Floats(b, 0, n)}, nil
}

// ReadAll decodes every record in file order.
func (hf *HeadFile) ReadAll() ([]*HeadRecord, error) {
	out := make([]*HeadRecord, hf.Len())
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
func (hf *HeadFile) GetData(key datafile.Key) (*Array, error) {
	idx := hf.index.FindKey(key)
	if len(idx) == 0 {
		return nil, fmt.Errorf("key %s: %w", key, datafile.ErrNotFound)
	}
	return hf.assemble(idx)
}

// GetDataAtTime returns the array written at simulation time totim.
func (hf *HeadFile) GetDataAtTime(totim float64) (*Array, error) {
	idx := hf.index.FindTime(totim)
	if len(idx) == 0 {
		return nil, fmt.Errorf("time %g: %w", totim, datafile.ErrNotFound)
	}
	return hf.assemble(idx)
}

func (hf *HeadFile) assemble(idx []int) (*Array, error) {
	first := hf.index.Entries[idx[0]]
	a := &Array{Key: first.Key, Totim: first.Totim, Text: strings.TrimSpace(first.Text)}
	if hf.kind != KindHeadU {
		a.Nrow, a.Ncol = first.Nrow, first.Ncol
	}
	a.Layers = make([][]float64, hf.NLay())
	err := hf.withReader(func(r io.ReaderAt) error {
		for _, i := range idx {
			if hf.index.Entries[i].Text != first.Text {
				continue
			}
			rec, err := hf.readRecord(r, i)
			if err != nil {
				return err
			}
			if rec.Ilay > len(a.Layers) {
				return fmt.Errorf("record %d layer %d beyond %d layers: %w", i, rec.Ilay, len(a.Layers), datafile.ErrShapeMismatch)
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

// TimeSeries returns the value of structured cell (lay, row, col), 0-based,
// at every output time. Only the requested value is read from each record.
func (hf *HeadFile) TimeSeries(lay, row, col int) (times, values []float64, err error) {
	if hf.kind == KindHeadU {
		return nil, nil, fmt.Errorf("structured time series on %s file: %w", hf.kind, datafile.ErrShapeMismatch)
	}
	return hf.series(func(e *datafile.Entry) (int64, bool) {
		if e.Ilay != lay+1 || row < 0 || row >= e.Nrow || col < 0 || col >= e.Ncol {
			return 0, false
		}
		return int64(row*e.Ncol + col), true
	})
}

// TimeSeriesNode returns the value of 0-based node at every output time of
// a KindHeadU file.
func (hf *HeadFile) TimeSeriesNode(node int) (times, values []float64, err error) {
	if hf.kind != KindHeadU {
		return nil, nil, fmt.Errorf("node time series on %s file: %w", hf.kind, datafile.ErrShapeMismatch)
	}
	return hf.series(func(e *datafile.Entry) (int64, bool) {
		if node+1 < e.Ncol || node+1 > e.Nrow {
			return 0, false
		}
		return int64(node + 1 - e.Ncol), true
	})
}

// series reads one value per output time; locate maps an entry to the
// value position inside its payload.
func (hf *HeadFile) series(locate func(*datafile.Entry) (int64, bool)) (times, values []float64, err error) {
	fw := hf.dec.Prec.Size()
	var text string
	if hf.Len() > 0 {
		text = hf.index.Entries[0].Text
	}
	err = hf.withReader(func(r io.ReaderAt) error {
		for i := range hf.index.Entries {
			e := &hf.index.Entries[i]
			if e.Text != text {
				continue
			}
			pos, ok := locate(e)
			if !ok {
				continue
			}
			if e.Err != nil {
				return e.Err
			}
			b, err := datafile.ReadAt(r, e.DataOffset+pos*int64(fw), fw)
			if err != nil {
				return err
			}
			times = append(times, e.Totim)
			values = append(values, hf.dec.Float(b, 0))
		}
		return nil
	})
	if err == nil && len(times) == 0 {
		err = fmt.Errorf("cell not present in any record: %w", datafile.ErrNotFound)
	}
	return times, values, err
}
