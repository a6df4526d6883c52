// SPDX-License-Identifier: MIT
// Package: usgflow/binaryfile
//
// budget.go — cell-by-cell budget files.
//
// Contract:
//   • ndim1, ndim2, |ndim3| map to Entry.Ncol, Nrow, Nlay.
//   • Non-compact records (ndim3 > 0) carry no times: Delt, Pertim and
//     Totim are 0 and Method is MethodArray.
//   • GetData and Records match labels ignoring case and padding.

package binaryfile

import (
	"fmt"
	"io"

	"github.com/katalvlaran/usgflow/datafile"
)

// budgetHeaderLen is kstp, kper, text, ndim1..3.
const budgetHeaderLen = 2*4 + datafile.TextLen + 3*4

type budgetLayout struct{}

func (budgetLayout) entryAt(r io.ReaderAt, size, off int64, dec datafile.Decoder) (datafile.Entry, error) {
	fw := dec.Prec.Size()
	if off+budgetHeaderLen > size {
		return datafile.Entry{}, implausible(off, "header runs past EOF")
	}
	b, err := datafile.ReadAt(r, off, budgetHeaderLen)
	if err != nil {
		return datafile.Entry{}, err
	}

	// 1) Fixed header.
	e := datafile.Entry{HeaderOffset: off}
	e.Key = datafile.Key{Kstp: dec.Int32(b, 0), Kper: dec.Int32(b, 4)}
	text := b[8 : 8+datafile.TextLen]
	e.Text = string(text)
	p := 8 + datafile.TextLen
	ndim1, ndim2, ndim3 := dec.Int32(b, p), dec.Int32(b, p+4), dec.Int32(b, p+8)
	if !datafile.ValidLabel(text) {
		return e, implausible(off, "label %q", text)
	}
	if e.Key.Kstp < 1 || e.Key.Kper < 1 || ndim1 < 1 || ndim2 < 1 || ndim3 == 0 {
		return e, implausible(off, "kstp=%d kper=%d ndim=%d,%d,%d", e.Key.Kstp, e.Key.Kper, ndim1, ndim2, ndim3)
	}
	e.Ncol, e.Nrow, e.Nlay = ndim1, ndim2, ndim3
	if ndim3 < 0 {
		e.Nlay = -ndim3
	}
	data := off + budgetHeaderLen

	// 2) Compact header.
	method := MethodArray
	if ndim3 < 0 {
		n := 4 + 3*fw
		if data+int64(n) > size {
			return e, implausible(off, "compact header runs past EOF")
		}
		hb, err := datafile.ReadAt(r, data, n)
		if err != nil {
			return e, err
		}
		method = ReadMethod(dec.Int32(hb, 0))
		e.Delt, e.Pertim, e.Totim = dec.Float(hb, 4), dec.Float(hb, 4+fw), dec.Float(hb, 4+2*fw)
		if _, ok := methodTable[method]; !ok {
			return e, implausible(off, "imeth=%d", method)
		}
		if !finiteNonNeg(e.Delt, e.Pertim, e.Totim) {
			return e, implausible(off, "delt=%g pertim=%g totim=%g", e.Delt, e.Pertim, e.Totim)
		}
		data += int64(n)
	}
	e.Method = int(method)

	// 3) Payload extent.
	length, err := methodTable[method].size(r, dec, &e, data)
	if err != nil {
		return e, err
	}
	e.DataOffset, e.DataLength = data, length
	return e, nil
}

// BudgetRecord is one decoded budget record.
type BudgetRecord struct {
	datafile.Entry
	Payload Payload
}

// BudgetFile reads a cell-by-cell budget file.
type BudgetFile struct {
	*file
}

// OpenBudgetFile indexes the budget file at path.
func OpenBudgetFile(path string, opts ...Option) (*BudgetFile, error) {
	return newBudgetFile(datafile.PathSource(path), opts)
}

// NewBudgetFile indexes size bytes of r.
func NewBudgetFile(r io.ReaderAt, size int64, opts ...Option) (*BudgetFile, error) {
	return newBudgetFile(datafile.ReaderSource(r, size, "<reader>"), opts)
}

func newBudgetFile(src datafile.Source, opts []Option) (*BudgetFile, error) {
	cfg := newConfig(opts)
	f, err := openFile(src, budgetLayout{}, cfg, func(e *datafile.Entry) { checkBudgetShape(cfg, e) })
	if err != nil {
		return nil, err
	}
	return &BudgetFile{file: f}, nil
}

// checkBudgetShape compares array records with the declared grid. List
// records are not checked.
func checkBudgetShape(cfg config, e *datafile.Entry) {
	s := cfg.shape
	if s == nil {
		return
	}
	switch ReadMethod(e.Method) {
	case MethodArray, MethodArrayCompact:
		if e.Ncol != s.Ncol || e.Nrow != s.Nrow || e.Nlay != s.Nlay {
			e.Err = fmt.Errorf("record %s %q is %d×%d×%d, want %d×%d×%d: %w",
				e.Key, e.Text, e.Nlay, e.Nrow, e.Ncol, s.Nlay, s.Nrow, s.Ncol, datafile.ErrShapeMismatch)
		}
	case MethodLayerArray, MethodTopLayer:
		if e.Ncol != s.Ncol || e.Nrow != s.Nrow {
			e.Err = fmt.Errorf("record %s %q is %d×%d, want %d×%d: %w",
				e.Key, e.Text, e.Nrow, e.Ncol, s.Nrow, s.Ncol, datafile.ErrShapeMismatch)
		}
	}
}

// UniqueTexts returns the trimmed record labels in file order.
func (bf *BudgetFile) UniqueTexts() []string { return bf.index.Texts() }

// ReadRecord decodes record i.
func (bf *BudgetFile) ReadRecord(i int) (*BudgetRecord, error) {
	var rec *BudgetRecord
	err := bf.withReader(func(r io.ReaderAt) error {
		var err error
		rec, err = bf.readRecord(r, i)
		return err
	})
	return rec, err
}

func (bf *BudgetFile) readRecord(r io.ReaderAt, i int) (*BudgetRecord, error) {
	e, err := bf.entry(i)
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
	p, err := methodTable[ReadMethod(e.Method)].decode(bf.dec, b, &e)
	if err != nil {
		return nil, err
	}
	return &BudgetRecord{Entry: e, Payload: p}, nil
}

func (bf *BudgetFile) readMany(idx []int) ([]*BudgetRecord, error) {
	out := make([]*BudgetRecord, len(idx))
	err := bf.withReader(func(r io.ReaderAt) error {
		for k, i := range idx {
			rec, err := bf.readRecord(r, i)
			if err != nil {
				return err
			}
			out[k] = rec
		}
		return nil
	})
	return out, err
}

// ReadAll decodes every record in file order.
func (bf *BudgetFile) ReadAll() ([]*BudgetRecord, error) {
	idx := make([]int, bf.Len())
	for i := range idx {
		idx[i] = i
	}
	return bf.readMany(idx)
}

// GetData returns the records of key, limited to label text unless text
// is empty.
func (bf *BudgetFile) GetData(key datafile.Key, text string) ([]*BudgetRecord, error) {
	return bf.lookup(bf.index.FindKey(key), text, fmt.Sprintf("key %s", key))
}

// GetDataAtTime returns the records at simulation time totim, limited to
// label text unless text is empty.
func (bf *BudgetFile) GetDataAtTime(totim float64, text string) ([]*BudgetRecord, error) {
	return bf.lookup(bf.index.FindTime(totim), text, fmt.Sprintf("time %g", totim))
}

// Records returns every record with label text.
func (bf *BudgetFile) Records(text string) ([]*BudgetRecord, error) {
	return bf.lookup(bf.index.ByText(text), "", fmt.Sprintf("text %q", text))
}

func (bf *BudgetFile) lookup(idx []int, text, what string) ([]*BudgetRecord, error) {
	if text != "" {
		byText := make(map[int]struct{})
		for _, i := range bf.index.ByText(text) {
			byText[i] = struct{}{}
		}
		kept := idx[:0:0]
		for _, i := range idx {
			if _, ok := byText[i]; ok {
				kept = append(kept, i)
			}
		}
		idx = kept
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("%s %q: %w", what, text, datafile.ErrNotFound)
	}
	return bf.readMany(idx)
}
