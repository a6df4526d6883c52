// SPDX-License-Identifier: MIT
// Package: usgflow/binaryfile
//
// reverse.go — rewrite a file backwards in time.
//
// Mapping of a record written at step (kper, kstp) ending at totim/pertim
// with step length delt, in a run of nper periods, nstp(kper) steps,
// period length perlen(kper) and total time T:
//
//	kper'   = nper − kper + 1
//	kstp'   = nstp(kper) − kstp + 1
//	totim'  = T − (totim − delt)
//	pertim' = perlen(kper) − (pertim − delt)
//
// totim − delt is the start of the step, so each reversed record ends where
// the original step began, measured from the other end of the run. Groups of
// records sharing a key are emitted in reverse order; records inside a group
// keep their order. Payloads of head files are copied byte for byte; budget
// flows are negated (aux columns are untouched).
//
// Reversing twice restores keys, record order, labels and payloads exactly.
// Times come back within two ulps of T at the file's precision: T − (T − t)
// is not t in floating point for most t, and no float mapping close to
// T − t undoes itself for every time in [0, T]. Times whose differences are
// representable (dyadic step lengths) come back bit for bit.
//
// delt comes from, in order of preference: WithModelTime, the compact
// budget header, the previous output time in the file.

package binaryfile

import (
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/usgflow/datafile"
	"github.com/katalvlaran/usgflow/modeltime"
)

type stepStart struct{ totim, pertim float64 }

type reversal struct {
	mt     *modeltime.ModelTime
	nper   int
	nstp   map[int]int
	perlen map[int]float64
	total  float64
	start  map[datafile.Key]stepStart
}

func newReversal(ix *datafile.Index, mt *modeltime.ModelTime) *reversal {
	rv := &reversal{mt: mt, perlen: make(map[int]float64), start: make(map[datafile.Key]stepStart)}
	if mt != nil {
		rv.nper = mt.NPer()
		rv.nstp = make(map[int]int, rv.nper)
		for p := 1; p <= rv.nper; p++ {
			rv.nstp[p] = mt.Nstp[p-1]
			rv.perlen[p] = mt.Perlen[p-1]
		}
		rv.total = mt.TotalTime()
		return rv
	}

	rv.nstp, rv.nper = ix.Steps()
	var prev datafile.Entry
	seen := make(map[datafile.Key]bool)
	for _, e := range ix.Entries {
		rv.total = max(rv.total, e.Totim)
		rv.perlen[e.Key.Kper] = max(rv.perlen[e.Key.Kper], e.Pertim)
		if seen[e.Key] {
			continue
		}
		s := stepStart{totim: prev.Totim}
		if len(seen) > 0 && prev.Key.Kper == e.Key.Kper {
			s.pertim = prev.Pertim
		}
		rv.start[e.Key] = s
		seen[e.Key] = true
		prev = e
	}
	return rv
}

// apply maps e. withTimes is false for records that carry no times.
func (rv *reversal) apply(e datafile.Entry, withTimes, withPertim bool) (datafile.Entry, error) {
	k := e.Key
	nstp, ok := rv.nstp[k.Kper]
	if !ok || k.Kper > rv.nper || k.Kstp > nstp {
		return e, fmt.Errorf("record %s outside %d periods: %w", k, rv.nper, datafile.ErrNotFound)
	}
	out := e
	out.Key = datafile.Key{Kstp: nstp - k.Kstp + 1, Kper: rv.nper - k.Kper + 1}
	if !withTimes {
		return out, nil
	}

	var s stepStart
	switch {
	case rv.mt != nil:
		_, _, delt, ok := rv.mt.At(k)
		if !ok {
			return e, fmt.Errorf("record %s not in time discretization: %w", k, datafile.ErrNotFound)
		}
		s = stepStart{totim: e.Totim - delt, pertim: e.Pertim - delt}
	case e.Delt > 0:
		s = stepStart{totim: e.Totim - e.Delt, pertim: e.Pertim - e.Delt}
	default:
		s = rv.start[k]
	}
	out.Totim = rv.total - s.totim
	if withPertim {
		out.Pertim = rv.perlen[k.Kper] - s.pertim
	}
	return out, nil
}

// reversedGroups returns entry positions with key groups in reverse order.
func reversedGroups(ix *datafile.Index) []int {
	var groups [][]int
	for i, e := range ix.Entries {
		if n := len(groups); n > 0 && ix.Entries[groups[n-1][0]].Key == e.Key {
			groups[n-1] = append(groups[n-1], i)
			continue
		}
		groups = append(groups, []int{i})
	}
	out := make([]int, 0, ix.Len())
	for g := len(groups) - 1; g >= 0; g-- {
		out = append(out, groups[g]...)
	}
	return out
}

func refuseTruncated(f *file) error {
	if f.index.Truncated {
		return fmt.Errorf("%s: cannot reverse a truncated file: %w", f.src.Name(), datafile.ErrCorruptFile)
	}
	return nil
}

// Reverse writes the file backwards in time to w.
func (hf *HeadFile) Reverse(w io.Writer) error {
	if err := refuseTruncated(hf.file); err != nil {
		return err
	}
	rv := newReversal(hf.index, hf.cfg.mt)
	wr := &Writer{w: w, enc: datafile.Encoder{Order: hf.dec.Order, Prec: hf.dec.Prec}, kind: hf.kind}
	withPertim := hf.kind != KindConcentration
	return hf.withReader(func(r io.ReaderAt) error {
		for _, i := range reversedGroups(hf.index) {
			e := hf.index.Entries[i]
			payload, err := datafile.ReadAt(r, e.DataOffset, int(e.DataLength))
			if err != nil {
				return err
			}
			re, err := rv.apply(e, true, withPertim)
			if err != nil {
				return err
			}
			b := wr.appendHeadHeader(nil, re)
			if _, err := w.Write(append(b, payload...)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reverse writes the budget backwards in time to w with flows negated.
func (bf *BudgetFile) Reverse(w io.Writer) error {
	if err := refuseTruncated(bf.file); err != nil {
		return err
	}
	rv := newReversal(bf.index, bf.cfg.mt)
	wr := &Writer{w: w, enc: datafile.Encoder{Order: bf.dec.Order, Prec: bf.dec.Prec}}
	return bf.withReader(func(r io.ReaderAt) error {
		for _, i := range reversedGroups(bf.index) {
			rec, err := bf.readRecord(r, i)
			if err != nil {
				return err
			}
			compact := ReadMethod(rec.Method) != MethodArray
			re, err := rv.apply(rec.Entry, compact, compact)
			if err != nil {
				return err
			}
			if err := wr.WriteBudget(re, rec.Payload.negated()); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReverseFile reverses the head or budget file in to out; budget selects
// the file family.
func ReverseFile(in, out string, budget bool, opts ...Option) (err error) {
	type reverser interface{ Reverse(io.Writer) error }
	var src reverser
	if budget {
		src, err = OpenBudgetFile(in, opts...)
	} else {
		src, err = OpenHeadFile(in, opts...)
	}
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return src.Reverse(f)
}
