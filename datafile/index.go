// SPDX-License-Identifier: MIT
// Package: usgflow/datafile
//
// index.go — record offset index.
//
// Contract:
//   • Entries are kept in file order.
//   • Times and KstpKper return unique values in order of first appearance;
//     files are written in ascending time, so that order is ascending.
//   • An entry with Err set was indexed but its payload is not readable as
//     expected; lookups still report it so callers can surface the error.

package datafile

import "strings"

// Entry describes one record.
type Entry struct {
	Key    Key
	Pertim float64
	Totim  float64
	// Delt is the step length when the file records it (compact budget
	// headers), otherwise 0.
	Delt float64
	Text string
	// Ncol, Nrow, Nlay are the record dimensions. For unstructured heads
	// Ncol/Nrow hold the first and last 1-based node of the layer.
	Ncol, Nrow, Nlay int
	// Ilay is the 1-based layer of a head record.
	Ilay int
	// Method is the budget read method; 0 for other record kinds.
	Method int
	// Ntrans is the transport step of a concentration record.
	Ntrans int

	HeaderOffset int64
	DataOffset   int64
	DataLength   int64

	Err error
}

// End returns the offset just past the record.
func (e Entry) End() int64 { return e.DataOffset + e.DataLength }

// Index is the ordered list of records of a file.
type Index struct {
	Entries []Entry
	// Truncated is set when the scan stopped before the end of the file.
	Truncated bool
}

// Len returns the number of records.
func (ix *Index) Len() int { return len(ix.Entries) }

// Add appends e.
func (ix *Index) Add(e Entry) { ix.Entries = append(ix.Entries, e) }

// Times returns the unique simulation times in file order.
func (ix *Index) Times() []float64 {
	var out []float64
	seen := make(map[float64]struct{})
	for _, e := range ix.Entries {
		if _, ok := seen[e.Totim]; ok {
			continue
		}
		seen[e.Totim] = struct{}{}
		out = append(out, e.Totim)
	}
	return out
}

// KstpKper returns the unique keys in file order.
func (ix *Index) KstpKper() []Key {
	var out []Key
	seen := make(map[Key]struct{})
	for _, e := range ix.Entries {
		if _, ok := seen[e.Key]; ok {
			continue
		}
		seen[e.Key] = struct{}{}
		out = append(out, e.Key)
	}
	return out
}

// Texts returns the unique trimmed record labels in file order.
func (ix *Index) Texts() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, e := range ix.Entries {
		t := strings.TrimSpace(e.Text)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// FindKey returns the positions of the records with key k.
func (ix *Index) FindKey(k Key) []int {
	return ix.find(func(e *Entry) bool { return e.Key == k })
}

// FindTime returns the positions of the records at simulation time t.
func (ix *Index) FindTime(t float64) []int {
	return ix.find(func(e *Entry) bool { return e.Totim == t })
}

// ByText returns the positions of the records whose label matches text,
// ignoring case and surrounding blanks.
func (ix *Index) ByText(text string) []int {
	want := strings.TrimSpace(text)
	return ix.find(func(e *Entry) bool { return strings.EqualFold(strings.TrimSpace(e.Text), want) })
}

func (ix *Index) find(pred func(*Entry) bool) []int {
	var out []int
	for i := range ix.Entries {
		if pred(&ix.Entries[i]) {
			out = append(out, i)
		}
	}
	return out
}

// Steps returns the number of distinct time steps seen per stress period,
// keyed by 1-based period, and the highest period number.
func (ix *Index) Steps() (nstp map[int]int, nper int) {
	nstp = make(map[int]int)
	for _, k := range ix.KstpKper() {
		if k.Kstp > nstp[k.Kper] {
			nstp[k.Kper] = k.Kstp
		}
		if k.Kper > nper {
			nper = k.Kper
		}
	}
	return nstp, nper
}
