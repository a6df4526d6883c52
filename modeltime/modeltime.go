// SPDX-License-Identifier: MIT
// Package: usgflow/modeltime
//
// modeltime.go — periods, steps and derived times.
//
// Contract:
//   • len(Perlen) == len(Nstp) == len(Tsmult) ≥ 1, Perlen ≥ 0, Nstp ≥ 1,
//     Tsmult > 0 (ErrInvalid otherwise).
//   • Derived slices are in step order across all periods.

package modeltime

import (
	"fmt"
	"math"

	"github.com/katalvlaran/usgflow/datafile"
)

// ModelTime is a time discretization.
type ModelTime struct {
	Perlen []float64
	Nstp   []int
	Tsmult []float64
	// TimeUnits and StartDateTime are carried through TDIS files untouched.
	TimeUnits     string
	StartDateTime string
}

// New validates and returns a discretization. A nil tsmult means 1 for
// every period.
func New(perlen []float64, nstp []int, tsmult []float64) (*ModelTime, error) {
	if tsmult == nil {
		tsmult = make([]float64, len(perlen))
		for i := range tsmult {
			tsmult[i] = 1
		}
	}
	m := &ModelTime{Perlen: perlen, Nstp: nstp, Tsmult: tsmult}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks lengths and ranges.
func (m *ModelTime) Validate() error {
	n := len(m.Perlen)
	if n == 0 || len(m.Nstp) != n || len(m.Tsmult) != n {
		return fmt.Errorf("perlen=%d nstp=%d tsmult=%d entries: %w",
			len(m.Perlen), len(m.Nstp), len(m.Tsmult), ErrInvalid)
	}
	for i := 0; i < n; i++ {
		if m.Perlen[i] < 0 || m.Nstp[i] < 1 || m.Tsmult[i] <= 0 {
			return fmt.Errorf("period %d: perlen=%g nstp=%d tsmult=%g: %w",
				i+1, m.Perlen[i], m.Nstp[i], m.Tsmult[i], ErrInvalid)
		}
	}
	return nil
}

// NPer returns the number of stress periods.
func (m *ModelTime) NPer() int { return len(m.Perlen) }

// NStepsTotal returns the number of time steps of the whole simulation.
func (m *ModelTime) NStepsTotal() int {
	n := 0
	for _, s := range m.Nstp {
		n += s
	}
	return n
}

// StepLengths returns the step lengths of 1-based period kper.
func (m *ModelTime) StepLengths(kper int) []float64 {
	if kper < 1 || kper > m.NPer() {
		return nil
	}
	perlen, nstp, mult := m.Perlen[kper-1], m.Nstp[kper-1], m.Tsmult[kper-1]
	out := make([]float64, nstp)
	dt := perlen / float64(nstp)
	if mult != 1 {
		dt = perlen * (mult - 1) / (math.Pow(mult, float64(nstp)) - 1)
	}
	for i := range out {
		if i > 0 && mult != 1 {
			dt *= mult
		}
		out[i] = dt
	}
	return out
}

// KperKstp returns every step key in order.
func (m *ModelTime) KperKstp() []datafile.Key {
	out := make([]datafile.Key, 0, m.NStepsTotal())
	for p, n := range m.Nstp {
		for s := 1; s <= n; s++ {
			out = append(out, datafile.Key{Kstp: s, Kper: p + 1})
		}
	}
	return out
}

// Totim returns the simulation time at the end of every step.
func (m *ModelTime) Totim() []float64 {
	out := make([]float64, 0, m.NStepsTotal())
	var t float64
	for p := 1; p <= m.NPer(); p++ {
		for _, dt := range m.StepLengths(p) {
			t += dt
			out = append(out, t)
		}
	}
	return out
}

// Pertim returns the period time at the end of every step.
func (m *ModelTime) Pertim() []float64 {
	out := make([]float64, 0, m.NStepsTotal())
	for p := 1; p <= m.NPer(); p++ {
		var t float64
		for _, dt := range m.StepLengths(p) {
			t += dt
			out = append(out, t)
		}
	}
	return out
}

// TotalTime returns the sum of all period lengths.
func (m *ModelTime) TotalTime() float64 {
	var t float64
	for _, p := range m.Perlen {
		t += p
	}
	return t
}

// At returns the end-of-step totim, pertim and length of step k.
func (m *ModelTime) At(k datafile.Key) (totim, pertim, delt float64, ok bool) {
	if k.Kper < 1 || k.Kper > m.NPer() || k.Kstp < 1 || k.Kstp > m.Nstp[k.Kper-1] {
		return 0, 0, 0, false
	}
	for p := 1; p < k.Kper; p++ {
		totim += m.Perlen[p-1]
	}
	steps := m.StepLengths(k.Kper)
	for s := 0; s < k.Kstp; s++ {
		pertim += steps[s]
	}
	return totim + pertim, pertim, steps[k.Kstp-1], true
}

// Reverse returns the discretization read backwards: periods in reverse
// order and each multiplier inverted.
func (m *ModelTime) Reverse() *ModelTime {
	n := m.NPer()
	r := &ModelTime{
		Perlen:        make([]float64, n),
		Nstp:          make([]int, n),
		Tsmult:        make([]float64, n),
		TimeUnits:     m.TimeUnits,
		StartDateTime: m.StartDateTime,
	}
	for i := 0; i < n; i++ {
		j := n - 1 - i
		r.Perlen[i] = m.Perlen[j]
		r.Nstp[i] = m.Nstp[j]
		r.Tsmult[i] = 1 / m.Tsmult[j]
	}
	return r
}

// FromHeaders rebuilds a discretization from record keys and their end
// times, one entry per step in file order. Period lengths come from the
// times; the multiplier is the ratio of the first two step lengths.
func FromHeaders(keys []datafile.Key, totims []float64) (*ModelTime, error) {
	if len(keys) == 0 || len(keys) != len(totims) {
		return nil, fmt.Errorf("%d keys, %d times: %w", len(keys), len(totims), ErrInvalid)
	}
	nper := 0
	for _, k := range keys {
		nper = max(nper, k.Kper)
	}
	m := &ModelTime{
		Perlen: make([]float64, nper),
		Nstp:   make([]int, nper),
		Tsmult: make([]float64, nper),
	}
	first := make([]float64, nper)
	second := make([]float64, nper)
	prev := 0.0
	for i, k := range keys {
		dt := totims[i] - prev
		prev = totims[i]
		p := k.Kper - 1
		m.Perlen[p] += dt
		m.Nstp[p] = max(m.Nstp[p], k.Kstp)
		switch k.Kstp {
		case 1:
			first[p] = dt
		case 2:
			second[p] = dt
		}
	}
	for p := range m.Tsmult {
		m.Tsmult[p] = 1
		if m.Nstp[p] > 1 && first[p] > 0 {
			m.Tsmult[p] = second[p] / first[p]
		}
		if m.Nstp[p] == 0 {
			m.Nstp[p] = 1 // period without output records
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
