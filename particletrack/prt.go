// SPDX-License-Identifier: MIT
// Package: usgflow/particletrack
//
// prt.go — MODFLOW 6 PRT track CSV.
//
// Contract:
//   • Columns are found by header name, case-insensitive; the required set is
//     imdl iprp irpt ilay icell trelease t x y z.
//   • Rows sharing (imdl, iprp, irpt, trelease) form one pathline, points in
//     row order. Particles are numbered from 0 in order of first row.
//   • Group is iprp; istatus, when present, fills Endpoint.Status.

package particletrack

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/datafile"
)

var prtRequired = []string{"imdl", "iprp", "irpt", "ilay", "icell", "trelease", "t", "x", "y", "z"}

type prtKey struct {
	imdl, iprp, irpt int
	trelease         float64
}

// ReadPRT parses a PRT track CSV into pathlines.
func ReadPRT(r io.Reader, opts ...Option) (*Pathlines, error) {
	cfg := newConfig(opts)
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("prt header: %w", datafile.ErrCorruptFile)
	}
	col := make(map[string]int, len(head))
	for i, h := range head {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range prtRequired {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("prt header: missing column %q: %w", name, datafile.ErrCorruptFile)
		}
	}

	var (
		lines  []*Pathline
		status []int
		seen   = map[prtKey]int{}
		row    = 1
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("prt row %d: %w: %w", row, datafile.ErrCorruptFile, err)
		}
		p := prtRow{rec: rec, col: col}
		k := prtKey{imdl: p.int("imdl"), iprp: p.int("iprp"), irpt: p.int("irpt"), trelease: p.float("trelease")}
		pt := TrackPoint{
			X:     p.float("x"),
			Y:     p.float("y"),
			Z:     p.float("z"),
			Time:  p.float("t"),
			Node:  p.int("icell") - 1,
			Layer: p.int("ilay") - 1,
		}
		st := p.int("istatus")
		if p.err != nil {
			return nil, fmt.Errorf("prt row %d: %v: %w", row, p.err, datafile.ErrCorruptFile)
		}
		i, ok := seen[k]
		if !ok {
			i = len(lines)
			seen[k] = i
			lines = append(lines, &Pathline{ParticleID: i, Group: k.iprp})
			status = append(status, 0)
		}
		lines[i].Points = append(lines[i].Points, pt)
		status[i] = st
	}
	cfg.logger.Debug("prt tracks read", zap.Int("particles", len(lines)), zap.Int("rows", row-1))
	pl := newPathlines(Forward, lines)
	pl.status = status
	return pl, nil
}

// OpenPRT reads the PRT track CSV at path.
func OpenPRT(path string, opts ...Option) (*Pathlines, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ReadPRT(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

type prtRow struct {
	rec []string
	col map[string]int
	err error
}

func (p *prtRow) field(name string) (string, bool) {
	i, ok := p.col[name]
	if !ok || i >= len(p.rec) {
		return "", false
	}
	return strings.TrimSpace(p.rec[i]), true
}

// int reads an optional integer column; absent columns read as 0.
func (p *prtRow) int(name string) int {
	s, ok := p.field(name)
	if !ok || p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		p.err = fmt.Errorf("column %s %q", name, s)
	}
	return v
}

func (p *prtRow) float(name string) float64 {
	s, ok := p.field(name)
	if !ok || p.err != nil {
		return 0
	}
	v, err := datafile.ParseFloat(s)
	if err != nil {
		p.err = fmt.Errorf("column %s %q", name, s)
	}
	return v
}
