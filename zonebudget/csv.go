// SPDX-License-Identifier: MIT
// Package: usgflow/zonebudget
//
// csv.go — tabular output and zone arrays.
//
// WriteCSV layout, one block of rows per table:
//
//	totim,kstp,kper,name,ZONE_0,ZONE_1,…
//	FROM_<term>…, FROM_ZONE_<a>…, TOTAL_IN,
//	TO_<term>…,   TO_ZONE_<b>…,   TOTAL_OUT,
//	IN-OUT, PERCENT_DISCREPANCY
//
// Term names have spaces replaced by underscores.

package zonebudget

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteCSV writes tables to w. Tables may differ in terms but must share
// NZones.
func WriteCSV(w io.Writer, tables []*Table) error {
	if len(tables) == 0 {
		return nil
	}
	nz := tables[0].NZones
	cw := csv.NewWriter(w)
	header := []string{"totim", "kstp", "kper", "name"}
	for z := 0; z < nz; z++ {
		header = append(header, fmt.Sprintf("ZONE_%d", z))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, t := range tables {
		if t.NZones != nz {
			return fmt.Errorf("table %s has %d zones, want %d: %w", t.Key, t.NZones, nz, ErrZones)
		}
		prefix := []string{num(t.Totim), strconv.Itoa(t.Key.Kstp), strconv.Itoa(t.Key.Kper)}
		row := func(name string, value func(z int) float64) error {
			rec := append(append([]string(nil), prefix...), name)
			for z := 0; z < nz; z++ {
				rec = append(rec, num(value(z)))
			}
			return cw.Write(rec)
		}
		for _, dir := range []struct {
			label string
			total string
			terms map[string][]float64
			zone  func(other, z int) float64
			sum   func(z int) float64
		}{
			{"FROM", "TOTAL_IN", t.In, func(a, z int) float64 { return t.at(a, z) }, t.TotalIn},
			{"TO", "TOTAL_OUT", t.Out, func(b, z int) float64 { return t.at(z, b) }, t.TotalOut},
		} {
			for _, name := range t.Terms {
				vs := dir.terms[name]
				if err := row(dir.label+"_"+strings.ReplaceAll(name, " ", "_"), func(z int) float64 { return vs[z] }); err != nil {
					return err
				}
			}
			for other := 0; other < nz; other++ {
				if err := row(fmt.Sprintf("%s_ZONE_%d", dir.label, other), func(z int) float64 { return dir.zone(other, z) }); err != nil {
					return err
				}
			}
			if err := row(dir.total, dir.sum); err != nil {
				return err
			}
		}
		if err := row("IN-OUT", t.Balance); err != nil {
			return err
		}
		if err := row("PERCENT_DISCREPANCY", t.Discrepancy); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func num(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// ReadZones reads whitespace-separated non-negative integers, one per cell
// in node order. Lines starting with '#' are skipped.
func ReadZones(r io.Reader) ([]int, error) {
	var zones []int
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		for _, tok := range strings.Fields(text) {
			z, err := strconv.Atoi(tok)
			if err != nil || z < 0 {
				return nil, fmt.Errorf("line %d: zone %q: %w", line, tok, ErrZones)
			}
			zones = append(zones, z)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("no zones read: %w", ErrZones)
	}
	return zones, nil
}
