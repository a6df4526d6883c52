// SPDX-License-Identifier: MIT
// Package: usgflow/modeltime
//
// tdis.go — MODFLOW 6 TDIS input files.
//
// Layout:
//
//	BEGIN OPTIONS
//	  TIME_UNITS days
//	  START_DATE_TIME 2000-01-01T00:00:00
//	END OPTIONS
//	BEGIN DIMENSIONS
//	  NPER 2
//	END DIMENSIONS
//	BEGIN PERIODDATA
//	  perlen nstp tsmult       (NPER rows)
//	END PERIODDATA
//
// Keywords are case-insensitive; '#' and '!' start comments. Unknown
// options are ignored.

package modeltime

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/usgflow/datafile"
)

// ReadTDIS parses a TDIS file.
func ReadTDIS(r io.Reader) (*ModelTime, error) {
	m := &ModelTime{}
	nper := -1
	block := ""
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := stripComment(sc.Text())
		if s == "" {
			continue
		}
		f := strings.Fields(s)
		kw := strings.ToUpper(f[0])
		switch {
		case kw == "BEGIN":
			if block != "" || len(f) < 2 {
				return nil, fmt.Errorf("line %d: unexpected BEGIN: %w", line, ErrSyntax)
			}
			block = strings.ToUpper(f[1])
			continue
		case kw == "END":
			if len(f) < 2 || strings.ToUpper(f[1]) != block {
				return nil, fmt.Errorf("line %d: END does not close %s: %w", line, block, ErrSyntax)
			}
			block = ""
			continue
		}
		switch block {
		case "OPTIONS":
			switch kw {
			case "TIME_UNITS":
				if len(f) > 1 {
					m.TimeUnits = f[1]
				}
			case "START_DATE_TIME":
				if len(f) > 1 {
					m.StartDateTime = f[1]
				}
			}
		case "DIMENSIONS":
			if kw == "NPER" && len(f) > 1 {
				n, err := strconv.Atoi(f[1])
				if err != nil || n < 1 {
					return nil, fmt.Errorf("line %d: NPER %q: %w", line, f[1], ErrSyntax)
				}
				nper = n
			}
		case "PERIODDATA":
			if len(f) < 3 {
				return nil, fmt.Errorf("line %d: period row needs perlen nstp tsmult: %w", line, ErrSyntax)
			}
			perlen, err1 := datafile.ParseFloat(f[0])
			nstp, err2 := strconv.Atoi(f[1])
			mult, err3 := datafile.ParseFloat(f[2])
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, fmt.Errorf("line %d: %q: %w", line, s, ErrSyntax)
			}
			m.Perlen = append(m.Perlen, perlen)
			m.Nstp = append(m.Nstp, nstp)
			m.Tsmult = append(m.Tsmult, mult)
		default:
			return nil, fmt.Errorf("line %d: data outside a block: %w", line, ErrSyntax)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if block != "" {
		return nil, fmt.Errorf("block %s not closed: %w", block, ErrSyntax)
	}
	if nper >= 0 && nper != len(m.Perlen) {
		return nil, fmt.Errorf("NPER %d but %d period rows: %w", nper, len(m.Perlen), ErrSyntax)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// OpenTDIS reads a TDIS file from path.
func OpenTDIS(path string) (*ModelTime, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadTDIS(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteTDIS writes m as a TDIS file.
func WriteTDIS(w io.Writer, m *ModelTime) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "BEGIN OPTIONS")
	if m.TimeUnits != "" {
		fmt.Fprintf(bw, "  TIME_UNITS %s\n", m.TimeUnits)
	}
	if m.StartDateTime != "" {
		fmt.Fprintf(bw, "  START_DATE_TIME %s\n", m.StartDateTime)
	}
	fmt.Fprintln(bw, "END OPTIONS")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "BEGIN DIMENSIONS")
	fmt.Fprintf(bw, "  NPER %d\n", m.NPer())
	fmt.Fprintln(bw, "END DIMENSIONS")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "BEGIN PERIODDATA")
	for i := range m.Perlen {
		fmt.Fprintf(bw, "  %s %d %s\n",
			strconv.FormatFloat(m.Perlen[i], 'g', -1, 64), m.Nstp[i],
			strconv.FormatFloat(m.Tsmult[i], 'g', -1, 64))
	}
	fmt.Fprintln(bw, "END PERIODDATA")
	return bw.Flush()
}

// ReverseTDIS reads a TDIS file from r and writes its reversal to w.
func ReverseTDIS(r io.Reader, w io.Writer) error {
	m, err := ReadTDIS(r)
	if err != nil {
		return err
	}
	return WriteTDIS(w, m.Reverse())
}

func stripComment(s string) string {
	if i := strings.IndexAny(s, "#!"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
