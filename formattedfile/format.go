// SPDX-License-Identifier: MIT
// Package: usgflow/formattedfile
//
// format.go — Fortran edit descriptors for value lines.

package formattedfile

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/katalvlaran/usgflow/datafile"
)

// ErrFormat indicates an edit descriptor this package cannot use.
var ErrFormat = errors.New("formattedfile: unsupported edit descriptor")

// DefaultFormat is the descriptor the simulator uses for head output.
const DefaultFormat = "(10(1X1PE13.5))"

// Format is a parsed repeat-count edit descriptor: PerLine fields of
// Blanks spaces followed by a Width-wide value.
type Format struct {
	PerLine  int
	Blanks   int
	Desc     string // E, ES, EN, F, G, D or I
	Width    int
	Decimals int
}

// [repeat] [ ( ] [nX[,]] [kP[,]] desc width [.decimals] [ ) ]
var editRe = regexp.MustCompile(`^(\d*)\(?(?:(\d*)X,?)?(?:\d*P,?)?(ES|EN|[EFGDI])(\d+)(?:\.(\d+))?\)?$`)

// ParseFormat parses descriptors such as (10(1X1PE13.5)) or (20F10.3).
func ParseFormat(s string) (Format, error) {
	in := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if !strings.HasPrefix(in, "(") || !strings.HasSuffix(in, ")") {
		return Format{}, fmt.Errorf("%q: %w", s, ErrFormat)
	}
	m := editRe.FindStringSubmatch(in[1 : len(in)-1])
	if m == nil {
		return Format{}, fmt.Errorf("%q: %w", s, ErrFormat)
	}
	atoi := func(v string, def int) int {
		if v == "" {
			return def
		}
		n, _ := strconv.Atoi(v)
		return n
	}
	f := Format{
		PerLine:  atoi(m[1], 1),
		Desc:     m[3],
		Width:    atoi(m[4], 0),
		Decimals: atoi(m[5], 0),
	}
	if strings.Contains(in, "X") {
		f.Blanks = atoi(m[2], 1)
	}
	if f.PerLine < 1 || f.Width < 1 {
		return Format{}, fmt.Errorf("%q: %w", s, ErrFormat)
	}
	return f, nil
}

// String renders f back as a descriptor.
func (f Format) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	fmt.Fprintf(&sb, "%d", f.PerLine)
	inner := fmt.Sprintf("%s%d", f.Desc, f.Width)
	if f.Desc != "I" {
		inner += fmt.Sprintf(".%d", f.Decimals)
	}
	scale := "1P"
	if f.Desc == "F" || f.Desc == "I" {
		scale = ""
	}
	if f.Blanks > 0 {
		fmt.Fprintf(&sb, "(%dX%s%s)", f.Blanks, scale, inner)
	} else {
		sb.WriteString(inner)
	}
	sb.WriteString(")")
	return sb.String()
}

// field renders one value, asterisks when it does not fit.
func (f Format) field(v float64) string {
	var s string
	switch f.Desc {
	case "F":
		s = fmt.Sprintf("%*.*f", f.Width, f.Decimals, v)
	case "I":
		s = fmt.Sprintf("%*d", f.Width, int64(v))
	default:
		s = fmt.Sprintf("%*.*E", f.Width, f.Decimals, v)
	}
	if len(s) > f.Width {
		s = strings.Repeat("*", f.Width)
	}
	return strings.Repeat(" ", f.Blanks) + s
}

// Split parses the values of one line and appends them to out.
func (f Format) Split(line string, out []float64) ([]float64, error) {
	return f.split(line, out)
}

// split parses the values of one line. Fixed columns are tried first when
// the format is known; whitespace splitting is the fallback.
func (f *Format) split(line string, out []float64) ([]float64, error) {
	line = strings.TrimRight(line, "\r\n")
	if f != nil {
		if vs, ok := f.columns(line, out); ok {
			return vs, nil
		}
	}
	for _, tok := range strings.Fields(line) {
		v, err := datafile.ParseFloat(tok)
		if err != nil {
			return out, fmt.Errorf("value %q: %w", tok, datafile.ErrCorruptFile)
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *Format) columns(line string, out []float64) ([]float64, bool) {
	w := f.Blanks + f.Width
	start := len(out)
	for pos := 0; pos < len(line); pos += w {
		tok := strings.TrimSpace(line[pos:min(pos+w, len(line))])
		if tok == "" {
			continue
		}
		v, err := datafile.ParseFloat(tok)
		if err != nil {
			return out[:start], false
		}
		out = append(out, v)
	}
	return out, true
}
