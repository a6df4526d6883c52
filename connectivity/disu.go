// SPDX-License-Identifier: MIT
// Package: usgflow/connectivity
//
// disu.go — IAC/JA/IVC arrays as DISU array control records.
//
// Layout written:
//
//	INTERNAL 1 (FREE) -1 #IAC
//	  3 4 4 ...          (wrapped at PerLine values)
//	INTERNAL 1 (FREE) -1 #JA
//	  1 2 11 ...         (1-based)
//	INTERNAL 1 (FREE) -1 #IVC
//	  0 0 1 ...          (0 at self entries)
//
// Contract for ReadDISU:
//   • Control records are INTERNAL iconst (fmtin) [iprn], CONSTANT value and
//     OPEN/CLOSE fname iconst (fmtin) [iprn]. A non-zero iconst multiplies
//     every value. EXTERNAL needs a name file and is refused.
//   • fmtin is (FREE) or a Fortran integer descriptor such as (10I5); free
//     values may use the r*v repeat notation.
//   • The array is named by the first word of a trailing '#' comment
//     (#IAC, #JA, #IVC in any case); unnamed arrays take the next free slot
//     in the order IAC, JA, IVC.
//   • IAC counts come from WithNodes when given, otherwise from the values
//     up to the next control record. JA holds sum(IAC) values and IVC as
//     many as JA. A CONSTANT IAC needs WithNodes.
//   • Blank lines and lines starting with '#' are skipped.

package connectivity

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/katalvlaran/usgflow/formattedfile"
)

// DefaultPerLine is the number of values written per line.
const DefaultPerLine = 10

// DISUOptions controls WriteDISU.
type DISUOptions struct {
	// OmitIVC skips the IVC array.
	OmitIVC bool
	// PerLine wraps value lines; <= 0 means DefaultPerLine.
	PerLine int
}

// WriteDISU writes adj as INTERNAL free-format arrays with 1-based JA.
func WriteDISU(w io.Writer, adj *Adjacency, opt DISUOptions) error {
	per := opt.PerLine
	if per <= 0 {
		per = DefaultPerLine
	}
	bw := bufio.NewWriter(w)
	writeArray(bw, "IAC", adj.IAC, per, func(v int) int { return v })
	writeArray(bw, "JA", adj.JA, per, func(v int) int { return v + 1 })
	if !opt.OmitIVC {
		writeArray(bw, "IVC", adj.IVC, per, func(v int) int {
			if v == IVCSelf {
				return 0
			}
			return v
		})
	}
	return bw.Flush()
}

func writeArray(bw *bufio.Writer, name string, vals []int, per int, conv func(v int) int) {
	fmt.Fprintf(bw, "INTERNAL 1 (FREE) -1 #%s\n", name)
	for i, v := range vals {
		if i%per == 0 {
			bw.WriteString(" ")
		}
		fmt.Fprintf(bw, " %d", conv(v))
		if i%per == per-1 || i == len(vals)-1 {
			bw.WriteString("\n")
		}
	}
}

// ReadOption customizes ReadDISU.
type ReadOption func(*readConfig)

type readConfig struct {
	dir   string
	nodes int
}

// WithDir resolves relative OPEN/CLOSE file names against dir.
func WithDir(dir string) ReadOption {
	return func(c *readConfig) { c.dir = dir }
}

// WithNodes fixes the IAC length. Panics on n < 1.
func WithNodes(n int) ReadOption {
	if n < 1 {
		panic("connectivity: WithNodes(n < 1)")
	}
	return func(c *readConfig) { c.nodes = n }
}

var arrayNames = [...]string{"IAC", "JA", "IVC"}

// control is one parsed array control record.
type control struct {
	kind  string // INTERNAL, CONSTANT or OPEN/CLOSE
	name  string
	value int // CONSTANT value or multiplier
	file  string
	fixed *formattedfile.Format
}

// disuReader walks the control records of one stream.
type disuReader struct {
	cfg    readConfig
	sc     *bufio.Scanner
	line   int
	raw    string
	peeked *string
}

// ReadDISU parses IAC, JA and optional IVC arrays and validates the result.
func ReadDISU(r io.Reader, opts ...ReadOption) (*Adjacency, error) {
	var cfg readConfig
	for _, o := range opts {
		o(&cfg)
	}
	dr := &disuReader{cfg: cfg, sc: bufio.NewScanner(r)}
	dr.sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	arrays := map[string][]int{}
	for {
		// 1) Next control record.
		s, ok, err := dr.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		c, err := parseControl(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", dr.line, err)
		}

		// 2) Which array it fills.
		if c.name == "" {
			for _, n := range arrayNames {
				if _, done := arrays[n]; !done {
					c.name = n
					break
				}
			}
			if c.name == "" {
				return nil, fmt.Errorf("line %d: array after IVC: %w", dr.line, ErrFormat)
			}
		}
		if _, dup := arrays[c.name]; dup {
			return nil, fmt.Errorf("line %d: repeated %s array: %w", dr.line, c.name, ErrFormat)
		}

		// 3) Its length, when already known.
		count := -1
		switch c.name {
		case "IAC":
			if cfg.nodes > 0 {
				count = cfg.nodes
			}
		case "JA", "IVC":
			iac, ok := arrays["IAC"]
			if !ok {
				return nil, fmt.Errorf("line %d: %s before IAC: %w", dr.line, c.name, ErrFormat)
			}
			count = 0
			for _, v := range iac {
				count += v
			}
		}

		// 4) Values.
		vals, err := dr.values(c, count)
		if err != nil {
			return nil, err
		}
		arrays[c.name] = vals
	}

	iac, okIAC := arrays["IAC"]
	ja, okJA := arrays["JA"]
	if !okIAC || !okJA {
		return nil, fmt.Errorf("IAC and JA arrays are required: %w", ErrFormat)
	}
	for i := range ja {
		if ja[i] < 1 {
			return nil, fmt.Errorf("JA[%d]=%d is not 1-based: %w", i, ja[i], ErrFormat)
		}
		ja[i]--
	}
	return NewAdjacency(iac, ja, arrays["IVC"])
}

// ReadDISUFile reads path with OPEN/CLOSE names relative to its directory.
func ReadDISUFile(path string, opts ...ReadOption) (*Adjacency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	opts = append([]ReadOption{WithDir(filepath.Dir(path))}, opts...)
	adj, err := ReadDISU(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return adj, nil
}

// next returns the next significant line.
func (dr *disuReader) next() (string, bool, error) {
	if dr.peeked != nil {
		s := *dr.peeked
		dr.peeked = nil
		return s, true, nil
	}
	for dr.sc.Scan() {
		dr.line++
		dr.raw = dr.sc.Text()
		s := strings.TrimSpace(dr.raw)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		return s, true, nil
	}
	return "", false, dr.sc.Err()
}

func (dr *disuReader) unread(s string) { dr.peeked = &s }

// values reads the array c describes. count < 0 reads up to the next
// control record.
func (dr *disuReader) values(c control, count int) ([]int, error) {
	switch c.kind {
	case "CONSTANT":
		if count < 0 {
			return nil, fmt.Errorf("line %d: CONSTANT %s needs the node count: %w", dr.line, c.name, ErrFormat)
		}
		out := make([]int, count)
		for i := range out {
			out[i] = c.value
		}
		return out, nil
	case "OPEN/CLOSE":
		return dr.external(c, count)
	}

	var out []int
	for count < 0 || len(out) < count {
		s, ok, err := dr.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if isControl(s) {
			dr.unread(s)
			break
		}
		if c.fixed != nil {
			s = dr.raw
		}
		if out, err = appendValues(out, s, c.fixed); err != nil {
			return nil, fmt.Errorf("line %d: %w", dr.line, err)
		}
	}
	return finish(c, out, count, fmt.Sprintf("line %d", dr.line))
}

// external reads an OPEN/CLOSE file to its end.
func (dr *disuReader) external(c control, count int) ([]int, error) {
	path := c.file
	if !filepath.IsAbs(path) && dr.cfg.dir != "" {
		path = filepath.Join(dr.cfg.dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s array: %w", c.name, err)
	}
	defer f.Close()

	var out []int
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if c.fixed != nil {
			s = sc.Text()
		}
		if out, err = appendValues(out, s, c.fixed); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", c.file, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return finish(c, out, count, c.file)
}

// finish checks the count and applies the multiplier.
func finish(c control, out []int, count int, where string) ([]int, error) {
	if count >= 0 && len(out) != count {
		return nil, fmt.Errorf("%s: %s has %d values, want %d: %w", where, c.name, len(out), count, ErrFormat)
	}
	if c.value != 0 && c.value != 1 {
		for i := range out {
			out[i] *= c.value
		}
	}
	return out, nil
}

func isControl(s string) bool {
	f := strings.Fields(s)
	if len(f) == 0 {
		return false
	}
	switch strings.ToUpper(f[0]) {
	case "INTERNAL", "CONSTANT", "OPEN/CLOSE", "EXTERNAL":
		return true
	}
	return false
}

// parseControl splits a control record into its fields and '#' name.
func parseControl(s string) (control, error) {
	var c control
	body := s
	if i := strings.IndexByte(s, '#'); i >= 0 {
		body = s[:i]
		if f := strings.Fields(s[i+1:]); len(f) > 0 {
			c.name = strings.ToUpper(f[0])
			known := false
			for _, n := range arrayNames {
				known = known || n == c.name
			}
			if !known {
				return c, fmt.Errorf("array %q is not IAC, JA or IVC: %w", f[0], ErrFormat)
			}
		}
	}
	f := splitQuoted(body)
	if len(f) == 0 {
		return c, fmt.Errorf("empty control record: %w", ErrFormat)
	}
	c.kind = strings.ToUpper(f[0])
	args := f[1:]

	switch c.kind {
	case "CONSTANT":
		if len(args) < 1 {
			return c, fmt.Errorf("CONSTANT without a value: %w", ErrFormat)
		}
		v, err := parseInt(args[0])
		if err != nil {
			return c, err
		}
		c.value = v
		return c, nil
	case "OPEN/CLOSE":
		if len(args) < 1 {
			return c, fmt.Errorf("OPEN/CLOSE without a file name: %w", ErrFormat)
		}
		c.file = args[0]
		args = args[1:]
	case "INTERNAL":
	case "EXTERNAL":
		return c, fmt.Errorf("EXTERNAL arrays need a name file, use OPEN/CLOSE: %w", ErrFormat)
	default:
		return c, fmt.Errorf("unknown control record %q: %w", f[0], ErrFormat)
	}

	// iconst (fmtin) [iprn]
	if len(args) < 1 {
		return c, fmt.Errorf("%s without a multiplier: %w", c.kind, ErrFormat)
	}
	v, err := parseInt(args[0])
	if err != nil {
		return c, err
	}
	c.value = v
	if len(args) > 1 && !strings.EqualFold(args[1], "(FREE)") {
		fmtin, err := formattedfile.ParseFormat(args[1])
		if err != nil || fmtin.Desc != "I" {
			return c, fmt.Errorf("format %q is not an integer descriptor: %w", args[1], ErrFormat)
		}
		c.fixed = &fmtin
	}
	return c, nil
}

// splitQuoted splits on blanks, keeping quoted names whole.
func splitQuoted(s string) []string {
	var out []string
	for s = strings.TrimSpace(s); s != ""; s = strings.TrimSpace(s) {
		if q := s[0]; q == '\'' || q == '"' {
			if end := strings.IndexByte(s[1:], q); end >= 0 {
				out = append(out, s[1:end+1])
				s = s[end+2:]
				continue
			}
		}
		end := strings.IndexAny(s, " \t")
		if end < 0 {
			end = len(s)
		}
		out = append(out, s[:end])
		s = s[end:]
	}
	return out
}

// appendValues parses one value line, free or fixed.
func appendValues(out []int, s string, fixed *formattedfile.Format) ([]int, error) {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if fixed != nil {
		fs, err := fixed.Split(s, nil)
		if err != nil {
			return out, fmt.Errorf("%v: %w", err, ErrFormat)
		}
		for _, v := range fs {
			if v != math.Trunc(v) {
				return out, fmt.Errorf("%v is not an integer: %w", v, ErrFormat)
			}
			out = append(out, int(v))
		}
		return out, nil
	}
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' || r == ',' }) {
		rep := 1
		if i := strings.IndexByte(tok, '*'); i >= 0 {
			n, err := strconv.Atoi(tok[:i])
			if err != nil || n < 1 {
				return out, fmt.Errorf("repeat %q: %w", tok, ErrFormat)
			}
			rep, tok = n, tok[i+1:]
		}
		v, err := parseInt(tok)
		if err != nil {
			return out, err
		}
		for ; rep > 0; rep-- {
			out = append(out, v)
		}
	}
	return out, nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrFormat)
	}
	return v, nil
}
