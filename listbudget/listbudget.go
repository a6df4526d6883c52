// SPDX-License-Identifier: MIT
// Package: usgflow/listbudget
//
// listbudget.go — listing-file budget sections.
//
// Contract:
//   • Budgets keep file order; Get returns the first budget of a key.
//   • Term names are trimmed and compared case-insensitively.
//   • Lines outside a section are ignored.

package listbudget

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/datafile"
)

// Direction selects the IN or OUT half of a budget.
type Direction int

const (
	// In is flow into the model.
	In Direction = iota
	// Out is flow out of the model.
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "OUT"
	}
	return "IN"
}

// Pair is a cumulative volume and the rate for the time step.
type Pair struct {
	Cum, Rate float64
}

// Term is one budget line.
type Term struct {
	Name string
	// Package is the MODFLOW 6 package name column, empty elsewhere.
	Package string
	Pair
}

// Budget is one section.
type Budget struct {
	Key         datafile.Key
	In, Out     []Term
	TotalIn     Pair
	TotalOut    Pair
	InMinusOut  Pair
	Discrepancy Pair
}

// Term returns the first term called name (or whose package is called name)
// in direction d.
func (b *Budget) Term(name string, d Direction) (Term, bool) {
	terms := b.In
	if d == Out {
		terms = b.Out
	}
	for _, t := range terms {
		if strings.EqualFold(t.Name, name) || (t.Package != "" && strings.EqualFold(t.Package, name)) {
			return t, true
		}
	}
	return Term{}, false
}

// Sample is one point of a term series.
type Sample struct {
	Key datafile.Key
	Pair
}

// File holds every budget section of a listing file.
type File struct {
	budgets []*Budget
	byKey   map[datafile.Key]int
}

// Option customizes Parse.
type Option func(*config)

type config struct {
	logger *zap.Logger
}

// WithLogger routes parse diagnostics to l. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("listbudget: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}

var (
	sectionRe = regexp.MustCompile(`(?i)(VOLUMETRIC|VOLUME|MASS) BUDGET FOR ENTIRE MODEL`)
	keyRe     = regexp.MustCompile(`(?i)TIME STEP\s+(\d+)(?:\s*,|\s+IN)\s+STRESS PERIOD\s+(\d+)`)
)

// Parse reads every budget section from r.
func Parse(r io.Reader, opts ...Option) (*File, error) {
	cfg := config{logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	f := &File{byKey: map[datafile.Key]int{}}
	var (
		cur  *Budget
		dir  Direction
		line int
	)
	for sc.Scan() {
		line++
		text := sc.Text()

		// 1) outside a section: wait for a header
		if cur == nil {
			if !sectionRe.MatchString(text) {
				continue
			}
			m := keyRe.FindStringSubmatch(text)
			if m == nil {
				return nil, fmt.Errorf("line %d: budget header without time step: %w", line, datafile.ErrCorruptFile)
			}
			kstp, _ := strconv.Atoi(m[1])
			kper, _ := strconv.Atoi(m[2])
			cur, dir = &Budget{Key: datafile.Key{Kstp: kstp, Kper: kper}}, In
			continue
		}

		if sectionRe.MatchString(text) {
			return nil, fmt.Errorf("line %d: budget %s not closed: %w", line, cur.Key, datafile.ErrCorruptFile)
		}

		// 2) direction headings
		trimmed := strings.TrimSpace(text)
		switch {
		case strings.HasPrefix(trimmed, "IN:"):
			dir = In
			continue
		case strings.HasPrefix(trimmed, "OUT:"):
			dir = Out
			continue
		case !strings.Contains(trimmed, "="):
			continue
		}

		// 3) value lines
		name, pkg, p, err := splitLine(trimmed)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", line, err, datafile.ErrCorruptFile)
		}
		switch strings.ToUpper(name) {
		case "TOTAL IN":
			cur.TotalIn = p
		case "TOTAL OUT":
			cur.TotalOut = p
		case "IN - OUT":
			cur.InMinusOut = p
		case "PERCENT DISCREPANCY":
			cur.Discrepancy = p
			f.add(cur)
			cfg.logger.Debug("budget parsed", zap.Stringer("key", cur.Key),
				zap.Int("in", len(cur.In)), zap.Int("out", len(cur.Out)))
			cur = nil
		default:
			t := Term{Name: name, Package: pkg, Pair: p}
			if dir == In {
				cur.In = append(cur.In, t)
			} else {
				cur.Out = append(cur.Out, t)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if cur != nil {
		return nil, fmt.Errorf("budget %s: missing discrepancy line: %w", cur.Key, datafile.ErrCorruptFile)
	}
	return f, nil
}

// splitLine parses "NAME = cum NAME = rate [PACKAGE]".
func splitLine(s string) (name, pkg string, p Pair, err error) {
	parts := strings.Split(s, "=")
	if len(parts) != 3 {
		return "", "", Pair{}, fmt.Errorf("expected two values in %q", s)
	}
	name = strings.TrimSpace(parts[0])
	cum := strings.Fields(parts[1])
	rate := strings.Fields(parts[2])
	if name == "" || len(cum) == 0 || len(rate) == 0 {
		return "", "", Pair{}, fmt.Errorf("incomplete values in %q", s)
	}
	if p.Cum, err = datafile.ParseFloat(cum[0]); err != nil {
		return "", "", Pair{}, err
	}
	if p.Rate, err = datafile.ParseFloat(rate[0]); err != nil {
		return "", "", Pair{}, err
	}
	return name, strings.Join(rate[1:], " "), p, nil
}

func (f *File) add(b *Budget) {
	if _, ok := f.byKey[b.Key]; !ok {
		f.byKey[b.Key] = len(f.budgets)
	}
	f.budgets = append(f.budgets, b)
}

// Open parses the listing file at path.
func Open(path string, opts ...Option) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	f, err := Parse(fh, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Budgets returns the sections in file order.
func (f *File) Budgets() []*Budget { return f.budgets }

// Get returns the budget for key.
func (f *File) Get(key datafile.Key) (*Budget, error) {
	i, ok := f.byKey[key]
	if !ok {
		return nil, fmt.Errorf("budget %s: %w", key, datafile.ErrNotFound)
	}
	return f.budgets[i], nil
}

// Series returns term name in direction d for every budget that has it.
func (f *File) Series(name string, d Direction) ([]Sample, error) {
	var out []Sample
	for _, b := range f.budgets {
		if t, ok := b.Term(name, d); ok {
			out = append(out, Sample{Key: b.Key, Pair: t.Pair})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("term %q %s: %w", name, d, datafile.ErrNotFound)
	}
	return out, nil
}
