// SPDX-License-Identifier: MIT
// Package: usgflow/zonebudget
//
// zonebudget.go — per-step zone tables.
//
// Contract:
//   • Flow is square with one row and column per zone number 0..NZones-1;
//     the diagonal stays 0 (flows inside one zone are not recorded).
//   • Every In/Out slice has NZones entries; a term read from the file is
//     present even when all its values are 0.
//   • Totim and Delt come from WithModelTime when given, otherwise from the
//     first compact record of the step; when the file carries no step
//     length, Delt is the gap to the previous output time.
//   • A Delt of 0 means the step length is unknown; Volumetric refuses it.

package zonebudget

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/binaryfile"
	"github.com/katalvlaran/usgflow/datafile"
	"github.com/katalvlaran/usgflow/matrix"
)

// Table is the zone budget of one output step. Rates are in the units of
// the budget file (volume per time).
type Table struct {
	Key   datafile.Key
	Totim float64
	Delt  float64
	// NZones is one more than the highest zone number.
	NZones int
	// Terms lists boundary term names in file order.
	Terms []string
	// Flow[a][b] is the gross flow from zone a into zone b.
	Flow *matrix.Dense
	In   map[string][]float64
	Out  map[string][]float64
}

func newTable(key datafile.Key, nz int) (*Table, error) {
	flow, err := matrix.NewDense(nz, nz)
	if err != nil {
		return nil, err
	}
	return &Table{
		Key: key, NZones: nz, Flow: flow,
		In: make(map[string][]float64), Out: make(map[string][]float64),
	}, nil
}

func (t *Table) term(name string) {
	if _, ok := t.In[name]; ok {
		return
	}
	t.Terms = append(t.Terms, name)
	t.In[name] = make([]float64, t.NZones)
	t.Out[name] = make([]float64, t.NZones)
}

func (t *Table) addTerm(name string, zone int, q float64) {
	switch {
	case q > 0:
		t.In[name][zone] += q
	case q < 0:
		t.Out[name][zone] -= q
	}
}

// addFlow records q >= 0 moving from zone a to zone b.
func (t *Table) addFlow(a, b int, q float64) {
	if a != b {
		// indices come from validated zones
		_ = t.Flow.Add(a, b, q)
	}
}

func (t *Table) at(a, b int) float64 {
	v, err := t.Flow.At(a, b)
	if err != nil {
		return 0
	}
	return v
}

// Net returns Flow[a][b] − Flow[b][a], the net flow from a into b. Zones
// outside the table give 0.
func (t *Table) Net(a, b int) float64 { return t.at(a, b) - t.at(b, a) }

// NetMatrix returns Flow − Flowᵀ.
func (t *Table) NetMatrix() (*matrix.Dense, error) {
	tr, err := matrix.Transpose(t.Flow)
	if err != nil {
		return nil, err
	}
	return matrix.Sub(t.Flow, tr)
}

// TotalIn returns everything entering zone z: boundary inflows plus flow
// from other zones.
func (t *Table) TotalIn(z int) float64 {
	cols, err := matrix.ColSums(t.Flow)
	if err != nil || z < 0 || z >= t.NZones {
		return 0
	}
	in := cols[z]
	for _, name := range t.Terms {
		in += t.In[name][z]
	}
	return in
}

// TotalOut returns everything leaving zone z.
func (t *Table) TotalOut(z int) float64 {
	rows, err := matrix.RowSums(t.Flow)
	if err != nil || z < 0 || z >= t.NZones {
		return 0
	}
	out := rows[z]
	for _, name := range t.Terms {
		out += t.Out[name][z]
	}
	return out
}

// Balance returns TotalIn(z) − TotalOut(z).
func (t *Table) Balance(z int) float64 { return t.TotalIn(z) - t.TotalOut(z) }

// Discrepancy returns the balance of z as a percentage of the mean of
// inflow and outflow; 0 when nothing moves.
func (t *Table) Discrepancy(z int) float64 {
	in, out := t.TotalIn(z), t.TotalOut(z)
	if in+out == 0 {
		return 0
	}
	return 100 * (in - out) / ((in + out) / 2)
}

// Volumetric returns a copy with every rate multiplied by Delt. It fails
// with ErrNoStepLength when Delt is not positive.
func (t *Table) Volumetric() (*Table, error) {
	if !(t.Delt > 0) {
		return nil, fmt.Errorf("step %s delt=%g: %w", t.Key, t.Delt, ErrNoStepLength)
	}
	flow, err := matrix.Scale(t.Flow, t.Delt)
	if err != nil {
		return nil, err
	}
	v := *t
	v.Flow = flow
	v.Terms = append([]string(nil), t.Terms...)
	v.In = scaleTerms(t.In, t.Delt)
	v.Out = scaleTerms(t.Out, t.Delt)
	return &v, nil
}

func scaleTerms(m map[string][]float64, f float64) map[string][]float64 {
	out := make(map[string][]float64, len(m))
	for name, vs := range m {
		s := make([]float64, len(vs))
		for i, v := range vs {
			s[i] = v * f
		}
		out[name] = s
	}
	return out
}

// Compute builds one Table per output step of bf, in file order.
func Compute(bf *binaryfile.BudgetFile, zones []int, opts ...Option) ([]*Table, error) {
	cfg := newConfig(opts)

	// 1) Validate zones against the topology.
	if len(zones) == 0 {
		return nil, fmt.Errorf("empty zone array: %w", ErrZones)
	}
	nz := 0
	for n, z := range zones {
		if z < 0 {
			return nil, fmt.Errorf("cell %d has zone %d: %w", n, z, ErrZones)
		}
		nz = max(nz, z+1)
	}
	if n := cfg.cells(); n >= 0 && n != len(zones) {
		return nil, fmt.Errorf("%d zones for %d cells: %w", len(zones), n, datafile.ErrShapeMismatch)
	}

	// 2) One table per step.
	acc := accumulator{cfg: cfg, zones: zones}
	var tables []*Table
	var prevTotim float64
	for _, key := range bf.KstpKper() {
		recs, err := bf.GetData(key, "")
		if err != nil {
			return nil, err
		}
		t, err := newTable(key, nz)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if err := acc.add(t, rec); err != nil {
				return nil, fmt.Errorf("step %s: %w", key, err)
			}
		}
		if cfg.mt != nil {
			totim, _, delt, ok := cfg.mt.At(key)
			if !ok {
				return nil, fmt.Errorf("step %s not in time discretization: %w", key, datafile.ErrNotFound)
			}
			t.Totim, t.Delt = totim, delt
		}
		if t.Delt == 0 && t.Totim > prevTotim {
			t.Delt = t.Totim - prevTotim
		}
		if t.Delt == 0 {
			cfg.logger.Debug("zone budget step has no step length", zap.Stringer("key", key))
		}
		prevTotim = t.Totim
		cfg.logger.Debug("zone budget step",
			zap.Stringer("key", key), zap.Float64("totim", t.Totim),
			zap.Int("terms", len(t.Terms)), zap.Int("records", len(recs)))
		tables = append(tables, t)
	}
	return tables, nil
}

// accumulator routes records into a table.
type accumulator struct {
	cfg   config
	zones []int
}

// face offsets of the structured face-flow records as (layer, row, column).
var structuredFaces = map[string][3]int{
	"FLOW RIGHT FACE": {0, 0, 1},
	"FLOW FRONT FACE": {0, 1, 0},
	"FLOW LOWER FACE": {1, 0, 0},
}

func (a accumulator) add(t *Table, rec *binaryfile.BudgetRecord) error {
	if t.Totim == 0 && binaryfile.ReadMethod(rec.Method) != binaryfile.MethodArray {
		t.Totim, t.Delt = rec.Totim, rec.Delt
	}
	name := strings.TrimSpace(rec.Text)
	norm := strings.ReplaceAll(strings.ToUpper(name), "-", " ")

	switch {
	case strings.HasPrefix(norm, "DATA "):
		// auxiliary data such as specific discharge, not a flow
		return nil
	case norm == "FLOW JA FACE":
		return a.faceJA(t, rec)
	}
	if d, ok := structuredFaces[norm]; ok {
		return a.faceStructured(t, rec, d)
	}

	t.term(name)
	for _, cf := range rec.Payload.CellFlows() {
		if cf.Node < 0 || cf.Node >= len(a.zones) {
			return fmt.Errorf("%q cell %d outside %d zones: %w", name, cf.Node, len(a.zones), datafile.ErrShapeMismatch)
		}
		t.addTerm(name, a.zones[cf.Node], cf.Q)
	}
	return nil
}

func (a accumulator) array(rec *binaryfile.BudgetRecord, want int) ([]float64, error) {
	arr, ok := rec.Payload.(*binaryfile.ArrayPayload)
	if !ok || len(arr.Values) != want {
		return nil, fmt.Errorf("%q is not an array of %d values: %w", strings.TrimSpace(rec.Text), want, datafile.ErrShapeMismatch)
	}
	return arr.Values, nil
}

func (a accumulator) faceJA(t *Table, rec *binaryfile.BudgetRecord) error {
	adj := a.cfg.adj
	if adj == nil {
		return fmt.Errorf("%q without adjacency: %w", strings.TrimSpace(rec.Text), ErrTopology)
	}
	q, err := a.array(rec, adj.NJA())
	if err != nil {
		return err
	}
	adj.Upper(func(n, m, pos int) {
		switch v := q[pos]; {
		case v > 0:
			t.addFlow(a.zones[m], a.zones[n], v)
		case v < 0:
			t.addFlow(a.zones[n], a.zones[m], -v)
		}
	})
	return nil
}

func (a accumulator) faceStructured(t *Table, rec *binaryfile.BudgetRecord, d [3]int) error {
	c := a.cfg
	if !c.structured {
		return fmt.Errorf("%q without structured shape: %w", strings.TrimSpace(rec.Text), ErrTopology)
	}
	q, err := a.array(rec, c.nlay*c.nrow*c.ncol)
	if err != nil {
		return err
	}
	step := d[0]*c.nrow*c.ncol + d[1]*c.ncol + d[2]
	for k := 0; k+d[0] < c.nlay; k++ {
		for i := 0; i+d[1] < c.nrow; i++ {
			for j := 0; j+d[2] < c.ncol; j++ {
				n := (k*c.nrow+i)*c.ncol + j
				switch v := q[n]; {
				case v > 0:
					t.addFlow(a.zones[n], a.zones[n+step], v)
				case v < 0:
					t.addFlow(a.zones[n+step], a.zones[n], -v)
				}
			}
		}
	}
	return nil
}
