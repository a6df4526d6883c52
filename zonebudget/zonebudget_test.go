package zonebudget_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/usgflow/binaryfile"
	"github.com/katalvlaran/usgflow/connectivity"
	"github.com/katalvlaran/usgflow/datafile"
	"github.com/katalvlaran/usgflow/grid"
	"github.com/katalvlaran/usgflow/matrix"
	"github.com/katalvlaran/usgflow/modeltime"
	"github.com/katalvlaran/usgflow/zonebudget"
)

// A closed row of three cells: every cell balances.
//
//	well →5→ [0] →5→ [1] →5→ [2] →5→ storage
const (
	ncells = 3
	delt   = 2.0
)

func entry(text string, n int) datafile.Entry {
	return datafile.Entry{
		Key: datafile.Key{Kstp: 1, Kper: 1}, Text: text,
		Ncol: n, Nrow: 1, Nlay: 1, Delt: delt, Pertim: delt, Totim: delt,
	}
}

// boundaryRecords writes the well and storage terms.
func boundaryRecords(t *testing.T, w *binaryfile.Writer) {
	t.Helper()
	require.NoError(t, w.WriteBudget(entry("WELLS", ncells),
		&binaryfile.ListPayload{Nodes: []int{1}, Q: []float64{5}}))
	require.NoError(t, w.WriteBudget(entry("STORAGE", ncells),
		&binaryfile.ArrayPayload{Compact: true, Values: []float64{0, 0, -5}}))
}

func open(t *testing.T, b []byte) *binaryfile.BudgetFile {
	t.Helper()
	bf, err := binaryfile.NewBudgetFile(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	return bf
}

func structuredBudget(t *testing.T) *binaryfile.BudgetFile {
	t.Helper()
	var buf bytes.Buffer
	w := binaryfile.NewWriter(&buf)
	require.NoError(t, w.WriteBudget(entry("FLOW RIGHT FACE", ncells),
		&binaryfile.ArrayPayload{Compact: true, Values: []float64{5, 5, 0}}))
	boundaryRecords(t, w)
	return open(t, buf.Bytes())
}

func rowAdjacency(t *testing.T) *connectivity.Adjacency {
	t.Helper()
	g, err := grid.NewStructured(1, grid.Uniform(ncells, 1), grid.Uniform(1, 1))
	require.NoError(t, err)
	adj, err := connectivity.Build(g)
	require.NoError(t, err)
	return adj
}

func unstructuredBudget(t *testing.T, adj *connectivity.Adjacency) *binaryfile.BudgetFile {
	t.Helper()
	q := make([]float64, adj.NJA())
	flow := func(from, to int, v float64) {
		q[adj.Position(to, from)] = v
		q[adj.Position(from, to)] = -v
	}
	flow(0, 1, 5)
	flow(1, 2, 5)

	var buf bytes.Buffer
	w := binaryfile.NewWriter(&buf)
	require.NoError(t, w.WriteBudget(entry("FLOW-JA-FACE", adj.NJA()),
		&binaryfile.ArrayPayload{Compact: true, Values: q}))
	boundaryRecords(t, w)
	return open(t, buf.Bytes())
}

func TestCompute_ClosedSystem(t *testing.T) {
	adj := rowAdjacency(t)
	cases := []struct {
		name string
		bf   *binaryfile.BudgetFile
		opt  zonebudget.Option
	}{
		{"Structured", structuredBudget(t), zonebudget.WithStructured(1, 1, ncells)},
		{"Unstructured", unstructuredBudget(t, adj), zonebudget.WithAdjacency(adj)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tables, err := zonebudget.Compute(tc.bf, []int{1, 1, 2}, tc.opt)
			require.NoError(t, err)
			require.Len(t, tables, 1)
			tb := tables[0]

			assert.Equal(t, datafile.Key{Kstp: 1, Kper: 1}, tb.Key)
			assert.Equal(t, delt, tb.Totim)
			assert.Equal(t, delt, tb.Delt)
			assert.Equal(t, 3, tb.NZones)
			assert.Equal(t, []string{"WELLS", "STORAGE"}, tb.Terms)

			assert.Equal(t, 5.0, tb.Net(1, 2))
			assert.Equal(t, -5.0, tb.Net(2, 1))
			assert.Zero(t, tb.Net(1, 9))
			assert.Equal(t, []float64{0, 5, 0}, tb.In["WELLS"])
			assert.Equal(t, []float64{0, 0, 0}, tb.In["STORAGE"])
			assert.Equal(t, []float64{0, 0, 5}, tb.Out["STORAGE"])

			total := 0.0
			for z := 0; z < tb.NZones; z++ {
				assert.InDelta(t, 0, tb.Balance(z), 1e-12, "zone %d", z)
				assert.Zero(t, tb.Discrepancy(z))
				total += tb.Balance(z)
			}
			assert.Zero(t, total)

			net, err := tb.NetMatrix()
			require.NoError(t, err)
			tr, err := matrix.Transpose(net)
			require.NoError(t, err)
			neg, err := matrix.Scale(tr, -1)
			require.NoError(t, err)
			ok, err := matrix.AllClose(net, neg, 0, 0)
			require.NoError(t, err)
			assert.True(t, ok, "net flow is antisymmetric")

			vol, err := tb.Volumetric()
			require.NoError(t, err)
			assert.Equal(t, 10.0, vol.Net(1, 2))
			assert.Equal(t, []float64{0, 10, 0}, vol.In["WELLS"])
			assert.Equal(t, 5.0, tb.Net(1, 2), "original untouched")
		})
	}
}

func TestCompute_ExcludedZone(t *testing.T) {
	tables, err := zonebudget.Compute(structuredBudget(t), []int{0, 1, 2}, zonebudget.WithStructured(1, 1, ncells))
	require.NoError(t, err)
	tb := tables[0]

	assert.Equal(t, 5.0, tb.Net(0, 1), "flow from the excluded cell")
	assert.Equal(t, 5.0, tb.Net(1, 2))
	assert.Equal(t, []float64{5, 0, 0}, tb.In["WELLS"], "boundary terms of excluded cells land in zone 0")
	assert.Equal(t, []float64{0, 0, 5}, tb.Flow.Row(1))
	assert.Zero(t, tb.Balance(1))
}

func TestCompute_Errors(t *testing.T) {
	adj := rowAdjacency(t)
	cases := []struct {
		name  string
		bf    *binaryfile.BudgetFile
		zones []int
		opts  []zonebudget.Option
		want  error
	}{
		{"NoZones", structuredBudget(t), nil, nil, zonebudget.ErrZones},
		{"NegativeZone", structuredBudget(t), []int{1, -1, 2}, nil, zonebudget.ErrZones},
		{"NoShape", structuredBudget(t), []int{1, 1, 2}, nil, zonebudget.ErrTopology},
		{"NoAdjacency", unstructuredBudget(t, adj), []int{1, 1, 2}, nil, zonebudget.ErrTopology},
		{"ZoneCount", structuredBudget(t), []int{1, 2}, []zonebudget.Option{zonebudget.WithStructured(1, 1, ncells)}, datafile.ErrShapeMismatch},
		{"FaceSize", structuredBudget(t), []int{1, 1, 2, 2}, []zonebudget.Option{zonebudget.WithStructured(1, 2, 2)}, datafile.ErrShapeMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := zonebudget.Compute(tc.bf, tc.zones, tc.opts...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTable_VolumetricNeedsStepLength(t *testing.T) {
	// A plain array header carries no times.
	var buf bytes.Buffer
	w := binaryfile.NewWriter(&buf)
	e := datafile.Entry{Key: datafile.Key{Kstp: 1, Kper: 1}, Text: "STORAGE", Ncol: 2, Nrow: 1, Nlay: 1}
	require.NoError(t, w.WriteBudget(e, &binaryfile.ArrayPayload{Values: []float64{3, -3}}))
	b := buf.Bytes()

	tables, err := zonebudget.Compute(open(t, b), []int{1, 2})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	tb := tables[0]
	assert.Equal(t, []float64{0, 3, 0}, tb.In["STORAGE"])
	assert.Zero(t, tb.Delt)
	_, err = tb.Volumetric()
	assert.ErrorIs(t, err, zonebudget.ErrNoStepLength)

	mt, err := modeltime.New([]float64{4}, []int{1}, nil)
	require.NoError(t, err)
	tables, err = zonebudget.Compute(open(t, b), []int{1, 2}, zonebudget.WithModelTime(mt))
	require.NoError(t, err)
	tb = tables[0]
	assert.Equal(t, 4.0, tb.Totim)
	assert.Equal(t, 4.0, tb.Delt)
	vol, err := tb.Volumetric()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 12, 0}, vol.In["STORAGE"])
	assert.Equal(t, []float64{0, 0, 12}, vol.Out["STORAGE"])

	later, err := modeltime.New([]float64{4}, []int{1}, nil)
	require.NoError(t, err)
	e.Key = datafile.Key{Kstp: 1, Kper: 2}
	buf.Reset()
	require.NoError(t, binaryfile.NewWriter(&buf).WriteBudget(e, &binaryfile.ArrayPayload{Values: []float64{3, -3}}))
	_, err = zonebudget.Compute(open(t, buf.Bytes()), []int{1, 2}, zonebudget.WithModelTime(later))
	assert.ErrorIs(t, err, datafile.ErrNotFound)
}

func TestWriteCSV(t *testing.T) {
	tables, err := zonebudget.Compute(structuredBudget(t), []int{1, 1, 2}, zonebudget.WithStructured(1, 1, ncells))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, zonebudget.WriteCSV(&buf, tables))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	assert.Equal(t, "totim,kstp,kper,name,ZONE_0,ZONE_1,ZONE_2", lines[0])
	assert.Contains(t, lines, "2,1,1,FROM_WELLS,0,5,0")
	assert.Contains(t, lines, "2,1,1,FROM_ZONE_1,0,0,5")
	assert.Contains(t, lines, "2,1,1,TO_ZONE_2,0,5,0")
	assert.Contains(t, lines, "2,1,1,TOTAL_IN,0,5,5")
	assert.Contains(t, lines, "2,1,1,IN-OUT,0,0,0")
	// header, 2 terms + 3 zones + total per direction, balance, discrepancy
	assert.Len(t, lines, 1+2*(2+3+1)+2)

	var empty bytes.Buffer
	require.NoError(t, zonebudget.WriteCSV(&empty, nil))
	assert.Zero(t, empty.Len())
}

func TestReadZones(t *testing.T) {
	zones, err := zonebudget.ReadZones(strings.NewReader("# zones\n1 1\n  2\n\n0\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2, 0}, zones)

	for _, in := range []string{"", "# only a comment\n", "1 x 2", "1 -3"} {
		_, err := zonebudget.ReadZones(strings.NewReader(in))
		assert.ErrorIs(t, err, zonebudget.ErrZones, "input %q", in)
	}
}
