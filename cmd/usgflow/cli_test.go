package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/binaryfile"
	"github.com/katalvlaran/usgflow/config"
	"github.com/katalvlaran/usgflow/connectivity"
	"github.com/katalvlaran/usgflow/datafile"
	"github.com/katalvlaran/usgflow/grid"
	"github.com/katalvlaran/usgflow/modeltime"
	"github.com/katalvlaran/usgflow/zonebudget"
)

// run executes the root command with a no-op logger and no config file.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvLogLevel, "")
	root := newRootCmd(&app{logger: zap.NewNop()})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name string, fill func(w *bytes.Buffer)) string {
	t.Helper()
	var buf bytes.Buffer
	fill(&buf)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// headFile holds two steps of one period at totim 1 and 3.
func headFile(t *testing.T) string {
	return writeFile(t, "model.hds", func(buf *bytes.Buffer) {
		w := binaryfile.NewWriter(buf)
		for i, totim := range []float64{1, 3} {
			e := datafile.Entry{
				Key: datafile.Key{Kstp: i + 1, Kper: 1}, Pertim: totim, Totim: totim,
				Text: "HEAD", Ncol: 2, Nrow: 1, Ilay: 1,
			}
			require.NoError(t, w.WriteHead(e, []float64{float64(i), float64(i) + 0.5}))
		}
	})
}

func TestReverse(t *testing.T) {
	in := headFile(t)
	tdis := writeFile(t, "model.tdis", func(buf *bytes.Buffer) {
		mt, err := modeltime.New([]float64{3}, []int{2}, []float64{2})
		require.NoError(t, err)
		require.NoError(t, modeltime.WriteTDIS(buf, mt))
	})
	dir := t.TempDir()
	out := filepath.Join(dir, "rev.hds")
	tdisOut := filepath.Join(dir, "rev.tdis")

	_, err := run(t, "reverse", "--head", in, "--head-output", out, "--tdis", tdis, "--tdis-output", tdisOut)
	require.NoError(t, err)

	hf, err := binaryfile.OpenHeadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []datafile.Key{{Kstp: 1, Kper: 1}, {Kstp: 2, Kper: 1}}, hf.KstpKper())
	assert.Equal(t, []float64{2, 3}, hf.Times())
	rec, err := hf.ReadRecord(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.5}, rec.Values)

	mt, err := modeltime.OpenTDIS(tdisOut)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, mt.Nstp)
	assert.Equal(t, []float64{0.5}, mt.Tsmult)
}

func TestReverse_FlagErrors(t *testing.T) {
	_, err := run(t, "reverse")
	assert.Error(t, err)
	_, err = run(t, "reverse", "--head", headFile(t))
	assert.Error(t, err, "--head needs --head-output")
	_, err = run(t, "reverse", "--budget", headFile(t), "--budget-output", filepath.Join(t.TempDir(), "x"))
	assert.ErrorIs(t, err, datafile.ErrCorruptFile)
}

func TestConnect(t *testing.T) {
	gsf := writeFile(t, "model.gsf", func(buf *bytes.Buffer) {
		g, err := grid.NewStructured(2, grid.Uniform(2, 1), grid.Uniform(1, 1))
		require.NoError(t, err)
		require.NoError(t, grid.WriteGridSpec(buf, g))
	})
	out := filepath.Join(t.TempDir(), "model.disu")
	_, err := run(t, "connect", "--gsf", gsf, "--out", out, "--ordering", "ascending", "--parallel", "2")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	adj, err := connectivity.ReadDISU(f)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 3, 3}, adj.IAC)
	assert.NoError(t, adj.Validate())

	stdout, err := run(t, "connect", "--gsf", gsf, "--no-ivc")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "IVC")

	_, err = run(t, "connect", "--gsf", gsf, "--ordering", "random")
	assert.Error(t, err)
	_, err = run(t, "connect")
	assert.Error(t, err, "--gsf is required")
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", headFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "2 records")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "HEAD")

	_, err = run(t, "inspect", "--kind", "hologram", headFile(t))
	assert.Error(t, err)
	_, err = run(t, "inspect", "--kind", "formatted", headFile(t))
	assert.Error(t, err)
}

func TestZoneBudget(t *testing.T) {
	entry := func(text string) datafile.Entry {
		return datafile.Entry{
			Key: datafile.Key{Kstp: 1, Kper: 1}, Text: text,
			Ncol: 3, Nrow: 1, Nlay: 1, Delt: 2, Pertim: 2, Totim: 2,
		}
	}
	budget := writeFile(t, "model.cbc", func(buf *bytes.Buffer) {
		w := binaryfile.NewWriter(buf)
		require.NoError(t, w.WriteBudget(entry("FLOW RIGHT FACE"), &binaryfile.ArrayPayload{Compact: true, Values: []float64{5, 5, 0}}))
		require.NoError(t, w.WriteBudget(entry("WELLS"), &binaryfile.ListPayload{Nodes: []int{1}, Q: []float64{5}}))
		require.NoError(t, w.WriteBudget(entry("STORAGE"), &binaryfile.ArrayPayload{Compact: true, Values: []float64{0, 0, -5}}))
	})
	zones := writeFile(t, "zones.txt", func(buf *bytes.Buffer) { buf.WriteString("1 1 2\n") })

	out, err := run(t, "zonebudget", "--budget", budget, "--zones", zones, "--structured", "1,1,3", "--volumetric")
	require.NoError(t, err)
	assert.Contains(t, out, "2,1,1,TOTAL_IN,0,10,10")

	_, err = run(t, "zonebudget", "--budget", budget, "--zones", zones, "--structured", "1,3")
	assert.Error(t, err)
	_, err = run(t, "zonebudget", "--budget", budget, "--zones", zones, "--structured", "1,1,3", "--disu", zones)
	assert.Error(t, err)

	// Plain array records carry no step length.
	plain := writeFile(t, "plain.cbc", func(buf *bytes.Buffer) {
		e := datafile.Entry{Key: datafile.Key{Kstp: 1, Kper: 1}, Text: "STORAGE", Ncol: 2, Nrow: 1, Nlay: 1}
		require.NoError(t, binaryfile.NewWriter(buf).WriteBudget(e, &binaryfile.ArrayPayload{Values: []float64{3, -3}}))
	})
	two := writeFile(t, "two.txt", func(buf *bytes.Buffer) { buf.WriteString("1 2\n") })
	_, err = run(t, "zonebudget", "--budget", plain, "--zones", two, "--volumetric")
	assert.ErrorIs(t, err, zonebudget.ErrNoStepLength)

	tdis := writeFile(t, "model.tdis", func(buf *bytes.Buffer) {
		mt, err := modeltime.New([]float64{4}, []int{1}, nil)
		require.NoError(t, err)
		require.NoError(t, modeltime.WriteTDIS(buf, mt))
	})
	out, err = run(t, "zonebudget", "--budget", plain, "--zones", two, "--tdis", tdis, "--volumetric")
	require.NoError(t, err)
	assert.Contains(t, out, "4,1,1,FROM_STORAGE,0,12,0")
}

func TestListingAndTrack(t *testing.T) {
	lst := writeFile(t, "model.lst", func(buf *bytes.Buffer) {
		buf.WriteString(`
  VOLUME BUDGET FOR ENTIRE MODEL AT END OF TIME STEP    1, STRESS PERIOD   1
           IN:                                      IN:
                 WEL =         250.0000                   WEL =          25.0000     WEL_1
            TOTAL IN =         250.0000              TOTAL IN =          25.0000
          OUT:                                     OUT:
                 CHD =         250.0000                   CHD =          25.0000     CHD_1
           TOTAL OUT =         250.0000             TOTAL OUT =          25.0000
            IN - OUT =           0.0000              IN - OUT =           0.0000
 PERCENT DISCREPANCY =           0.00     PERCENT DISCREPANCY =           0.00
`)
	})
	out, err := run(t, "listing", lst)
	require.NoError(t, err)
	assert.Contains(t, out, "DISCREPANCY%")
	out, err = run(t, "listing", lst, "--term", "chd", "--dir", "out")
	require.NoError(t, err)
	assert.Contains(t, out, "250")
	_, err = run(t, "listing", lst, "--term", "chd", "--dir", "sideways")
	assert.Error(t, err)

	prt := writeFile(t, "model.trk.csv", func(buf *bytes.Buffer) {
		buf.WriteString("kper,kstp,imdl,iprp,irpt,ilay,icell,t,trelease,x,y,z\n" +
			"1,1,1,1,1,1,1,0,0,0.5,0.5,0.5\n" +
			"1,1,1,1,1,1,2,4,0,1.5,0.5,0.5\n")
	})
	out, err = run(t, "track", "--kind", "prt", "--dest", "1", prt)
	require.NoError(t, err)
	assert.Contains(t, out, "1 pathlines, max id 0, max time 4")
	assert.Contains(t, out, "1 pass through [1]")
}
