package listbudget_test

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/usgflow/datafile"
	"github.com/katalvlaran/usgflow/listbudget"
)

func mf2005Section(kstp, kper int, wells string) string {
	return strings.NewReplacer("KSTP", strconv.Itoa(kstp), "KPER", strconv.Itoa(kper), "WELLS_OUT", wells).Replace(`
 HEAD WILL BE SAVED ON UNIT   51 AT END OF TIME STEP    1, STRESS PERIOD    1

  VOLUMETRIC BUDGET FOR ENTIRE MODEL AT END OF TIME STEP    KSTP IN STRESS PERIOD    KPER
  ------------------------------------------------------------------------------

     CUMULATIVE VOLUMES      L**3       RATES FOR THIS TIME STEP      L**3/T
     ------------------                 ------------------------

           IN:                                      IN:
           ---                                      ---
             STORAGE =           0.0000               STORAGE =           0.0000
       CONSTANT HEAD =         100.0000         CONSTANT HEAD =          10.0000
               WELLS =           0.0000                 WELLS =           0.0000

            TOTAL IN =         100.0000              TOTAL IN =          10.0000

          OUT:                                     OUT:
          ----                                     ----
             STORAGE =           0.0000               STORAGE =           0.0000
       CONSTANT HEAD =          50.0000         CONSTANT HEAD =           5.0000
               WELLS =       WELLS_OUT                 WELLS =           5.0000

           TOTAL OUT =         100.0000             TOTAL OUT =          10.0000

            IN - OUT =           0.0000              IN - OUT =           0.0000

 PERCENT DISCREPANCY =           0.00     PERCENT DISCREPANCY =           0.00
`)
}

const mf6Listing = `
  VOLUME BUDGET FOR ENTIRE MODEL AT END OF TIME STEP    2, STRESS PERIOD   3
  ---------------------------------------------------------------------------------------------------

     CUMULATIVE VOLUME      L**3       RATES FOR THIS TIME STEP      L**3/T          PACKAGE NAME
     ------------------                 ------------------------     ----------------

           IN:                                      IN:
           ---                                      ---
                 WEL =           0.0000                   WEL =           0.0000     WEL_1
                 WEL =         250.0000                   WEL =          2.5D+01     WEL_2
                 CHD =      *********                     CHD =           1.0000     CHD_1

            TOTAL IN =         250.0000              TOTAL IN =          26.0000

          OUT:                                     OUT:
          ----                                     ----
                 WEL =         250.0000                   WEL =          26.0000     WEL_1

           TOTAL OUT =         250.0000             TOTAL OUT =          26.0000

            IN - OUT =           0.0000              IN - OUT =           0.0000

 PERCENT DISCREPANCY =           0.00     PERCENT DISCREPANCY =           0.00
`

func TestParse_MF2005(t *testing.T) {
	f, err := listbudget.Parse(strings.NewReader(mf2005Section(1, 1, "50.0000") + mf2005Section(2, 1, "60.0000")))
	require.NoError(t, err)
	require.Len(t, f.Budgets(), 2)

	b, err := f.Get(datafile.Key{Kstp: 2, Kper: 1})
	require.NoError(t, err)
	require.Len(t, b.In, 3)
	require.Len(t, b.Out, 3)
	assert.Equal(t, listbudget.Term{Name: "CONSTANT HEAD", Pair: listbudget.Pair{Cum: 100, Rate: 10}}, b.In[1])
	assert.Equal(t, listbudget.Pair{Cum: 100, Rate: 10}, b.TotalIn)
	assert.Equal(t, listbudget.Pair{Cum: 100, Rate: 10}, b.TotalOut)
	assert.Equal(t, listbudget.Pair{}, b.InMinusOut)
	assert.Equal(t, listbudget.Pair{}, b.Discrepancy)

	s, err := f.Series("wells", listbudget.Out)
	require.NoError(t, err)
	assert.Equal(t, []listbudget.Sample{
		{Key: datafile.Key{Kstp: 1, Kper: 1}, Pair: listbudget.Pair{Cum: 50, Rate: 5}},
		{Key: datafile.Key{Kstp: 2, Kper: 1}, Pair: listbudget.Pair{Cum: 60, Rate: 5}},
	}, s)

	_, err = f.Get(datafile.Key{Kstp: 9, Kper: 9})
	assert.ErrorIs(t, err, datafile.ErrNotFound)
	_, err = f.Series("RIVER LEAKAGE", listbudget.In)
	assert.ErrorIs(t, err, datafile.ErrNotFound)
}

func TestParse_MF6(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f, err := listbudget.Parse(strings.NewReader(mf6Listing), listbudget.WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("budget parsed").Len())

	b, err := f.Get(datafile.Key{Kstp: 2, Kper: 3})
	require.NoError(t, err)
	require.Len(t, b.In, 3)
	assert.Equal(t, "WEL_2", b.In[1].Package)
	assert.Equal(t, 25.0, b.In[1].Rate)
	assert.True(t, math.IsNaN(b.In[2].Cum), "overflow reads as NaN")
	assert.Equal(t, 1.0, b.In[2].Rate)

	cases := []struct {
		name string
		dir  listbudget.Direction
		want float64
		ok   bool
	}{
		{"WEL", listbudget.In, 0, true},
		{"wel_2", listbudget.In, 25, true},
		{"CHD_1", listbudget.In, 1, true},
		{"WEL", listbudget.Out, 26, true},
		{"CHD", listbudget.Out, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name+"/"+tc.dir.String(), func(t *testing.T) {
			term, ok := b.Term(tc.name, tc.dir)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, term.Rate)
		})
	}
}

func TestParse_Corrupt(t *testing.T) {
	section := mf2005Section(1, 1, "50.0000")
	cases := map[string]string{
		"no key":          "  VOLUMETRIC BUDGET FOR ENTIRE MODEL\n",
		"cut off":         section[:strings.Index(section, "TOTAL OUT")],
		"bad value":       strings.Replace(section, "100.0000", "1O0.0000", 1),
		"one value":       strings.Replace(section, "STORAGE =           0.0000               STORAGE =           0.0000", "STORAGE =", 1),
		"nested sections": section[:strings.Index(section, "TOTAL IN")] + section,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := listbudget.Parse(strings.NewReader(in))
			assert.ErrorIs(t, err, datafile.ErrCorruptFile)
		})
	}
}

func TestParse_NoBudgets(t *testing.T) {
	f, err := listbudget.Parse(strings.NewReader("MODFLOW 6\nNormal termination of simulation.\n"))
	require.NoError(t, err)
	assert.Empty(t, f.Budgets())
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.lst")
	require.NoError(t, os.WriteFile(path, []byte(mf6Listing), 0o644))
	f, err := listbudget.Open(path)
	require.NoError(t, err)
	assert.Len(t, f.Budgets(), 1)

	_, err = listbudget.Open(filepath.Join(t.TempDir(), "missing.lst"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Panics(t, func() { listbudget.WithLogger(nil) })
}
