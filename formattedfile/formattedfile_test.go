package formattedfile_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/usgflow/datafile"
	"github.com/katalvlaran/usgflow/formattedfile"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want formattedfile.Format
	}{
		{"(10(1X1PE13.5))", formattedfile.Format{PerLine: 10, Blanks: 1, Desc: "E", Width: 13, Decimals: 5}},
		{"(20F10.3)", formattedfile.Format{PerLine: 20, Desc: "F", Width: 10, Decimals: 3}},
		{"(5e15.7)", formattedfile.Format{PerLine: 5, Desc: "E", Width: 15, Decimals: 7}},
		{"(E12.4)", formattedfile.Format{PerLine: 1, Desc: "E", Width: 12, Decimals: 4}},
		{"(8(1X,1PG12.5))", formattedfile.Format{PerLine: 8, Blanks: 1, Desc: "G", Width: 12, Decimals: 5}},
		{"(10(2XES14.6))", formattedfile.Format{PerLine: 10, Blanks: 2, Desc: "ES", Width: 14, Decimals: 6}},
		{"(25I4)", formattedfile.Format{PerLine: 25, Desc: "I", Width: 4}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := formattedfile.ParseFormat(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"(FREE)", "10F10.3", "()", "(10(1X1PE0.5))"} {
		_, err := formattedfile.ParseFormat(bad)
		assert.ErrorIs(t, err, formattedfile.ErrFormat, bad)
	}

	f, err := formattedfile.ParseFormat(formattedfile.DefaultFormat)
	require.NoError(t, err)
	assert.Equal(t, formattedfile.DefaultFormat, f.String())
	f, err = formattedfile.ParseFormat("(20F10.3)")
	require.NoError(t, err)
	assert.Equal(t, "(20F10.3)", f.String())
}

// values are exact in E13.5.
func values(step, lay int) []float64 {
	out := make([]float64, 12)
	for i := range out {
		out[i] = float64(step*100+lay*10+i) + 0.25
	}
	return out
}

func writeHeads(t *testing.T, fmtin string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := formattedfile.NewWriter(&buf, fmtin)
	require.NoError(t, err)
	for step, tot := range []float64{1.5, 4} {
		for lay := 1; lay <= 2; lay++ {
			e := datafile.Entry{
				Key: datafile.Key{Kstp: step + 1, Kper: 1}, Pertim: tot, Totim: tot,
				Text: "HEAD", Ncol: 4, Nrow: 3, Ilay: lay,
			}
			require.NoError(t, w.WriteRecord(e, values(step+1, lay)))
		}
	}
	return buf.Bytes()
}

func open(t *testing.T, b []byte, opts ...formattedfile.Option) *formattedfile.HeadFile {
	t.Helper()
	hf, err := formattedfile.New(bytes.NewReader(b), int64(len(b)), opts...)
	require.NoError(t, err)
	return hf
}

func TestHeadFile_RoundTrip(t *testing.T) {
	for _, fmtin := range []string{"", "(20F10.3)", "(5(1X1PE13.5))"} {
		t.Run(fmtin, func(t *testing.T) {
			hf := open(t, writeHeads(t, fmtin))
			assert.Equal(t, 4, hf.Len())
			assert.Equal(t, 2, hf.NLay())
			assert.Equal(t, []float64{1.5, 4}, hf.Times())
			assert.Equal(t, []datafile.Key{{Kstp: 1, Kper: 1}, {Kstp: 2, Kper: 1}}, hf.KstpKper())

			recs, err := hf.ReadAll()
			require.NoError(t, err)
			for i, r := range recs {
				assert.Equal(t, values(i/2+1, i%2+1), r.Values, "record %d", i)
				assert.Equal(t, "HEAD", r.Text)
			}

			a, err := hf.GetData(datafile.Key{Kstp: 2, Kper: 1})
			require.NoError(t, err)
			assert.Equal(t, 4.0, a.Totim)
			assert.Equal(t, 221.25, a.At(1, 0, 1))

			_, err = hf.GetData(datafile.Key{Kstp: 3, Kper: 1})
			assert.ErrorIs(t, err, datafile.ErrNotFound)
			_, err = hf.GetDataAtTime(2)
			assert.ErrorIs(t, err, datafile.ErrNotFound)
			_, err = hf.ReadRecord(-1)
			assert.ErrorIs(t, err, datafile.ErrNotFound)
		})
	}
}

func TestHeadFile_TouchingFieldsAndLabels(t *testing.T) {
	text := strings.Join([]string{
		"    1    1  2.0000000E+00  2.0000000E+00    DRAW DOWN     3     1     1 (3F6.2)",
		"-10.25-20.50******",
		"    2    1  5.0000000E+00  5.0000000E+00    DRAW DOWN     3     1     1 (FREE)",
		"1.0D+00   2",
		"  3.5",
		"",
	}, "\n")
	hf := open(t, []byte(text))
	require.Equal(t, 2, hf.Len())

	first, err := hf.ReadRecord(0)
	require.NoError(t, err)
	assert.Equal(t, "DRAW DOWN", first.Text)
	assert.Equal(t, []float64{-10.25, -20.5}, first.Values[:2])
	assert.True(t, math.IsNaN(first.Values[2]), "overflowed field")

	times, vals, err := hf.TimeSeries(0, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, times)
	assert.Equal(t, -20.5, vals[0])
	assert.Equal(t, 2.0, vals[1])

	_, _, err = hf.TimeSeries(1, 0, 0)
	assert.ErrorIs(t, err, datafile.ErrNotFound)
}

func TestHeadFile_Truncated(t *testing.T) {
	b := writeHeads(t, "")
	cut := bytes.LastIndexByte(b[:len(b)-1], '\n') + 1
	core, logs := observer.New(zapcore.WarnLevel)

	hf := open(t, b[:cut], formattedfile.WithLogger(zap.New(core)))
	assert.True(t, hf.Index().Truncated)
	assert.Equal(t, 3, hf.Len())
	assert.Equal(t, 1, logs.FilterMessage("index truncated").Len())

	for name, in := range map[string]string{
		"Empty":     "",
		"BadHeader": "not a header line at all\n1 2 3\n",
		"Negative":  "    0    1  1.0  1.0  HEAD  1  1  1 (FREE)\n1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := formattedfile.New(strings.NewReader(in), int64(len(in)))
			assert.ErrorIs(t, err, datafile.ErrCorruptFile)
		})
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := formattedfile.NewWriter(&buf, "(3F6.2)")
	require.NoError(t, err)

	e := datafile.Entry{Key: datafile.Key{Kstp: 1, Kper: 2}, Pertim: 1, Totim: 11, Text: "HEAD", Ncol: 2, Nrow: 2, Ilay: 1}
	require.NoError(t, w.WriteRecord(e, []float64{1, -2.5, 1234567, 4}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], " (3F6.2)"), lines[0])
	assert.Equal(t, "  1.00 -2.50******", lines[1])
	assert.Equal(t, "  4.00", lines[2])

	assert.ErrorIs(t, w.WriteRecord(e, []float64{1}), datafile.ErrShapeMismatch)
	_, err = formattedfile.NewWriter(&buf, "(FREE)")
	assert.ErrorIs(t, err, formattedfile.ErrFormat)
}
