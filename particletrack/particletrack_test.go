package particletrack_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/usgflow/datafile"
	"github.com/katalvlaran/usgflow/particletrack"
)

const pathlineFile = `MODPATH_PATHLINE_FILE         7         2
    1   0.000000000000000E+00   0.000000000000000E+00   0.000000000000000E+00   0.000000000000000E+00
END HEADER
    1    1    1    3
    5  1.0  2.0  3.0  0.0     0.5 0.5 0.5  1  1  1
    6  2.0  2.0  3.0  10.0    0.5 0.5 0.5  1  1  1
   16  3.0  2.0  1.0  25.5D0  0.5 0.5 0.5  2  1  1
    2    1    2    2
    7  1.0  5.0  3.0  0.0     0.5 0.5 0.5  1  1  1
    8  2.0  5.0  3.0  4.0     0.5 0.5 0.5  1  1  1
`

const endpointFile = `MODPATH_ENDPOINT_FILE         7         2
    2    2    2    2   0.0   0.0   0.0   0.0
    0    0    2    0    0    0    0    0    0    0
    1
west wells
END HEADER
 1 1 1 2 0.0 100.0  5 1 0.5 0.5 0.5 10.0 20.0 30.0 1 0 16 2 0.5 0.5 0.0 11.0 21.0 5.0 2 6
 2 1 2 2 0.0  50.0  6 1 0.5 0.5 0.5 12.0 20.0 30.0 1 0  9 1 0.5 0.5 0.0 13.0 22.0 6.0 3 6
`

const prtFile = `kper,kstp,imdl,iprp,irpt,ilay,icell,izone,istatus,ireason,trelease,t,x,y,z,name
1,1,1,1,1,1,1,0,1,0,0.0,0.0,0.5,9.5,0.5,
1,1,1,1,2,1,3,0,1,0,0.0,0.0,2.5,9.5,0.5,
1,1,1,1,1,1,2,0,1,1,0.0,3.5,1.5,9.5,0.5,
1,1,1,1,1,2,12,0,5,3,0.0,9.0,1.5,8.5,0.2,
1,1,1,1,2,1,4,0,2,2,0.0,6.0,3.5,9.5,0.5,
`

func TestReadPathlines(t *testing.T) {
	p, err := particletrack.ReadPathlines(strings.NewReader(pathlineFile))
	require.NoError(t, err)
	assert.Equal(t, particletrack.Forward, p.Direction)
	require.Len(t, p.Lines, 2)
	assert.Equal(t, 1, p.MaxID())
	assert.Equal(t, 25.5, p.MaxTime())

	l, err := p.Get(0)
	require.NoError(t, err)
	require.Len(t, l.Points, 3)
	assert.Equal(t, 1, l.Group)
	assert.Equal(t, particletrack.TrackPoint{X: 3, Y: 2, Z: 1, Time: 25.5, Node: 15, Layer: 1}, l.Points[2])

	_, err = p.Get(7)
	assert.ErrorIs(t, err, datafile.ErrNotFound)

	cases := []struct {
		name  string
		nodes []int
		want  []int
	}{
		{"first track", []int{15}, []int{0}},
		{"second track", []int{7}, []int{1}},
		{"both", []int{4, 6}, []int{0, 1}},
		{"none", []int{99}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []int
			for _, l := range p.Destination(tc.nodes...) {
				got = append(got, l.ParticleID)
			}
			assert.Equal(t, tc.want, got)
		})
	}

	late := p.Filter(10, true)
	require.Len(t, late, 1)
	assert.Len(t, late[0].Points, 2)
	early := p.Filter(4, false)
	require.Len(t, early, 2)
	assert.Len(t, early[0].Points, 1)
	assert.Len(t, early[1].Points, 2)
	assert.Len(t, p.Lines[0].Points, 3, "Filter must not modify the source")
}

func TestReadEndpoints(t *testing.T) {
	e, err := particletrack.ReadEndpoints(strings.NewReader(endpointFile))
	require.NoError(t, err)
	assert.Equal(t, particletrack.Backward, e.Direction)
	assert.Equal(t, []string{"west wells"}, e.Groups)
	assert.Equal(t, 1, e.MaxID())
	assert.Equal(t, 100.0, e.MaxTime())

	ep, err := e.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 2, ep.Status)
	assert.Equal(t, particletrack.TrackPoint{X: 12, Y: 20, Z: 30, Node: 5}, ep.Initial)
	assert.Equal(t, particletrack.TrackPoint{X: 13, Y: 22, Z: 6, Time: 50, Node: 8}, ep.Final)
	assert.Equal(t, 1, ep.InitialZone)
	assert.Equal(t, 3, ep.FinalZone)

	dest := e.Destination(15)
	require.Len(t, dest, 1)
	assert.Equal(t, 0, dest[0].ParticleID)
	assert.Empty(t, e.Destination(5), "initial cells do not count")

	assert.Len(t, e.Filter(60, true), 1)
	assert.Len(t, e.Filter(60, false), 1)
	assert.Len(t, e.Filter(50, false), 1)
	assert.Len(t, e.Filter(0, true), 2)
}

func TestReadPRT(t *testing.T) {
	p, err := particletrack.ReadPRT(strings.NewReader(prtFile))
	require.NoError(t, err)
	require.Len(t, p.Lines, 2)
	assert.Equal(t, 9.0, p.MaxTime())

	first := p.All()[0]
	require.Len(t, first.Points, 3)
	assert.Equal(t, []int{0, 1, 11}, []int{first.Points[0].Node, first.Points[1].Node, first.Points[2].Node})
	assert.Equal(t, 1, first.Points[2].Layer)

	second, err := p.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 6.0, second.Points[1].Time)

	eps := p.Endpoints()
	require.Len(t, eps.Points, 2)
	assert.Equal(t, 5, eps.Points[0].Status)
	assert.Equal(t, 11, eps.Points[0].Final.Node)
	assert.Equal(t, 2, eps.Points[1].Status)
	assert.Len(t, eps.Destination(3), 1)
}

func TestCorrupt(t *testing.T) {
	cases := []struct {
		name string
		read func(string) error
		in   string
	}{
		{"pathline wrong magic", readPathlines, endpointFile},
		{"pathline wrong version", readPathlines, strings.Replace(pathlineFile, "  7  ", "  6  ", 1)},
		{"pathline no end header", readPathlines, "MODPATH_PATHLINE_FILE 7 2\n1 0 0 0 0\n"},
		{"pathline short block", readPathlines, strings.Split(pathlineFile, "    2    1    2    2")[0] + "    2    1    2    3\n    7 1 5 3 0 0.5 0.5 0.5 1 1 1\n"},
		{"pathline bad number", readPathlines, strings.Replace(pathlineFile, "10.0", "1x.0", 1)},
		{"pathline bad direction", readPathlines, "MODPATH_PATHLINE_FILE 7 2\n3 0 0 0 0\nEND HEADER\n"},
		{"endpoint short record", readEndpoints, strings.Replace(endpointFile, " 3 6\n", "\n", 1)},
		{"endpoint empty", readEndpoints, ""},
		{"prt missing column", readPRT, "kper,kstp,x,y\n1,1,0,0\n"},
		{"prt bad value", readPRT, strings.Replace(prtFile, "9.0,1.5", "nine,1.5", 1)},
		{"prt empty", readPRT, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.read(tc.in), datafile.ErrCorruptFile)
		})
	}
}

func readPathlines(s string) error {
	_, err := particletrack.ReadPathlines(strings.NewReader(s))
	return err
}

func readEndpoints(s string) error {
	_, err := particletrack.ReadEndpoints(strings.NewReader(s))
	return err
}

func readPRT(s string) error {
	_, err := particletrack.ReadPRT(strings.NewReader(s))
	return err
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}
	p, err := particletrack.OpenPathlines(write("a.mppth", pathlineFile))
	require.NoError(t, err)
	assert.Len(t, p.Lines, 2)
	e, err := particletrack.OpenEndpoints(write("a.mpend", endpointFile))
	require.NoError(t, err)
	assert.Len(t, e.Points, 2)
	q, err := particletrack.OpenPRT(write("a.trk.csv", prtFile))
	require.NoError(t, err)
	assert.Len(t, q.Lines, 2)

	_, err = particletrack.OpenPathlines(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = particletrack.OpenEndpoints(write("bad.mpend", "junk\n"))
	assert.ErrorIs(t, err, datafile.ErrCorruptFile)
}

func TestWithLoggerNil(t *testing.T) {
	assert.Panics(t, func() { particletrack.WithLogger(nil) })
}
