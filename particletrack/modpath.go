// SPDX-License-Identifier: MIT
// Package: usgflow/particletrack
//
// modpath.go — MODPATH 7 pathline and endpoint text files.
//
// Contract:
//   • Line 1 names the file type and version 7; line 2 starts with the
//     tracking direction; everything up to END HEADER is header.
//   • Pathline blocks: "seq group id npoints" followed by npoints lines of
//     "cell x y z time lx ly lz layer kper kstp".
//   • Endpoint records: 26 fields on one line.
//   • Cell, layer and particle id are converted to 0-based.

package particletrack

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/datafile"
)

const (
	pathlineMagic = "MODPATH_PATHLINE_FILE"
	endpointMagic = "MODPATH_ENDPOINT_FILE"
	endHeader     = "END HEADER"
	endpointWidth = 26
)

// fieldReader yields whitespace-split non-blank lines with line numbers.
type fieldReader struct {
	sc   *bufio.Scanner
	line int
}

func newFieldReader(r io.Reader) *fieldReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &fieldReader{sc: sc}
}

// next returns the fields of the next non-blank line, or io.EOF.
func (f *fieldReader) next() ([]string, error) {
	for f.sc.Scan() {
		f.line++
		if fs := strings.Fields(f.sc.Text()); len(fs) > 0 {
			return fs, nil
		}
	}
	if err := f.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (f *fieldReader) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: "+format+": %w", append(append([]any{f.line}, args...), datafile.ErrCorruptFile)...)
}

// header checks the magic line and returns the direction and the header
// lines between line 2 and END HEADER.
func (f *fieldReader) header(magic string) (Direction, [][]string, error) {
	first, err := f.next()
	if err != nil || first[0] != magic {
		return 0, nil, f.errorf("expected %s", magic)
	}
	if len(first) < 2 || first[1] != "7" {
		return 0, nil, f.errorf("unsupported %s version", magic)
	}
	second, err := f.next()
	if err != nil {
		return 0, nil, f.errorf("missing header")
	}
	d, err := strconv.Atoi(second[0])
	if err != nil || (d != int(Forward) && d != int(Backward)) {
		return 0, nil, f.errorf("tracking direction %q", second[0])
	}
	var rest [][]string
	for {
		fs, err := f.next()
		if err != nil {
			return 0, nil, f.errorf("missing %s", endHeader)
		}
		if strings.EqualFold(strings.Join(fs, " "), endHeader) {
			return Direction(d), append([][]string{second}, rest...), nil
		}
		rest = append(rest, fs)
	}
}

// numbers parses fs into ints at the positions in ints and floats elsewhere.
type numbers struct {
	fs  []string
	err error
}

func (n *numbers) int(i int) int {
	if n.err != nil {
		return 0
	}
	v, err := strconv.Atoi(n.fs[i])
	if err != nil {
		n.err = fmt.Errorf("field %d %q", i+1, n.fs[i])
	}
	return v
}

func (n *numbers) float(i int) float64 {
	if n.err != nil {
		return 0
	}
	v, err := datafile.ParseFloat(n.fs[i])
	if err != nil {
		n.err = fmt.Errorf("field %d %q", i+1, n.fs[i])
	}
	return v
}

// ReadPathlines parses a MODPATH 7 pathline file.
func ReadPathlines(r io.Reader, opts ...Option) (*Pathlines, error) {
	cfg := newConfig(opts)
	fr := newFieldReader(r)
	dir, _, err := fr.header(pathlineMagic)
	if err != nil {
		return nil, err
	}

	var lines []*Pathline
	for {
		fs, err := fr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(fs) != 4 {
			return nil, fr.errorf("pathline header has %d fields", len(fs))
		}
		n := numbers{fs: fs}
		pl := &Pathline{Group: n.int(1), ParticleID: n.int(2) - 1}
		npts := n.int(3)
		if n.err != nil {
			return nil, fr.errorf("%v", n.err)
		}
		pl.Points = make([]TrackPoint, 0, npts)
		for range npts {
			fs, err := fr.next()
			if err != nil {
				return nil, fr.errorf("particle %d: short pathline", pl.ParticleID)
			}
			if len(fs) < 11 {
				return nil, fr.errorf("pathline point has %d fields", len(fs))
			}
			n := numbers{fs: fs}
			pt := TrackPoint{
				Node:  n.int(0) - 1,
				X:     n.float(1),
				Y:     n.float(2),
				Z:     n.float(3),
				Time:  n.float(4),
				Layer: n.int(8) - 1,
			}
			if n.err != nil {
				return nil, fr.errorf("%v", n.err)
			}
			pl.Points = append(pl.Points, pt)
		}
		lines = append(lines, pl)
	}
	cfg.logger.Debug("pathlines read", zap.Int("particles", len(lines)))
	return newPathlines(dir, lines), nil
}

// ReadEndpoints parses a MODPATH 7 endpoint file.
func ReadEndpoints(r io.Reader, opts ...Option) (*Endpoints, error) {
	cfg := newConfig(opts)
	fr := newFieldReader(r)
	dir, hdr, err := fr.header(endpointMagic)
	if err != nil {
		return nil, err
	}
	groups := groupNames(hdr)

	var eps []*Endpoint
	for {
		fs, err := fr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(fs) < endpointWidth {
			return nil, fr.errorf("endpoint has %d fields, want %d", len(fs), endpointWidth)
		}
		n := numbers{fs: fs}
		ep := &Endpoint{
			Group:      n.int(1),
			ParticleID: n.int(2) - 1,
			Status:     n.int(3),
			Initial: TrackPoint{
				Time:  n.float(4),
				Node:  n.int(6) - 1,
				Layer: n.int(7) - 1,
				X:     n.float(11),
				Y:     n.float(12),
				Z:     n.float(13),
			},
			InitialZone: n.int(14),
			Final: TrackPoint{
				Time:  n.float(5),
				Node:  n.int(16) - 1,
				Layer: n.int(17) - 1,
				X:     n.float(21),
				Y:     n.float(22),
				Z:     n.float(23),
			},
			FinalZone: n.int(24),
		}
		if n.err != nil {
			return nil, fr.errorf("%v", n.err)
		}
		eps = append(eps, ep)
	}
	cfg.logger.Debug("endpoints read", zap.Int("particles", len(eps)), zap.Int("groups", len(groups)))
	return newEndpoints(dir, eps, groups), nil
}

// groupNames picks the group names out of the endpoint header: line 4
// holds the group count and the names follow one per line.
func groupNames(hdr [][]string) []string {
	if len(hdr) < 3 {
		return nil
	}
	n, err := strconv.Atoi(hdr[2][0])
	if err != nil || n <= 0 || len(hdr) < 3+n {
		return nil
	}
	names := make([]string, n)
	for i := range n {
		names[i] = strings.Join(hdr[3+i], " ")
	}
	return names
}

// OpenPathlines reads the pathline file at path.
func OpenPathlines(path string, opts ...Option) (*Pathlines, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ReadPathlines(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// OpenEndpoints reads the endpoint file at path.
func OpenEndpoints(path string, opts ...Option) (*Endpoints, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	e, err := ReadEndpoints(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}
