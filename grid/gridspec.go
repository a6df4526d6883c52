// SPDX-License-Identifier: MIT
// Package: usgflow/grid
//
// gridspec.go — GSF grid specification reader and writer.
//
// Layout (whitespace separated, '#' starts a comment line):
//
//	UNSTRUCTURED GWF
//	nnodes nlay iz ic
//	nvertices
//	x y z                       (nvertices rows)
//	node x y z lay m iv1..ivm   (nnodes rows, 1-based node, lay, iv)
//
// Vertex rows are 3-D; cells usually list their top ring followed by their
// bottom ring. Coordinates are folded to 2-D through a VertexTable and each
// cycle keeps the first occurrence of every planar vertex, which recovers the
// footprint ring. Nodes must appear grouped by ascending layer.

package grid

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

const gsfHeader = "UNSTRUCTURED GWF"

// tokens walks whitespace-separated fields across lines, skipping comments.
type tokens struct {
	sc     *bufio.Scanner
	fields []string
	line   int
}

func newTokens(r io.Reader) *tokens {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &tokens{sc: sc}
}

func (t *tokens) next() (string, error) {
	for len(t.fields) == 0 {
		if !t.sc.Scan() {
			if err := t.sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("line %d: unexpected end of file: %w", t.line, ErrSyntax)
		}
		t.line++
		s := strings.TrimSpace(t.sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		t.fields = strings.Fields(s)
	}
	f := t.fields[0]
	t.fields = t.fields[1:]
	return f, nil
}

func (t *tokens) int() (int, error) {
	s, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("line %d: %q is not an integer: %w", t.line, s, ErrSyntax)
	}
	return v, nil
}

func (t *tokens) float() (float64, error) {
	s, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := datafile.ParseFloat(s)
	if err != nil {
		return 0, fmt.Errorf("line %d: %q is not a number: %w", t.line, s, ErrSyntax)
	}
	return v, nil
}

// ReadGridSpec parses a GSF grid specification.
func ReadGridSpec(r io.Reader, opts ...Option) (*Grid, error) {
	cfg := newReadConfig(opts)
	tk := newTokens(r)

	// 1) Header line: the two keywords, any case.
	for _, want := range strings.Fields(gsfHeader) {
		got, err := tk.next()
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(got, want) {
			return nil, fmt.Errorf("header %q, want %q: %w", got, gsfHeader, ErrSyntax)
		}
	}

	// 2) Dimensions.
	nnodes, err := tk.int()
	if err != nil {
		return nil, err
	}
	nlay, err := tk.int()
	if err != nil {
		return nil, err
	}
	if _, err = tk.int(); err != nil { // iz
		return nil, err
	}
	if _, err = tk.int(); err != nil { // ic
		return nil, err
	}
	nverts, err := tk.int()
	if err != nil {
		return nil, err
	}
	if nnodes <= 0 || nlay <= 0 || nverts <= 0 {
		return nil, fmt.Errorf("nnodes=%d nlay=%d nvertices=%d: %w", nnodes, nlay, nverts, ErrEmptyGrid)
	}

	// 3) Vertices, folded to 2-D.
	vt := NewVertexTable(cfg.tol)
	planar := make([]int, nverts)
	for i := 0; i < nverts; i++ {
		x, err := tk.float()
		if err != nil {
			return nil, err
		}
		y, err := tk.float()
		if err != nil {
			return nil, err
		}
		if _, err = tk.float(); err != nil {
			return nil, err
		}
		planar[i] = vt.Add(x, y)
	}

	// 4) Cells.
	iverts := make([][]int, nnodes)
	z := make([]float64, nnodes)
	ncpl := make([]int, nlay)
	lastLay := 1
	for n := 0; n < nnodes; n++ {
		id, err := tk.int()
		if err != nil {
			return nil, err
		}
		if id != n+1 {
			return nil, fmt.Errorf("node row %d carries id %d: %w", n+1, id, ErrSyntax)
		}
		for k := 0; k < 2; k++ { // x, y
			if _, err = tk.float(); err != nil {
				return nil, err
			}
		}
		if z[n], err = tk.float(); err != nil {
			return nil, err
		}
		lay, err := tk.int()
		if err != nil {
			return nil, err
		}
		if lay < lastLay || lay > nlay {
			return nil, fmt.Errorf("node %d layer %d (previous %d, nlay %d): %w", id, lay, lastLay, nlay, ErrLayerCount)
		}
		lastLay = lay
		ncpl[lay-1]++
		m, err := tk.int()
		if err != nil {
			return nil, err
		}
		seen := make(map[int]struct{}, m)
		cyc := make([]int, 0, m)
		for j := 0; j < m; j++ {
			iv, err := tk.int()
			if err != nil {
				return nil, err
			}
			if iv < 1 || iv > nverts {
				return nil, fmt.Errorf("node %d vertex %d: %w", id, iv, ErrVertexIndex)
			}
			p := planar[iv-1]
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			cyc = append(cyc, p)
		}
		iverts[n] = cyc
	}

	cfg.logger.Debug("grid specification read",
		zap.Int("nodes", nnodes), zap.Int("layers", nlay),
		zap.Int("vertices", nverts), zap.Int("planar_vertices", vt.Len()))
	return New(vt.Points(), iverts, ncpl, z)
}

// OpenGridSpec reads a GSF file from path.
func OpenGridSpec(path string, opts ...Option) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := ReadGridSpec(bufio.NewReader(f), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteGridSpec writes g in GSF layout with planar vertices at z = 0 and
// node elevations from g.Z (0 when absent).
func WriteGridSpec(w io.Writer, g *Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, gsfHeader)
	fmt.Fprintf(bw, "%d %d 1 1\n", g.NNodes(), g.NLay())
	fmt.Fprintf(bw, "%d\n", len(g.Vertices))
	for _, v := range g.Vertices {
		fmt.Fprintf(bw, "%s %s 0\n", fmtFloat(v.X), fmtFloat(v.Y))
	}
	for n, cyc := range g.IVerts {
		c := g.Centroid(n)
		var zc float64
		if g.Z != nil {
			zc = g.Z[n]
		}
		lay, _ := g.Layer(n)
		fmt.Fprintf(bw, "%d %s %s %s %d %d", n+1, fmtFloat(c.X), fmtFloat(c.Y), fmtFloat(zc), lay+1, len(cyc))
		for _, v := range cyc {
			fmt.Fprintf(bw, " %d", v+1)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
