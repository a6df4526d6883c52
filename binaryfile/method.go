// SPDX-License-Identifier: MIT
// Package: usgflow/binaryfile
//
// method.go — budget payload decoding by read method.
//
// Each ReadMethod has one methodCodec: size computes the payload length at
// an explicit offset (reading only count fields), decode turns payload bytes
// into a typed Payload. Payloads encode themselves for the writer.
//
//	0, 1  full array      ndim1·ndim2·|ndim3| F
//	2     list            nlist, nlist × (icell, q)
//	3     layer indicator ndim1·ndim2 ilay, ndim1·ndim2 F
//	4     top layer       ndim1·ndim2 F
//	5     list with aux   naux+1, naux × name[16], nlist, nlist × (icell, q, aux…)
//	6     named list      4 × name[16], ndat, (ndat−1) × name[16],
//	                      nlist, nlist × (id1, id2, q, aux…)

package binaryfile

import (
	"fmt"
	"io"

	"github.com/katalvlaran/usgflow/datafile"
)

// ReadMethod is the budget record "imeth" code.
type ReadMethod int

// Read methods.
const (
	MethodArray        ReadMethod = 0
	MethodArrayCompact ReadMethod = 1
	MethodList         ReadMethod = 2
	MethodLayerArray   ReadMethod = 3
	MethodTopLayer     ReadMethod = 4
	MethodListAux      ReadMethod = 5
	MethodNamedList    ReadMethod = 6
)

// maxAux bounds auxiliary column counts during plausibility checks.
const maxAux = 100

// CellFlow is one flow term of one cell, 0-based node.
type CellFlow struct {
	Node int
	Q    float64
}

// Payload is the decoded body of a budget record.
type Payload interface {
	// Method returns the read method the payload is written with.
	Method() ReadMethod
	// CellFlows lists the flow of every cell entry, 0-based nodes.
	CellFlows() []CellFlow
	appendTo(enc datafile.Encoder, b []byte) []byte
	negated() Payload
}

// ArrayPayload is a full array (methods 0 and 1), row-major by layer.
type ArrayPayload struct {
	Compact bool
	Values  []float64
}

// Method implements Payload.
func (p *ArrayPayload) Method() ReadMethod {
	if p.Compact {
		return MethodArrayCompact
	}
	return MethodArray
}

// CellFlows implements Payload.
func (p *ArrayPayload) CellFlows() []CellFlow {
	out := make([]CellFlow, len(p.Values))
	for i, q := range p.Values {
		out[i] = CellFlow{Node: i, Q: q}
	}
	return out
}

func (p *ArrayPayload) appendTo(enc datafile.Encoder, b []byte) []byte {
	return enc.AppendFloats(b, p.Values)
}

func (p *ArrayPayload) negated() Payload {
	return &ArrayPayload{Compact: p.Compact, Values: negate(p.Values)}
}

// LayerArrayPayload is a one-layer array (methods 3 and 4). Layers holds the
// 1-based layer of every column position for method 3 and is nil for 4.
type LayerArrayPayload struct {
	Layers []int
	Values []float64
}

// Method implements Payload.
func (p *LayerArrayPayload) Method() ReadMethod {
	if p.Layers == nil {
		return MethodTopLayer
	}
	return MethodLayerArray
}

// CellFlows implements Payload. Node numbers assume layers of len(Values)
// cells each.
func (p *LayerArrayPayload) CellFlows() []CellFlow {
	ncpl := len(p.Values)
	out := make([]CellFlow, ncpl)
	for i, q := range p.Values {
		lay := 1
		if p.Layers != nil {
			lay = p.Layers[i]
		}
		out[i] = CellFlow{Node: (lay-1)*ncpl + i, Q: q}
	}
	return out
}

func (p *LayerArrayPayload) appendTo(enc datafile.Encoder, b []byte) []byte {
	if p.Layers != nil {
		b = enc.AppendInt32s(b, p.Layers)
	}
	return enc.AppendFloats(b, p.Values)
}

func (p *LayerArrayPayload) negated() Payload {
	return &LayerArrayPayload{Layers: p.Layers, Values: negate(p.Values)}
}

// ListPayload is a cell list (methods 2 and 5). Nodes are 1-based as stored.
// Aux is nil for method 2. Names keep the padding they were read with.
type ListPayload struct {
	Aux       []string
	Nodes     []int
	Q         []float64
	AuxValues [][]float64
}

// Method implements Payload.
func (p *ListPayload) Method() ReadMethod {
	if p.Aux == nil {
		return MethodList
	}
	return MethodListAux
}

// CellFlows implements Payload.
func (p *ListPayload) CellFlows() []CellFlow {
	out := make([]CellFlow, len(p.Nodes))
	for i, n := range p.Nodes {
		out[i] = CellFlow{Node: n - 1, Q: p.Q[i]}
	}
	return out
}

func (p *ListPayload) appendTo(enc datafile.Encoder, b []byte) []byte {
	if p.Aux != nil {
		b = enc.AppendInt32(b, len(p.Aux)+1)
		for _, a := range p.Aux {
			b = enc.AppendText(b, a, datafile.TextLen)
		}
	}
	b = enc.AppendInt32(b, len(p.Nodes))
	for i, n := range p.Nodes {
		b = enc.AppendInt32(b, n)
		b = enc.AppendFloat(b, p.Q[i])
		if p.Aux != nil {
			b = enc.AppendFloats(b, p.AuxValues[i])
		}
	}
	return b
}

func (p *ListPayload) negated() Payload {
	return &ListPayload{Aux: p.Aux, Nodes: p.Nodes, Q: negate(p.Q), AuxValues: p.AuxValues}
}

// NamedListPayload is a model/package-qualified list (method 6). ID1 are
// 1-based cells of the first model, ID2 the matching ids of the second.
type NamedListPayload struct {
	Model1, Package1 string
	Model2, Package2 string
	Aux              []string
	ID1, ID2         []int
	Q                []float64
	AuxValues        [][]float64
}

// Method implements Payload.
func (p *NamedListPayload) Method() ReadMethod { return MethodNamedList }

// CellFlows implements Payload.
func (p *NamedListPayload) CellFlows() []CellFlow {
	out := make([]CellFlow, len(p.ID1))
	for i, n := range p.ID1 {
		out[i] = CellFlow{Node: n - 1, Q: p.Q[i]}
	}
	return out
}

func (p *NamedListPayload) appendTo(enc datafile.Encoder, b []byte) []byte {
	for _, s := range []string{p.Model1, p.Package1, p.Model2, p.Package2} {
		b = enc.AppendText(b, s, datafile.TextLen)
	}
	b = enc.AppendInt32(b, len(p.Aux)+1)
	for _, a := range p.Aux {
		b = enc.AppendText(b, a, datafile.TextLen)
	}
	b = enc.AppendInt32(b, len(p.ID1))
	for i := range p.ID1 {
		b = enc.AppendInt32(b, p.ID1[i])
		b = enc.AppendInt32(b, p.ID2[i])
		b = enc.AppendFloat(b, p.Q[i])
		b = enc.AppendFloats(b, p.AuxValues[i])
	}
	return b
}

func (p *NamedListPayload) negated() Payload {
	c := *p
	c.Q = negate(p.Q)
	return &c
}

func negate(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = -v
	}
	return out
}

// methodCodec sizes and decodes one read method.
type methodCodec struct {
	size   func(r io.ReaderAt, dec datafile.Decoder, e *datafile.Entry, off int64) (int64, error)
	decode func(dec datafile.Decoder, b []byte, e *datafile.Entry) (Payload, error)
}

var methodTable = map[ReadMethod]methodCodec{
	MethodArray:        {size: sizeArray, decode: decodeArray(false)},
	MethodArrayCompact: {size: sizeArray, decode: decodeArray(true)},
	MethodList:         {size: sizeList(false), decode: decodeList(false)},
	MethodLayerArray:   {size: sizeLayer(true), decode: decodeLayer(true)},
	MethodTopLayer:     {size: sizeLayer(false), decode: decodeLayer(false)},
	MethodListAux:      {size: sizeList(true), decode: decodeList(true)},
	MethodNamedList:    {size: sizeNamed, decode: decodeNamed},
}

func readInt(r io.ReaderAt, dec datafile.Decoder, off int64) (int, error) {
	b, err := datafile.ReadAt(r, off, 4)
	if err != nil {
		return 0, err
	}
	return dec.Int32(b, 0), nil
}

func countErr(off int64, what string, v int) error {
	return fmt.Errorf("payload at offset %d: %s=%d: %w", off, what, v, datafile.ErrCorruptFile)
}

func sizeArray(_ io.ReaderAt, dec datafile.Decoder, e *datafile.Entry, _ int64) (int64, error) {
	return int64(e.Ncol) * int64(e.Nrow) * int64(e.Nlay) * int64(dec.Prec.Size()), nil
}

func decodeArray(compact bool) func(datafile.Decoder, []byte, *datafile.Entry) (Payload, error) {
	return func(dec datafile.Decoder, b []byte, _ *datafile.Entry) (Payload, error) {
		return &ArrayPayload{Compact: compact, Values: dec.Floats(b, 0, len(b)/dec.Prec.Size())}, nil
	}
}

func sizeLayer(indicator bool) func(io.ReaderAt, datafile.Decoder, *datafile.Entry, int64) (int64, error) {
	return func(_ io.ReaderAt, dec datafile.Decoder, e *datafile.Entry, _ int64) (int64, error) {
		n := int64(e.Ncol) * int64(e.Nrow)
		if indicator {
			return n * int64(4+dec.Prec.Size()), nil
		}
		return n * int64(dec.Prec.Size()), nil
	}
}

func decodeLayer(indicator bool) func(datafile.Decoder, []byte, *datafile.Entry) (Payload, error) {
	return func(dec datafile.Decoder, b []byte, e *datafile.Entry) (Payload, error) {
		n := e.Ncol * e.Nrow
		p := &LayerArrayPayload{}
		off := 0
		if indicator {
			p.Layers = dec.Int32s(b, 0, n)
			off = 4 * n
		}
		p.Values = dec.Floats(b, off, n)
		return p, nil
	}
}

func sizeList(aux bool) func(io.ReaderAt, datafile.Decoder, *datafile.Entry, int64) (int64, error) {
	return func(r io.ReaderAt, dec datafile.Decoder, _ *datafile.Entry, off int64) (int64, error) {
		fw := int64(dec.Prec.Size())
		var head, naux int64
		if aux {
			nauxp1, err := readInt(r, dec, off)
			if err != nil {
				return 0, err
			}
			if nauxp1 < 1 || nauxp1 > maxAux+1 {
				return 0, countErr(off, "naux+1", nauxp1)
			}
			naux = int64(nauxp1 - 1)
			head = 4 + naux*datafile.TextLen
		}
		nlist, err := readInt(r, dec, off+head)
		if err != nil {
			return 0, err
		}
		if nlist < 0 {
			return 0, countErr(off+head, "nlist", nlist)
		}
		return head + 4 + int64(nlist)*(4+fw*(1+naux)), nil
	}
}

func decodeList(aux bool) func(datafile.Decoder, []byte, *datafile.Entry) (Payload, error) {
	return func(dec datafile.Decoder, b []byte, _ *datafile.Entry) (Payload, error) {
		fw := dec.Prec.Size()
		p := &ListPayload{}
		off, naux := 0, 0
		if aux {
			naux = dec.Int32(b, 0) - 1
			off = 4
			p.Aux = make([]string, naux)
			for i := range p.Aux {
				p.Aux[i] = dec.Text(b, off, datafile.TextLen)
				off += datafile.TextLen
			}
		}
		nlist := dec.Int32(b, off)
		off += 4
		p.Nodes = make([]int, nlist)
		p.Q = make([]float64, nlist)
		if aux {
			p.AuxValues = make([][]float64, nlist)
		}
		for i := 0; i < nlist; i++ {
			p.Nodes[i] = dec.Int32(b, off)
			p.Q[i] = dec.Float(b, off+4)
			off += 4 + fw
			if aux {
				p.AuxValues[i] = dec.Floats(b, off, naux)
				off += naux * fw
			}
		}
		return p, nil
	}
}

func sizeNamed(r io.ReaderAt, dec datafile.Decoder, _ *datafile.Entry, off int64) (int64, error) {
	fw := int64(dec.Prec.Size())
	head := int64(4 * datafile.TextLen)
	ndat, err := readInt(r, dec, off+head)
	if err != nil {
		return 0, err
	}
	if ndat < 1 || ndat > maxAux+1 {
		return 0, countErr(off+head, "ndat", ndat)
	}
	naux := int64(ndat - 1)
	head += 4 + naux*datafile.TextLen
	nlist, err := readInt(r, dec, off+head)
	if err != nil {
		return 0, err
	}
	if nlist < 0 {
		return 0, countErr(off+head, "nlist", nlist)
	}
	return head + 4 + int64(nlist)*(8+fw*(1+naux)), nil
}

func decodeNamed(dec datafile.Decoder, b []byte, _ *datafile.Entry) (Payload, error) {
	fw := dec.Prec.Size()
	p := &NamedListPayload{}
	names := make([]string, 4)
	for i := range names {
		names[i] = dec.Text(b, i*datafile.TextLen, datafile.TextLen)
	}
	p.Model1, p.Package1, p.Model2, p.Package2 = names[0], names[1], names[2], names[3]
	off := 4 * datafile.TextLen
	naux := dec.Int32(b, off) - 1
	off += 4
	p.Aux = make([]string, naux)
	for i := range p.Aux {
		p.Aux[i] = dec.Text(b, off, datafile.TextLen)
		off += datafile.TextLen
	}
	nlist := dec.Int32(b, off)
	off += 4
	p.ID1, p.ID2 = make([]int, nlist), make([]int, nlist)
	p.Q = make([]float64, nlist)
	p.AuxValues = make([][]float64, nlist)
	for i := 0; i < nlist; i++ {
		p.ID1[i] = dec.Int32(b, off)
		p.ID2[i] = dec.Int32(b, off+4)
		p.Q[i] = dec.Float(b, off+8)
		off += 8 + fw
		p.AuxValues[i] = dec.Floats(b, off, naux)
		off += naux * fw
	}
	return p, nil
}
