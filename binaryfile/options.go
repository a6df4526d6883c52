// SPDX-License-Identifier: MIT
// Package: usgflow/binaryfile
//
// options.go — functional options shared by readers and the writer.

package binaryfile

import (
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/datafile"
	"github.com/katalvlaran/usgflow/modeltime"
)

// Shape is the expected structured grid size.
type Shape struct {
	Nlay, Nrow, Ncol int
}

// Option customizes readers and writers.
type Option func(*config)

type config struct {
	prec    datafile.Precision
	order   binary.ByteOrder
	kind    Kind
	kindSet bool
	shape   *Shape
	mt      *modeltime.ModelTime
	logger  *zap.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		prec:   datafile.Auto,
		order:  datafile.DefaultByteOrder,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithPrecision fixes the float width instead of detecting it.
func WithPrecision(p datafile.Precision) Option {
	return func(c *config) { c.prec = p }
}

// WithByteOrder overrides datafile.DefaultByteOrder. Panics on nil.
func WithByteOrder(o binary.ByteOrder) Option {
	if o == nil {
		panic("binaryfile: WithByteOrder(nil)")
	}
	return func(c *config) { c.order = o }
}

// WithKind selects the head record layout. Without it, labels ending in
// "U" (HEADU, DRAWDOWNU) select KindHeadU and everything else KindHead.
func WithKind(k Kind) Option {
	return func(c *config) { c.kind, c.kindSet = k, true }
}

// WithShape declares the expected grid size. Records that disagree are
// indexed with datafile.ErrShapeMismatch instead of being trusted.
func WithShape(nlay, nrow, ncol int) Option {
	return func(c *config) { c.shape = &Shape{Nlay: nlay, Nrow: nrow, Ncol: ncol} }
}

// WithModelTime supplies the time discretization used by Reverse.
func WithModelTime(m *modeltime.ModelTime) Option {
	return func(c *config) { c.mt = m }
}

// WithLogger routes scan warnings to l. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("binaryfile: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}
