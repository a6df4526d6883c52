// SPDX-License-Identifier: MIT
// Package: usgflow/zonebudget
//
// options.go — functional options for Compute.

package zonebudget

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/connectivity"
	"github.com/katalvlaran/usgflow/modeltime"
)

// Option customizes Compute.
type Option func(*config)

type config struct {
	adj              *connectivity.Adjacency
	nlay, nrow, ncol int
	structured       bool
	mt               *modeltime.ModelTime
	logger           *zap.Logger
}

func newConfig(opts []Option) config {
	cfg := config{logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// cells returns the cell count implied by the topology, or -1.
func (c config) cells() int {
	switch {
	case c.adj != nil:
		return c.adj.NNodes()
	case c.structured:
		return c.nlay * c.nrow * c.ncol
	}
	return -1
}

// WithAdjacency attributes FLOW-JA-FACE records through adj. Panics on nil.
func WithAdjacency(adj *connectivity.Adjacency) Option {
	if adj == nil {
		panic("zonebudget: WithAdjacency(nil)")
	}
	return func(c *config) { c.adj = adj }
}

// WithStructured attributes FLOW RIGHT/FRONT/LOWER FACE records on an
// nlay×nrow×ncol grid. Panics on non-positive dimensions.
func WithStructured(nlay, nrow, ncol int) Option {
	if nlay < 1 || nrow < 1 || ncol < 1 {
		panic("zonebudget: WithStructured needs positive dimensions")
	}
	return func(c *config) {
		c.nlay, c.nrow, c.ncol, c.structured = nlay, nrow, ncol, true
	}
}

// WithModelTime takes Totim and Delt of every step from m instead of the
// budget headers. Panics on nil.
func WithModelTime(m *modeltime.ModelTime) Option {
	if m == nil {
		panic("zonebudget: WithModelTime(nil)")
	}
	return func(c *config) { c.mt = m }
}

// WithLogger routes per-step diagnostics to l. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("zonebudget: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}
