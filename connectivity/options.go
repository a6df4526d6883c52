// SPDX-License-Identifier: MIT
// Package: usgflow/connectivity
//
// options.go — functional options for Build.
//
// Contract:
//   • Option constructors validate and panic on meaningless input; Build
//     itself never panics.
//   • Zero options give the defaults: OrderSplit, relative area tolerance
//     1e-6, serial execution, no-op logger.

package connectivity

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Ordering selects how each JA segment is sorted after the self entry.
type Ordering int

const (
	// OrderSplit lists horizontal neighbours, then vertical ones, each ascending.
	OrderSplit Ordering = iota
	// OrderAscending lists all neighbours in ascending node order.
	OrderAscending
)

// String implements fmt.Stringer.
func (o Ordering) String() string {
	switch o {
	case OrderSplit:
		return "split"
	case OrderAscending:
		return "ascending"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

// ParseOrdering maps "split" or "ascending" (any case) to an Ordering.
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "split":
		return OrderSplit, nil
	case "ascending":
		return OrderAscending, nil
	}
	return 0, fmt.Errorf("connectivity: unknown ordering %q", s)
}

// DefaultAreaTolerance is the default relative overlap threshold.
const DefaultAreaTolerance = 1e-6

// Option customizes Build.
type Option func(*buildConfig)

type buildConfig struct {
	ordering Ordering
	areaTol  float64
	workers  int
	logger   *zap.Logger
}

func newBuildConfig(opts []Option) buildConfig {
	cfg := buildConfig{
		ordering: OrderSplit,
		areaTol:  DefaultAreaTolerance,
		workers:  1,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithOrdering selects the JA segment ordering.
func WithOrdering(o Ordering) Option {
	if o != OrderSplit && o != OrderAscending {
		panic("connectivity: WithOrdering(unknown)")
	}
	return func(c *buildConfig) { c.ordering = o }
}

// WithAreaTolerance sets the overlap fraction (of the smaller footprint)
// above which two cells in consecutive non-aligned layers are connected.
func WithAreaTolerance(tol float64) Option {
	if tol < 0 || tol >= 1 {
		panic("connectivity: WithAreaTolerance outside [0,1)")
	}
	return func(c *buildConfig) { c.areaTol = tol }
}

// WithParallel runs the per-layer horizontal pass on up to n goroutines.
// n <= 1 means serial. The result does not depend on n.
func WithParallel(n int) Option {
	return func(c *buildConfig) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// WithLogger routes build warnings (isolated cells, disconnected domains)
// to l. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("connectivity: WithLogger(nil)")
	}
	return func(c *buildConfig) { c.logger = l }
}
