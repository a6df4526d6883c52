// SPDX-License-Identifier: MIT

package grid

import "go.uber.org/zap"

// Option customizes grid file readers.
type Option func(*readConfig)

type readConfig struct {
	tol    float64
	logger *zap.Logger
}

func newReadConfig(opts []Option) readConfig {
	cfg := readConfig{tol: DefaultVertexTolerance, logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithTolerance sets the vertex merge distance. Panics on negative values.
func WithTolerance(tol float64) Option {
	if tol < 0 {
		panic("grid: WithTolerance(negative)")
	}
	return func(c *readConfig) { c.tol = tol }
}

// WithLogger routes reader diagnostics to l. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("grid: WithLogger(nil)")
	}
	return func(c *readConfig) { c.logger = l }
}
