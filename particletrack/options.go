// SPDX-License-Identifier: MIT

package particletrack

import "go.uber.org/zap"

// Option customizes readers.
type Option func(*config)

type config struct {
	logger *zap.Logger
}

func newConfig(opts []Option) config {
	cfg := config{logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithLogger routes reader diagnostics to l. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("particletrack: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}
