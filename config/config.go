// SPDX-License-Identifier: MIT

// Package config loads the usgflow YAML configuration and turns it into
// options for the library packages.
//
//	binary:
//	  byte_order: native   # native | little | big
//	  precision: auto      # auto | single | double
//	grid:
//	  vertex_tolerance: 1e-6
//	  area_tolerance: 1e-6
//	  ordering: split      # split | ascending
//	  parallel: 1
//	logging:
//	  level: info          # debug | info | warn | error
//
// A missing file yields Default. USGFLOW_LOG_LEVEL overrides logging.level.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/usgflow/binaryfile"
	"github.com/katalvlaran/usgflow/connectivity"
	"github.com/katalvlaran/usgflow/datafile"
	"github.com/katalvlaran/usgflow/grid"
)

// ErrInvalid reports a value that does not parse or is out of range.
var ErrInvalid = errors.New("config: invalid value")

// EnvLogLevel overrides Logging.Level when set.
const EnvLogLevel = "USGFLOW_LOG_LEVEL"

// Config is the on-disk configuration.
type Config struct {
	Binary  BinaryConfig  `yaml:"binary"`
	Grid    GridConfig    `yaml:"grid"`
	Logging LoggingConfig `yaml:"logging"`
}

// BinaryConfig controls binary output decoding and encoding.
type BinaryConfig struct {
	ByteOrder string `yaml:"byte_order"`
	Precision string `yaml:"precision"`
}

// GridConfig controls grid reading and connectivity builds.
type GridConfig struct {
	VertexTolerance float64 `yaml:"vertex_tolerance"`
	AreaTolerance   float64 `yaml:"area_tolerance"`
	Ordering        string  `yaml:"ordering"`
	Parallel        int     `yaml:"parallel"`
}

// LoggingConfig sets the CLI log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Binary: BinaryConfig{ByteOrder: "native", Precision: "auto"},
		Grid: GridConfig{
			VertexTolerance: grid.DefaultVertexTolerance,
			AreaTolerance:   connectivity.DefaultAreaTolerance,
			Ordering:        connectivity.OrderSplit.String(),
			Parallel:        1,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over Default. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes c to path as YAML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks every field parses and lies in range.
func (c *Config) Validate() error {
	if _, err := datafile.ParseByteOrder(c.Binary.ByteOrder); err != nil {
		return fmt.Errorf("%w: binary.byte_order: %v", ErrInvalid, err)
	}
	if _, err := datafile.ParsePrecision(c.Binary.Precision); err != nil {
		return fmt.Errorf("%w: binary.precision: %v", ErrInvalid, err)
	}
	if _, err := connectivity.ParseOrdering(c.Grid.Ordering); err != nil {
		return fmt.Errorf("%w: grid.ordering: %v", ErrInvalid, err)
	}
	if c.Grid.VertexTolerance <= 0 {
		return fmt.Errorf("%w: grid.vertex_tolerance must be positive", ErrInvalid)
	}
	if c.Grid.AreaTolerance < 0 || c.Grid.AreaTolerance >= 1 {
		return fmt.Errorf("%w: grid.area_tolerance must lie in [0,1)", ErrInvalid)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalid, err)
	}
	return nil
}

// BinaryOptions returns the byte order and precision as binaryfile options.
// Call Validate first.
func (c *Config) BinaryOptions() []binaryfile.Option {
	order, _ := datafile.ParseByteOrder(c.Binary.ByteOrder)
	prec, _ := datafile.ParsePrecision(c.Binary.Precision)
	return []binaryfile.Option{binaryfile.WithByteOrder(order), binaryfile.WithPrecision(prec)}
}

// GridOptions returns the grid reader options.
func (c *Config) GridOptions() []grid.Option {
	return []grid.Option{grid.WithTolerance(c.Grid.VertexTolerance)}
}

// BuildOptions returns the connectivity build options.
func (c *Config) BuildOptions() []connectivity.Option {
	ord, _ := connectivity.ParseOrdering(c.Grid.Ordering)
	return []connectivity.Option{
		connectivity.WithOrdering(ord),
		connectivity.WithAreaTolerance(c.Grid.AreaTolerance),
		connectivity.WithParallel(c.Grid.Parallel),
	}
}

// Level returns the configured log level.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zap.InfoLevel
	}
	return lvl
}
