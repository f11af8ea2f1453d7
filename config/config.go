// Package config loads and validates the simulator configuration from YAML
// or JSON files, with environment overrides under the BESS_ prefix.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/bessim/core/bess"
	"github.com/kilianp07/bessim/core/metrics"
	"github.com/kilianp07/bessim/core/strategy"
	"github.com/kilianp07/bessim/infra/seriesio"
)

// Config is the root configuration of a simulation run.
type Config struct {
	Battery    bess.Config      `json:"battery"`
	Input      seriesio.Config  `json:"input"`
	Strategy   strategy.Config  `json:"strategy"`
	Simulation SimulationConfig `json:"simulation"`
	Metrics    metrics.Config   `json:"metrics"`
	Output     OutputConfig     `json:"output"`
}

// SimulationConfig tunes the dispatch loop.
type SimulationConfig struct {
	// StepHours is the duration of one input step. Defaults to 1.
	StepHours float64 `json:"step_hours"`
	// GridLimitKW caps grid import/export when > 0; 0 disables the limit.
	GridLimitKW float64 `json:"grid_limit_kw"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.StepHours == 0 {
		c.StepHours = 1
	}
}

// Validate checks the loop parameters.
func (c SimulationConfig) Validate() error {
	if c.StepHours <= 0 {
		return fmt.Errorf("step_hours must be > 0, got %v", c.StepHours)
	}
	if c.GridLimitKW < 0 {
		return fmt.Errorf("grid_limit_kw must be >= 0, got %v", c.GridLimitKW)
	}
	return nil
}

// OutputConfig selects where and how the result table is written.
type OutputConfig struct {
	// Format is "csv" or "json".
	Format string `json:"format"`
	// Path is the output file; empty writes to stdout.
	Path string `json:"path"`
}

// SetDefaults applies the CSV default.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "csv"
	}
}

// Validate checks the output format.
func (c OutputConfig) Validate() error {
	if c.Format != "csv" && c.Format != "json" {
		return fmt.Errorf("unknown output format %q", c.Format)
	}
	return nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. BESS_BATTERY__CAPACITY_KWH.
	if err := k.Load(env.Provider("BESS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "bess_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Strategy.SetDefaults()
	cfg.Simulation.SetDefaults()
	cfg.Output.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Input.SetDefaults()

	if err := cfg.Battery.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Strategy.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Output.Validate(); err != nil {
		return nil, err
	}
	if cfg.Input.Path == "" {
		return nil, fmt.Errorf("input.path is required")
	}
	return &cfg, nil
}
