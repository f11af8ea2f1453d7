// Package strategy contains the hourly dispatch decision logic. A strategy is
// a pure function from the battery snapshot and the hour's inputs to a single
// charge or discharge command; it never touches the battery itself.
package strategy

import (
	"fmt"
	"time"

	"github.com/kilianp07/bessim/core/bess"
)

// Action identifies the battery operation a strategy requests for one hour.
type Action int

const (
	ActionIdle Action = iota
	ActionCharge
	ActionDischarge
)

// String returns the lowercase action name.
func (a Action) String() string {
	switch a {
	case ActionCharge:
		return "charge"
	case ActionDischarge:
		return "discharge"
	default:
		return "idle"
	}
}

// Command is the single battery request for one hour. PowerKW is always
// non-negative; the action carries the direction.
type Command struct {
	Action  Action
	PowerKW float64
}

// HourInput bundles the input series values for one timestamp.
type HourInput struct {
	Timestamp time.Time
	PVKW      float64
	DemandKW  float64
	Price     float64
}

// NetLoadKW is PV generation minus building demand. Positive means surplus.
func (h HourInput) NetLoadKW() float64 { return h.PVKW - h.DemandKW }

// Strategy decides the battery command for each hour.
type Strategy interface {
	Name() string
	Decide(snap bess.Snapshot, in HourInput) Command
}

// Config holds strategy tuning parameters loaded from configuration.
type Config struct {
	// Name selects the strategy: "baseline" or "price_arbitrage".
	Name string `json:"name"`
	// LowPercentile and HighPercentile bound the price bands of the
	// arbitrage strategy, as percentages of the price distribution.
	LowPercentile  float64 `json:"low_percentile"`
	HighPercentile float64 `json:"high_percentile"`
}

// SetDefaults applies the default strategy and price bands.
func (c *Config) SetDefaults() {
	if c.Name == "" {
		c.Name = "baseline"
	}
	if c.LowPercentile == 0 {
		c.LowPercentile = 25
	}
	if c.HighPercentile == 0 {
		c.HighPercentile = 75
	}
}

// Validate checks the percentile bounds.
func (c Config) Validate() error {
	if c.LowPercentile < 0 || c.HighPercentile > 100 || c.LowPercentile >= c.HighPercentile {
		return fmt.Errorf("percentiles must satisfy 0 <= low < high <= 100, got [%v,%v]", c.LowPercentile, c.HighPercentile)
	}
	return nil
}

// New builds the strategy selected by cfg.Name. The price series is required
// by the arbitrage strategy to derive its thresholds.
func New(cfg Config, prices []float64) (Strategy, error) {
	switch cfg.Name {
	case "baseline":
		return Baseline{}, nil
	case "price_arbitrage":
		return NewPriceArbitrage(cfg, prices)
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Name)
	}
}
