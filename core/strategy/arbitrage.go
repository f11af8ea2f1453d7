package strategy

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/bessim/core/bess"
)

// PriceArbitrage extends the baseline behavior with price-band logic: below
// the low threshold it also charges from the grid, above the high threshold
// it also discharges surplus to the grid. Thresholds are percentiles of the
// whole price series, fixed at construction; the resulting look-ahead is a
// deliberate property of the strategy, not a bug.
type PriceArbitrage struct {
	low  float64
	high float64
}

// NewPriceArbitrage derives the price thresholds from the full series.
func NewPriceArbitrage(cfg Config, prices []float64) (*PriceArbitrage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, errors.New("price series required for arbitrage thresholds")
	}
	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)
	return &PriceArbitrage{
		low:  stat.Quantile(cfg.LowPercentile/100, stat.LinInterp, sorted, nil),
		high: stat.Quantile(cfg.HighPercentile/100, stat.LinInterp, sorted, nil),
	}, nil
}

// Thresholds returns the derived low and high price thresholds.
func (s *PriceArbitrage) Thresholds() (low, high float64) { return s.low, s.high }

// Name implements Strategy.
func (s *PriceArbitrage) Name() string { return "price_arbitrage" }

// Decide implements Strategy. Exactly one command is issued per hour; the
// medium price band falls through to the baseline behavior.
func (s *PriceArbitrage) Decide(snap bess.Snapshot, in HourInput) Command {
	net := in.NetLoadKW()
	switch {
	case in.Price <= s.low:
		// Cheap hour. PV surplus is still free, so it wins; otherwise
		// charge from the grid at full rated power.
		power := net
		if net <= 0 {
			power = snap.Config.PowerLimitKW
		}
		return Command{Action: ActionCharge, PowerKW: power}
	case in.Price > s.high:
		// Expensive hour. Cover the deficit first; with no deficit, sell
		// stored energy while the band above MinSoC lasts.
		if net < 0 {
			return Command{Action: ActionDischarge, PowerKW: -net}
		}
		if snap.SoC > snap.Config.MinSoC {
			return Command{Action: ActionDischarge, PowerKW: snap.Config.PowerLimitKW}
		}
		return Command{Action: ActionDischarge, PowerKW: 0}
	default:
		return Baseline{}.Decide(snap, in)
	}
}
