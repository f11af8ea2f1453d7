package sim

import (
	"fmt"
	"time"

	"github.com/kilianp07/bessim/core/bess"
	"github.com/kilianp07/bessim/core/logger"
	"github.com/kilianp07/bessim/core/strategy"
)

// Options tunes a single run.
type Options struct {
	// StepHours is the duration of one input step. Defaults to 1.
	StepHours float64
	// GridLimitKW caps grid import and export when > 0. The clipped
	// remainder is recorded as curtailment on the hour.
	GridLimitKW float64
	// Log receives run-level log events. Defaults to the no-op logger.
	Log logger.Logger
}

// HourRecord is one row of the result table. Signs: MovementKWh positive is
// charging, GridKWh positive is import, Cost positive is money spent.
type HourRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	PVKW         float64   `json:"pv_kw"`
	DemandKW     float64   `json:"demand_kw"`
	Price        float64   `json:"price"`
	MovementKWh  float64   `json:"movement_kwh"`
	StoredKWh    float64   `json:"stored_kwh"`
	SoC          float64   `json:"soc"`
	GridKWh      float64   `json:"grid_kwh"`
	Cost         float64   `json:"cost"`
	CurtailedKWh float64   `json:"curtailed_kwh"`
}

// Result is the ordered per-hour outcome of one run, read-only once the loop
// completes. Final holds the battery snapshot after the last hour.
type Result struct {
	Strategy  string
	StepHours float64
	Records   []HourRecord
	Final     bess.Snapshot
}

// Run simulates the battery over the input series with the given strategy.
// On a mid-run failure the records accumulated so far are returned alongside
// the error for diagnostics.
func Run(b *bess.Battery, in Inputs, strat strategy.Strategy, opts Options) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	step := opts.StepHours
	if step <= 0 {
		step = 1
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop{}
	}

	res := &Result{
		Strategy:  strat.Name(),
		StepHours: step,
		Records:   make([]HourRecord, 0, in.Len()),
	}
	log.Infof("starting run: strategy=%s hours=%d", strat.Name(), in.Len())

	for i := 0; i < in.Len(); i++ {
		hour := in.Hour(i)
		cmd := strat.Decide(b.Snapshot(), hour)

		// At most one battery mutation per hour.
		var movement float64
		switch cmd.Action {
		case strategy.ActionCharge:
			tr, err := b.Charge(cmd.PowerKW, step)
			if err != nil {
				res.Final = b.Snapshot()
				return res, fmt.Errorf("hour %d (%s): charge: %w", i, hour.Timestamp.Format(time.RFC3339), err)
			}
			movement = tr.AppliedEnergyKWh
		case strategy.ActionDischarge:
			tr, err := b.Discharge(cmd.PowerKW, step)
			if err != nil {
				res.Final = b.Snapshot()
				return res, fmt.Errorf("hour %d (%s): discharge: %w", i, hour.Timestamp.Format(time.RFC3339), err)
			}
			movement = -tr.AppliedEnergyKWh
		}

		snap := b.Snapshot()

		// Grid settles whatever the battery did not absorb or cover.
		// Import positive, export negative.
		grid := movement - hour.NetLoadKW()*step
		var curtailed float64
		if opts.GridLimitKW > 0 {
			limit := opts.GridLimitKW * step
			switch {
			case grid > limit:
				curtailed = grid - limit
				grid = limit
			case grid < -limit:
				curtailed = -limit - grid
				grid = -limit
			}
		}

		res.Records = append(res.Records, HourRecord{
			Timestamp:    hour.Timestamp,
			PVKW:         hour.PVKW,
			DemandKW:     hour.DemandKW,
			Price:        hour.Price,
			MovementKWh:  movement,
			StoredKWh:    snap.StoredKWh,
			SoC:          snap.SoC,
			GridKWh:      grid,
			Cost:         grid * hour.Price,
			CurtailedKWh: curtailed,
		})
	}

	res.Final = b.Snapshot()
	log.Infof("run finished: strategy=%s hours=%d final_soc=%.3f", strat.Name(), in.Len(), res.Final.SoC)
	return res, nil
}
