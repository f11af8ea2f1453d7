package strategy

import "github.com/kilianp07/bessim/core/bess"

// Baseline charges the battery from PV surplus and discharges it to cover
// the demand deficit, ignoring prices entirely.
type Baseline struct{}

// Name implements Strategy.
func (Baseline) Name() string { return "baseline" }

// Decide implements Strategy.
func (Baseline) Decide(_ bess.Snapshot, in HourInput) Command {
	net := in.NetLoadKW()
	if net > 0 {
		return Command{Action: ActionCharge, PowerKW: net}
	}
	return Command{Action: ActionDischarge, PowerKW: -net}
}
