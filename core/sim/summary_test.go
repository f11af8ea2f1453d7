package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/bessim/core/bess"
	"github.com/kilianp07/bessim/core/strategy"
)

func TestSummarize(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	in := hourlyInputs(start,
		[]float64{30, 0, 0},
		[]float64{0, 10, 30},
		[]float64{1, 2, 3},
	)
	cfg := bess.Config{
		CapacityKWh: 20, PowerLimitKW: 10, InitialSoC: 0.1,
		ChargingEfficiency: 1, DischargingEfficiency: 1,
		MinSoC: 0.1, MaxSoC: 0.9,
	}
	b, err := bess.New(cfg)
	require.NoError(t, err)

	res, err := Run(b, in, strategy.Baseline{}, Options{})
	require.NoError(t, err)
	sum := Summarize(res)

	assert.Equal(t, "baseline", sum.Strategy)
	assert.Equal(t, 3, sum.Hours)
	assert.InDelta(t, 30, sum.TotalPVKWh, 1e-9)
	assert.InDelta(t, 40, sum.TotalDemandKWh, 1e-9)

	// Hour 1 charges 10 (power limit), exports 20. Hour 2 drains the full
	// 10kWh above the reserve, hour 3 has nothing left and imports 30.
	assert.InDelta(t, 20, sum.GridExportKWh, 1e-9)
	assert.InDelta(t, 30, sum.GridImportKWh, 1e-9)
	assert.InDelta(t, 10, sum.ChargedKWh, 1e-9)
	assert.InDelta(t, 10, sum.DischargedKWh, 1e-9)

	// Lossless round trip; 10kWh discharged over the 16kWh usable band.
	assert.InDelta(t, 1, sum.RoundTripEfficiency, 1e-9)
	assert.InDelta(t, 0.625, sum.EquivalentCycles, 1e-9)

	// Net cost: -20*1 (export) + 0*2 + 30*3 (import).
	assert.InDelta(t, 70, sum.NetCost, 1e-9)
	assert.InDelta(t, 0.1, sum.FinalSoC, 1e-9)
}
