package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/bessim/core/bess"
	"github.com/kilianp07/bessim/core/strategy"
)

func TestSweepRunsScenariosIndependently(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	in := hourlyInputs(start,
		[]float64{20, 0, 0, 10},
		[]float64{5, 10, 10, 5},
		[]float64{1, 4, 4, 8},
	)
	battery := bess.Config{
		CapacityKWh: 50, PowerLimitKW: 25, InitialSoC: 0.5,
		ChargingEfficiency: 0.95, DischargingEfficiency: 0.95,
		MinSoC: 0.1, MaxSoC: 0.95,
	}

	scenarios := []Scenario{
		{Name: "baseline", Battery: battery, Strategy: strategy.Config{Name: "baseline"}},
		{Name: "arbitrage", Battery: battery, Strategy: strategy.Config{Name: "price_arbitrage"}},
		{Name: "broken", Battery: bess.Config{}, Strategy: strategy.Config{Name: "baseline"}},
	}

	results := Sweep(scenarios, in, Options{})
	require.Len(t, results, 3)

	// Order follows the scenario list regardless of goroutine scheduling.
	assert.Equal(t, "baseline", results[0].Scenario.Name)
	assert.Equal(t, "arbitrage", results[1].Scenario.Name)

	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	assert.Len(t, results[0].Result.Records, in.Len())
	assert.Len(t, results[1].Result.Records, in.Len())

	// A broken scenario fails alone without affecting its neighbors.
	require.Error(t, results[2].Err)
	assert.ErrorIs(t, results[2].Err, bess.ErrInvalidConfig)

	// Each scenario mutated its own battery.
	assert.NotEqual(t, results[0].Result.Final, results[1].Result.Final)
}

func TestSweepMatchesSequentialRun(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	in := hourlyInputs(start,
		[]float64{8, 0, 3},
		[]float64{2, 6, 3},
		[]float64{1, 2, 3},
	)
	battery := bess.Config{
		CapacityKWh: 20, PowerLimitKW: 10, InitialSoC: 0.5,
		ChargingEfficiency: 1, DischargingEfficiency: 1,
		MinSoC: 0.1, MaxSoC: 1,
	}

	b, err := bess.New(battery)
	require.NoError(t, err)
	want, err := Run(b, in, strategy.Baseline{}, Options{})
	require.NoError(t, err)

	got := Sweep([]Scenario{{Name: "s", Battery: battery, Strategy: strategy.Config{Name: "baseline"}}}, in, Options{})
	require.Len(t, got, 1)
	require.NoError(t, got[0].Err)
	assert.Equal(t, want.Records, got[0].Result.Records)
}
