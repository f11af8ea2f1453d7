package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/bessim/core/bess"
)

const validYAML = `
battery:
  capacity_kwh: 100
  power_limit_kw: 50
  initial_soc: 0.5
  charging_efficiency: 0.95
  discharging_efficiency: 0.95
  min_soc: 0.1
  max_soc: 1.0
input:
  path: input.csv
strategy:
  name: price_arbitrage
simulation:
  grid_limit_kw: 30
`

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)

	assert.InDelta(t, 100, cfg.Battery.CapacityKWh, 1e-9)
	assert.Equal(t, "price_arbitrage", cfg.Strategy.Name)
	assert.InDelta(t, 25, cfg.Strategy.LowPercentile, 1e-9)
	assert.InDelta(t, 75, cfg.Strategy.HighPercentile, 1e-9)
	assert.InDelta(t, 1, cfg.Simulation.StepHours, 1e-9)
	assert.InDelta(t, 30, cfg.Simulation.GridLimitKW, 1e-9)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "timestamp", cfg.Input.TimestampColumn)
	assert.Equal(t, 2112, cfg.Metrics.PrometheusPort)
}

func TestLoadJSON(t *testing.T) {
	data := `{
  "battery": {
    "capacity_kwh": 10, "power_limit_kw": 5, "initial_soc": 0.5,
    "charging_efficiency": 1, "discharging_efficiency": 1,
    "min_soc": 0, "max_soc": 1
  },
  "input": {"path": "data.csv"}
}`
	cfg, err := Load(writeConfig(t, "config.json", data))
	require.NoError(t, err)
	assert.Equal(t, "baseline", cfg.Strategy.Name)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BESS_BATTERY__CAPACITY_KWH", "250")
	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)
	assert.InDelta(t, 250, cfg.Battery.CapacityKWh, 1e-9)
}

func TestLoadRejectsInvalidBattery(t *testing.T) {
	bad := `
battery:
  capacity_kwh: -1
input:
  path: input.csv
`
	_, err := Load(writeConfig(t, "config.yaml", bad))
	require.Error(t, err)
	assert.ErrorIs(t, err, bess.ErrInvalidConfig)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", "x = 1"))
	assert.Error(t, err)
}

func TestLoadRequiresInputPath(t *testing.T) {
	bad := `
battery:
  capacity_kwh: 10
  power_limit_kw: 5
  initial_soc: 0.5
  charging_efficiency: 1
  discharging_efficiency: 1
  min_soc: 0
  max_soc: 1
`
	_, err := Load(writeConfig(t, "config.yaml", bad))
	assert.Error(t, err)
}
