package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/bessim/core/bess"
	"github.com/kilianp07/bessim/core/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Strategy:  "baseline",
		StepHours: 1,
		Records: []sim.HourRecord{
			{
				Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				PVKW:      10, DemandKW: 4, Price: 0.2,
				MovementKWh: 6, StoredKWh: 16, SoC: 0.8, GridKWh: 0, Cost: 0,
			},
			{
				Timestamp: time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC),
				PVKW:      0, DemandKW: 5, Price: 0.3,
				MovementKWh: -5, StoredKWh: 11, SoC: 0.55, GridKWh: 0, Cost: 0,
			},
		},
		Final: bess.Snapshot{
			Config: bess.Config{CapacityKWh: 20, MinSoC: 0.1, MaxSoC: 1,
				ChargingEfficiency: 1, DischargingEfficiency: 1},
			SoC: 0.55, DischargedKWh: 5, ChargedKWh: 6,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "timestamp", rows[0][0])
	assert.Equal(t, "2025-01-01T00:00:00Z", rows[1][0])
	assert.Equal(t, "6", rows[1][4])
	assert.Equal(t, "-5", rows[2][4])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var decoded struct {
		Strategy string           `json:"strategy"`
		Summary  sim.Summary      `json:"summary"`
		Records  []sim.HourRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "baseline", decoded.Strategy)
	assert.Len(t, decoded.Records, 2)
	assert.InDelta(t, 0.55, decoded.Summary.FinalSoC, 1e-9)
}
