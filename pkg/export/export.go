// Package export serializes finished simulation results for the reporting
// layer. No format is prescribed by the core; CSV and JSON cover the usual
// downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/bessim/core/sim"
)

// WriteJSON writes the result table and summary to w in JSON format.
func WriteJSON(w io.Writer, res *sim.Result) error {
	enc := json.NewEncoder(w)
	return enc.Encode(struct {
		Strategy string           `json:"strategy"`
		Summary  sim.Summary      `json:"summary"`
		Records  []sim.HourRecord `json:"records"`
	}{res.Strategy, sim.Summarize(res), res.Records})
}

// WriteCSV writes the per-hour result table to w.
func WriteCSV(w io.Writer, res *sim.Result) error {
	cw := csv.NewWriter(w)
	header := []string{
		"timestamp", "pv_kw", "demand_kw", "price",
		"movement_kwh", "stored_kwh", "soc", "grid_kwh", "cost", "curtailed_kwh",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range res.Records {
		rec := []string{
			r.Timestamp.Format(time.RFC3339),
			formatFloat(r.PVKW),
			formatFloat(r.DemandKW),
			formatFloat(r.Price),
			formatFloat(r.MovementKWh),
			formatFloat(r.StoredKWh),
			formatFloat(r.SoC),
			formatFloat(r.GridKWh),
			formatFloat(r.Cost),
			formatFloat(r.CurtailedKWh),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
