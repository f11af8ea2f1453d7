// Package seriesio loads the hourly input series from CSV files. It is the
// data-ingestion collaborator of the simulation core: everything it returns
// is plain aligned slices, no parsing concerns leak into the loop.
package seriesio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/kilianp07/bessim/core/sim"
)

// Config names the file and its columns.
type Config struct {
	Path            string `json:"path"`
	TimestampColumn string `json:"timestamp_column"`
	PVColumn        string `json:"pv_column"`
	DemandColumn    string `json:"demand_column"`
	PriceColumn     string `json:"price_column"`
}

// SetDefaults applies the conventional column names.
func (c *Config) SetDefaults() {
	if c.TimestampColumn == "" {
		c.TimestampColumn = "timestamp"
	}
	if c.PVColumn == "" {
		c.PVColumn = "pv_generation"
	}
	if c.DemandColumn == "" {
		c.DemandColumn = "building_demand"
	}
	if c.PriceColumn == "" {
		c.PriceColumn = "electricity_price"
	}
}

// Load reads the input series from the configured CSV file.
func Load(cfg Config) (sim.Inputs, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return sim.Inputs{}, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()
	in, err := Read(f, cfg)
	if err != nil {
		return sim.Inputs{}, fmt.Errorf("%s: %w", cfg.Path, err)
	}
	return in, nil
}

// Read parses CSV data with a header row into the input series.
func Read(r io.Reader, cfg Config) (sim.Inputs, error) {
	cfg.SetDefaults()
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return sim.Inputs{}, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	idx := make([]int, 4)
	for i, name := range []string{cfg.TimestampColumn, cfg.PVColumn, cfg.DemandColumn, cfg.PriceColumn} {
		pos, ok := cols[name]
		if !ok {
			return sim.Inputs{}, fmt.Errorf("missing column %q", name)
		}
		idx[i] = pos
	}

	var in sim.Inputs
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sim.Inputs{}, fmt.Errorf("line %d: %w", line, err)
		}

		ts, err := parseTimestamp(rec[idx[0]])
		if err != nil {
			return sim.Inputs{}, fmt.Errorf("line %d: %w", line, err)
		}
		vals := make([]float64, 3)
		for i := 1; i < 4; i++ {
			v, err := strconv.ParseFloat(rec[idx[i]], 64)
			if err != nil {
				return sim.Inputs{}, fmt.Errorf("line %d: parse %q: %w", line, rec[idx[i]], err)
			}
			vals[i-1] = v
		}
		in.Timestamps = append(in.Timestamps, ts)
		in.PVKW = append(in.PVKW, vals[0])
		in.DemandKW = append(in.DemandKW, vals[1])
		in.Price = append(in.Price, vals[2])
	}
	return in, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	// Epoch seconds as a last resort.
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", s)
}
