package metrics

import (
	"context"
	"net/http"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/bessim/core/metrics"
	"github.com/kilianp07/bessim/core/sim"
	"github.com/kilianp07/bessim/infra/logger"
)

// InfluxConfig holds the InfluxDB connection settings.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes run summaries and the hourly result table to InfluxDB
// using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing database never blocks a
// simulation run.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun implements coremetrics.Sink.
func (s *InfluxSink) RecordRun(res coremetrics.RunResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sum := res.Summary
	p := write.NewPointWithMeasurement("simulation_run").
		AddTag("run_id", res.RunID).
		AddTag("strategy", res.Strategy).
		AddField("hours", sum.Hours).
		AddField("total_pv_kwh", sum.TotalPVKWh).
		AddField("total_demand_kwh", sum.TotalDemandKWh).
		AddField("grid_import_kwh", sum.GridImportKWh).
		AddField("grid_export_kwh", sum.GridExportKWh).
		AddField("charged_kwh", sum.ChargedKWh).
		AddField("discharged_kwh", sum.DischargedKWh).
		AddField("losses_kwh", sum.LossesKWh).
		AddField("net_cost", sum.NetCost).
		AddField("final_soc", sum.FinalSoC).
		AddField("equivalent_cycles", sum.EquivalentCycles).
		SetTime(res.Finished)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordHours implements coremetrics.HourRecorder, one point per hour.
func (s *InfluxSink) RecordHours(runID string, records []sim.HourRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(records))
	for _, r := range records {
		points = append(points, write.NewPointWithMeasurement("simulation_hour").
			AddTag("run_id", runID).
			AddField("pv_kw", r.PVKW).
			AddField("demand_kw", r.DemandKW).
			AddField("price", r.Price).
			AddField("movement_kwh", r.MovementKWh).
			AddField("stored_kwh", r.StoredKWh).
			AddField("soc", r.SoC).
			AddField("grid_kwh", r.GridKWh).
			AddField("cost", r.Cost).
			AddField("curtailed_kwh", r.CurtailedKWh).
			SetTime(r.Timestamp))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
