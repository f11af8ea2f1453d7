// Package metrics provides the concrete sinks for run results: Prometheus,
// InfluxDB and MQTT.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/kilianp07/bessim/core/metrics"
)

// PromSink exposes run summaries as Prometheus metrics, labeled by strategy.
type PromSink struct {
	runs    *prometheus.CounterVec
	netCost *prometheus.GaugeVec
	soc     *prometheus.GaugeVec
	cycles  *prometheus.GaugeVec
	grid    *prometheus.GaugeVec
}

// NewPromSink registers the run metrics on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bessim_runs_total",
			Help: "Total number of completed simulation runs",
		}, []string{"strategy"}),
		netCost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bessim_run_net_cost",
			Help: "Net electricity cost of the last run",
		}, []string{"strategy"}),
		soc: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bessim_run_final_soc",
			Help: "Battery state of charge at the end of the last run",
		}, []string{"strategy"}),
		cycles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bessim_run_equivalent_cycles",
			Help: "Full equivalent battery cycles of the last run",
		}, []string{"strategy"}),
		grid: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bessim_run_grid_import_kwh",
			Help: "Total grid import of the last run in kWh",
		}, []string{"strategy"}),
	}

	if err := registerCounterVec(reg, &s.runs); err != nil {
		return nil, err
	}
	for _, g := range []**prometheus.GaugeVec{&s.netCost, &s.soc, &s.cycles, &s.grid} {
		if err := registerGaugeVec(reg, g); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Duplicate registration reuses the existing collector so several sinks can
// share one registry.
func registerCounterVec(reg prometheus.Registerer, c **prometheus.CounterVec) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return err
		}
		*c = are.ExistingCollector.(*prometheus.CounterVec)
	}
	return nil
}

func registerGaugeVec(reg prometheus.Registerer, g **prometheus.GaugeVec) error {
	if err := reg.Register(*g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return err
		}
		*g = are.ExistingCollector.(*prometheus.GaugeVec)
	}
	return nil
}

// RecordRun implements coremetrics.Sink.
func (s *PromSink) RecordRun(res coremetrics.RunResult) error {
	sum := res.Summary
	s.runs.WithLabelValues(res.Strategy).Inc()
	s.netCost.WithLabelValues(res.Strategy).Set(sum.NetCost)
	s.soc.WithLabelValues(res.Strategy).Set(sum.FinalSoC)
	s.cycles.WithLabelValues(res.Strategy).Set(sum.EquivalentCycles)
	s.grid.WithLabelValues(res.Strategy).Set(sum.GridImportKWh)
	return nil
}

// StartPromServer serves the exposition endpoint until the context ends.
func StartPromServer(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
