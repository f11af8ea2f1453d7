// Package app wires configuration, input loading, the simulation core and
// the result sinks into a runnable service.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/bessim/config"
	"github.com/kilianp07/bessim/core/bess"
	coremetrics "github.com/kilianp07/bessim/core/metrics"
	"github.com/kilianp07/bessim/core/sim"
	"github.com/kilianp07/bessim/core/strategy"
	"github.com/kilianp07/bessim/infra/logger"
	inframetrics "github.com/kilianp07/bessim/infra/metrics"
	"github.com/kilianp07/bessim/infra/seriesio"
	"github.com/kilianp07/bessim/pkg/export"
)

var registerOnce sync.Once

func registerSinks() (err error) {
	registerOnce.Do(func() { err = inframetrics.Register() })
	return err
}

// Service runs one configured simulation.
type Service struct {
	cfg  *config.Config
	log  logger.Logger
	sink coremetrics.Sink
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := registerSinks(); err != nil {
		return nil, fmt.Errorf("register sinks: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	return &Service{cfg: cfg, log: logger.New("service"), sink: sink}, nil
}

// Run executes the simulation, writes the result table and records the run
// on the configured sinks. When a prometheus sink is configured the
// exposition server keeps serving until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	in, err := seriesio.Load(s.cfg.Input)
	if err != nil {
		return fmt.Errorf("load input series: %w", err)
	}
	if err := in.Validate(); err != nil {
		return err
	}

	b, err := bess.New(s.cfg.Battery)
	if err != nil {
		return err
	}
	strat, err := strategy.New(s.cfg.Strategy, in.Price)
	if err != nil {
		return err
	}

	res, err := sim.Run(b, in, strat, sim.Options{
		StepHours:   s.cfg.Simulation.StepHours,
		GridLimitKW: s.cfg.Simulation.GridLimitKW,
		Log:         logger.New("sim"),
	})
	if err != nil {
		return err
	}

	if err := s.writeOutput(res); err != nil {
		return err
	}

	runID := uuid.NewString()
	record := coremetrics.RunResult{
		RunID:    runID,
		Strategy: res.Strategy,
		Summary:  sim.Summarize(res),
		Finished: time.Now(),
	}
	if err := s.sink.RecordRun(record); err != nil {
		s.log.Errorf("record run: %v", err)
	}
	if rec, ok := s.sink.(coremetrics.HourRecorder); ok {
		if err := rec.RecordHours(runID, res.Records); err != nil {
			s.log.Errorf("record hours: %v", err)
		}
	}

	if s.promConfigured() {
		s.log.Infof("serving prometheus metrics on :%d until interrupted", s.cfg.Metrics.PrometheusPort)
		return inframetrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort)
	}
	return nil
}

func (s *Service) promConfigured() bool {
	for _, c := range s.cfg.Metrics.Sinks {
		if c.Type == "prometheus" {
			return true
		}
	}
	return false
}

func (s *Service) writeOutput(res *sim.Result) error {
	var w io.Writer = os.Stdout
	if s.cfg.Output.Path != "" {
		f, err := os.Create(s.cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	switch s.cfg.Output.Format {
	case "json":
		return export.WriteJSON(w, res)
	default:
		return export.WriteCSV(w, res)
	}
}

// Close releases sink resources.
func (s *Service) Close() error {
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
