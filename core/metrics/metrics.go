// Package metrics defines the recording interfaces for finished simulation
// runs. Concrete sinks (Prometheus, InfluxDB, MQTT) live under infra/metrics
// and are instantiated through the factory registry.
package metrics

import (
	"time"

	"github.com/kilianp07/bessim/core/sim"
)

// RunResult is the record handed to sinks when a run completes.
type RunResult struct {
	// RunID uniquely identifies the run across sinks.
	RunID    string
	Strategy string
	Summary  sim.Summary
	Finished time.Time
}

// Sink records run summaries for observability purposes.
type Sink interface {
	RecordRun(res RunResult) error
}

// HourRecorder is implemented by sinks that also store the per-hour table.
type HourRecorder interface {
	RecordHours(runID string, records []sim.HourRecord) error
}

// NopSink discards every record.
type NopSink struct{}

// RecordRun implements Sink.
func (NopSink) RecordRun(RunResult) error { return nil }

// RecordHours implements HourRecorder.
func (NopSink) RecordHours(string, []sim.HourRecord) error { return nil }

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the record to all sinks, returning the first error.
func (m *MultiSink) RecordRun(res RunResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordHours forwards the hourly table to sinks that accept it.
func (m *MultiSink) RecordHours(runID string, records []sim.HourRecord) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(HourRecorder); ok {
			if err := rec.RecordHours(runID, records); err != nil {
				return err
			}
		}
	}
	return nil
}
