package metrics

import (
	"encoding/json"
	"fmt"

	coremetrics "github.com/kilianp07/bessim/core/metrics"
	"github.com/kilianp07/bessim/core/sim"
	"github.com/kilianp07/bessim/infra/mqtt"
)

// MQTTSinkConfig selects the broker and topic layout for published results.
type MQTTSinkConfig struct {
	MQTT mqtt.Config `json:"mqtt"`
	// TopicPrefix defaults to "bessim". Runs are published under
	// <prefix>/runs/<run_id>, hours under <prefix>/hours/<run_id>.
	TopicPrefix string `json:"topic_prefix"`
}

// MQTTSink publishes run summaries and hourly records as JSON so external
// dashboards can consume the result table without a shared database.
type MQTTSink struct {
	pub    mqtt.Publisher
	prefix string
}

// NewMQTTSink connects to the broker from the config.
func NewMQTTSink(cfg MQTTSinkConfig) (*MQTTSink, error) {
	client, err := mqtt.NewPahoClient(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("mqtt sink: %w", err)
	}
	return NewMQTTSinkWithPublisher(client, cfg.TopicPrefix), nil
}

// NewMQTTSinkWithPublisher wraps an existing publisher, mainly for tests.
func NewMQTTSinkWithPublisher(pub mqtt.Publisher, prefix string) *MQTTSink {
	if prefix == "" {
		prefix = "bessim"
	}
	return &MQTTSink{pub: pub, prefix: prefix}
}

// RecordRun implements coremetrics.Sink.
func (s *MQTTSink) RecordRun(res coremetrics.RunResult) error {
	payload, err := json.Marshal(struct {
		RunID    string      `json:"run_id"`
		Strategy string      `json:"strategy"`
		Summary  sim.Summary `json:"summary"`
	}{res.RunID, res.Strategy, res.Summary})
	if err != nil {
		return err
	}
	return s.pub.Publish(fmt.Sprintf("%s/runs/%s", s.prefix, res.RunID), payload)
}

// RecordHours implements coremetrics.HourRecorder. The whole table goes out
// as one message; a year of hourly rows stays well under broker limits.
func (s *MQTTSink) RecordHours(runID string, records []sim.HourRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.pub.Publish(fmt.Sprintf("%s/hours/%s", s.prefix, runID), payload)
}

// Close disconnects the publisher.
func (s *MQTTSink) Close() { s.pub.Close() }
