package metrics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/bessim/core/metrics"
	"github.com/kilianp07/bessim/core/sim"
)

type fakePublisher struct {
	topics   []string
	payloads [][]byte
	closed   bool
}

func (p *fakePublisher) Publish(topic string, payload []byte) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) Close() { p.closed = true }

func TestMQTTSinkPublishesRun(t *testing.T) {
	pub := &fakePublisher{}
	s := NewMQTTSinkWithPublisher(pub, "")

	res := coremetrics.RunResult{
		RunID:    "run-1",
		Strategy: "price_arbitrage",
		Summary:  sim.Summary{NetCost: 5},
		Finished: time.Now(),
	}
	require.NoError(t, s.RecordRun(res))
	require.Len(t, pub.topics, 1)
	assert.Equal(t, "bessim/runs/run-1", pub.topics[0])

	var decoded struct {
		Strategy string      `json:"strategy"`
		Summary  sim.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(pub.payloads[0], &decoded))
	assert.Equal(t, "price_arbitrage", decoded.Strategy)
	assert.InDelta(t, 5, decoded.Summary.NetCost, 1e-9)
}

func TestMQTTSinkPublishesHours(t *testing.T) {
	pub := &fakePublisher{}
	s := NewMQTTSinkWithPublisher(pub, "sims")

	recs := []sim.HourRecord{{SoC: 0.5}, {SoC: 0.6}}
	require.NoError(t, s.RecordHours("run-2", recs))
	require.Len(t, pub.topics, 1)
	assert.Equal(t, "sims/hours/run-2", pub.topics[0])

	var decoded []sim.HourRecord
	require.NoError(t, json.Unmarshal(pub.payloads[0], &decoded))
	assert.Len(t, decoded, 2)

	s.Close()
	assert.True(t, pub.closed)
}
