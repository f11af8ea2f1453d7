package metrics

import (
	"github.com/kilianp07/bessim/core/factory"
	coremetrics "github.com/kilianp07/bessim/core/metrics"
)

// Register wires the built-in sinks into the core registry. Call once at
// startup before loading configuration.
func Register() error {
	if err := coremetrics.RegisterSink("prometheus", func(_ map[string]any) (coremetrics.Sink, error) {
		return NewPromSink()
	}); err != nil {
		return err
	}
	if err := coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.Sink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	}); err != nil {
		return err
	}
	if err := coremetrics.RegisterSink("mqtt", func(conf map[string]any) (coremetrics.Sink, error) {
		var c MQTTSinkConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewMQTTSink(c)
	}); err != nil {
		return err
	}
	return coremetrics.RegisterSink("nop", func(_ map[string]any) (coremetrics.Sink, error) {
		return coremetrics.NopSink{}, nil
	})
}
