// Package infra contains technical adapters such as the CSV input loader,
// the MQTT client and the metrics sinks. These packages depend only on the
// interfaces and data types defined under core.
package infra
