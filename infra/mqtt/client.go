// Package mqtt wraps the Eclipse Paho client behind a small publisher
// interface so result sinks stay testable without a broker.
package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/bessim/infra/logger"
)

// Config holds the broker connection settings.
type Config struct {
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	QoS      byte   `json:"qos"`
	Retain   bool   `json:"retain"`
	// TimeoutMS bounds connect and publish waits. Defaults to 5000.
	TimeoutMS int `json:"timeout_ms"`
}

// Publisher sends payloads to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
	Close()
}

// PahoClient implements Publisher using Eclipse Paho.
type PahoClient struct {
	cli     paho.Client
	qos     byte
	retain  bool
	timeout time.Duration
	log     logger.Logger
}

var newMQTTClient = func(opts *paho.ClientOptions) paho.Client {
	return paho.NewClient(opts)
}

// NewPahoClient connects to the MQTT broker.
func NewPahoClient(cfg Config) (*PahoClient, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt broker address required")
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	log := logger.New("mqtt_client")
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(timeout)
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); !token.WaitTimeout(timeout) || token.Error() != nil {
		if token.Error() != nil {
			return nil, fmt.Errorf("mqtt connect: %w", token.Error())
		}
		return nil, fmt.Errorf("mqtt connect: timeout after %s", timeout)
	}
	return &PahoClient{cli: c, qos: cfg.QoS, retain: cfg.Retain, timeout: timeout, log: log}, nil
}

// Publish implements Publisher.
func (c *PahoClient) Publish(topic string, payload []byte) error {
	token := c.cli.Publish(topic, c.qos, c.retain, payload)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("publish to %s: timeout after %s", topic, c.timeout)
	}
	return token.Error()
}

// Close disconnects from the broker.
func (c *PahoClient) Close() {
	c.cli.Disconnect(uint(c.timeout.Milliseconds()))
}
