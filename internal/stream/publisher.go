// Package stream publishes generated windows and settings to a message bus.
package stream

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/nats-io/nats.go"

	"github.com/cwbudde/algo-ecg/dsp/ecg"
)

// Bus kinds accepted by Open.
const (
	BusNone = "none"
	BusNATS = "nats"
	BusMQTT = "mqtt"
)

// Publisher sends windows and settings documents to subscribers.
type Publisher interface {
	PublishWindow(subject string, pts []ecg.Point) error
	PublishSettings(subject string, v any) error
	Close() error
}

// Config selects and configures a bus.
type Config struct {
	Bus          string
	NATSURL      string
	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string
	MQTTQoS      int
}

// Open connects to the configured bus. An empty or "none" bus returns a
// publisher that discards everything.
func Open(cfg Config) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Bus)) {
	case "", BusNone:
		return Nop{}, nil
	case BusNATS:
		return ConnectNATS(cfg.NATSURL)
	case BusMQTT:
		return ConnectMQTT(cfg)
	default:
		return nil, fmt.Errorf("stream: unsupported bus %q", cfg.Bus)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) PublishWindow(string, []ecg.Point) error { return nil }
func (Nop) PublishSettings(string, any) error       { return nil }
func (Nop) Close() error                            { return nil }

// NATSPublisher publishes over a NATS connection.
type NATSPublisher struct {
	nc *nats.Conn
}

// ConnectNATS dials url with reconnects enabled.
func ConnectNATS(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(
		url,
		nats.Name("algo-ecg"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("stream: connect nats %s: %w", url, err)
	}
	return &NATSPublisher{nc: nc}, nil
}

// PublishWindow publishes the binary window encoding on subject.
func (p *NATSPublisher) PublishWindow(subject string, pts []ecg.Point) error {
	if err := p.nc.Publish(subject, EncodeWindow(pts)); err != nil {
		return fmt.Errorf("stream: publish window: %w", err)
	}
	return nil
}

// PublishSettings publishes v as JSON on subject.
func (p *NATSPublisher) PublishSettings(subject string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("stream: encode settings: %w", err)
	}
	if err := p.nc.Publish(subject, b); err != nil {
		return fmt.Errorf("stream: publish settings: %w", err)
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}

// MQTTPublisher publishes over an MQTT client.
type MQTTPublisher struct {
	client mqtt.Client
	qos    byte
}

// ConnectMQTT connects to cfg.MQTTBroker.
func ConnectMQTT(cfg Config) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBroker)
	opts.SetClientID(cfg.MQTTClientID)
	if cfg.MQTTUsername != "" && cfg.MQTTPassword != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(3 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("stream: connect mqtt %s: %w", cfg.MQTTBroker, token.Error())
	}

	qos := cfg.MQTTQoS
	if qos < 0 || qos > 2 {
		qos = 0
	}
	return &MQTTPublisher{client: client, qos: byte(qos)}, nil
}

// PublishWindow publishes the binary window encoding on the topic derived from subject.
func (p *MQTTPublisher) PublishWindow(subject string, pts []ecg.Point) error {
	return p.publish(subject, EncodeWindow(pts))
}

// PublishSettings publishes v as JSON on the topic derived from subject.
func (p *MQTTPublisher) PublishSettings(subject string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("stream: encode settings: %w", err)
	}
	return p.publish(subject, b)
}

func (p *MQTTPublisher) publish(subject string, payload []byte) error {
	token := p.client.Publish(Topic(subject), p.qos, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("stream: publish %s: %w", subject, token.Error())
	}
	return nil
}

// Close disconnects after letting in-flight messages complete.
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}

// Topic converts a NATS-style dotted subject to an MQTT topic.
func Topic(subject string) string {
	return strings.ReplaceAll(subject, ".", "/")
}
