package telemetry

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"reflow_oven/internal/models"
)

// RealPublisher publishes to an MQTT broker.
type RealPublisher struct {
	client paho.Client
	topics Topics
}

// NewRealPublisher creates a publisher connected to broker.
func NewRealPublisher(broker, clientID, prefix string) (*RealPublisher, error) {
	topics := NewTopics(prefix)
	offline, err := FormatStatusPayload(models.OvenStatus{State: "offline", UpdatedAt: time.Now()})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetBinaryWill(topics.Status, offline, 1, true)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealPublisher{client: client, topics: topics}, nil
}

// PublishEvent sends an oven event with QoS 1.
func (p *RealPublisher) PublishEvent(e models.OvenEvent) error {
	payload, err := FormatEventPayload(e)
	if err != nil {
		return fmt.Errorf("format event payload: %w", err)
	}
	return p.publish(p.topics.Events, 1, false, payload)
}

// PublishStatus sends a retained status snapshot with QoS 0.
func (p *RealPublisher) PublishStatus(s models.OvenStatus) error {
	payload, err := FormatStatusPayload(s)
	if err != nil {
		return fmt.Errorf("format status payload: %w", err)
	}
	return p.publish(p.topics.Status, 0, true, payload)
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// IsConnected reports whether the client currently holds a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
