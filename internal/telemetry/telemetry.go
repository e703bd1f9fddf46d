// Package telemetry publishes oven events and status snapshots over MQTT.
package telemetry

import (
	"encoding/json"
	"strings"
	"time"

	"reflow_oven/internal/models"
)

// Topic suffixes below the configured prefix.
const (
	topicEvents = "events"
	topicStatus = "status"
)

// DefaultPrefix is used when no topic prefix is configured.
const DefaultPrefix = "reflow/oven"

// Publisher publishes oven telemetry. Failures are reported but must never
// stop the oven.
type Publisher interface {
	PublishEvent(e models.OvenEvent) error
	PublishStatus(s models.OvenStatus) error
	Close() error
}

// Topics holds the fully qualified topic names.
type Topics struct {
	Events string
	Status string
}

// NewTopics builds topic names under prefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Topics{
		Events: prefix + "/" + topicEvents,
		Status: prefix + "/" + topicStatus,
	}
}

// EventPayload is the MQTT message body for an oven event.
type EventPayload struct {
	Event EventInner `json:"event"`
}

// EventInner contains the event details.
type EventInner struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Metadata    any    `json:"metadata,omitempty"`
}

// FormatEventPayload creates the JSON payload for an event.
func FormatEventPayload(e models.OvenEvent) ([]byte, error) {
	return json.Marshal(EventPayload{
		Event: EventInner{
			ID:          e.EventID,
			Timestamp:   e.OccurredAt.UTC().Format(time.RFC3339),
			Type:        e.Type,
			Description: e.Description,
			Metadata:    e.Metadata,
		},
	})
}

// StatusPayload is the MQTT message body for a status snapshot.
type StatusPayload struct {
	Oven models.OvenStatus `json:"oven"`
}

// FormatStatusPayload creates the JSON payload for a status snapshot.
func FormatStatusPayload(s models.OvenStatus) ([]byte, error) {
	s.UpdatedAt = s.UpdatedAt.UTC()
	return json.Marshal(StatusPayload{Oven: s})
}

// NopPublisher drops everything. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(models.OvenEvent) error   { return nil }
func (NopPublisher) PublishStatus(models.OvenStatus) error { return nil }
func (NopPublisher) Close() error                          { return nil }
