package models

import "time"

// Event types written to the oven event log.
const (
	EventStart          = "START"
	EventStop           = "STOP"
	EventComplete       = "COMPLETE"
	EventError          = "ERROR"
	EventModeChange     = "MODE_CHANGE"
	EventProfileChange  = "PROFILE_CHANGE"
	EventSettingsChange = "SETTINGS_CHANGE"
)

// EventTypes lists every event type in the log.
var EventTypes = []string{
	EventStart, EventStop, EventComplete, EventError,
	EventModeChange, EventProfileChange, EventSettingsChange,
}

// IsEventType reports whether typ is one of EventTypes.
func IsEventType(typ string) bool {
	for _, t := range EventTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// OvenEvent is a single log entry.
type OvenEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
