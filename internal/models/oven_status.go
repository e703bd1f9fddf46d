package models

import "time"

// OvenStatus is a point-in-time snapshot of the oven and the running operation.
type OvenStatus struct {
	State          string    `json:"state"` // stopped | baking | manual_power | manual_temp | reflow_*
	IsRunning      bool      `json:"is_running"`
	CurrentTempC   float64   `json:"current_temp_c"`
	TargetTempC    *float64  `json:"target_temp_c,omitempty"`
	Display        string    `json:"display"` // current temperature in the configured units
	PowerLevel     uint8     `json:"power_level"`
	DoorOpening    uint8     `json:"door_opening"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	ActiveProfile  string    `json:"active_profile"`
	Dwelling       bool      `json:"dwelling,omitempty"`
	LastFault      string    `json:"last_fault,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}
