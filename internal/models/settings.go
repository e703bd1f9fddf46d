package models

import "time"

// Settings are the persisted operator preferences.
type Settings struct {
	Units     string    `json:"units"` // celsius | fahrenheit
	Kp        uint16    `json:"kp"`
	Ki        uint16    `json:"ki"`
	Kd        uint16    `json:"kd"`
	UpdatedAt time.Time `json:"updated_at"`
}
