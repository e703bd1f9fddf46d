package service

import (
	"time"

	"reflow_oven/internal/profile"
)

// BakeParams starts a bake: hold TargetTempC for DurationSec seconds.
type BakeParams struct {
	DurationSec int
	TargetTempC float64
}

// SettingsParams replaces the operator settings.
type SettingsParams struct {
	Units string // "celsius" | "fahrenheit"
	Kp    int
	Ki    int
	Kd    int
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "START", "STOP", "COMPLETE", "ERROR", ...
}

// ProfileList is the profile store as shown to clients.
type ProfileList struct {
	Active   int               `json:"active"`
	Capacity int               `json:"capacity"`
	Profiles []profile.Profile `json:"profiles"`
}

// ProfileDetail is one profile with its derived curve.
type ProfileDetail struct {
	Index       int                  `json:"index"`
	Active      bool                 `json:"active"`
	Profile     profile.Profile      `json:"profile"`
	DurationSec int                  `json:"total_duration_s"`
	Checkpoints []profile.Checkpoint `json:"checkpoints"`
}
