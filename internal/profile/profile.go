// Package profile holds reflow temperature profiles and the bounded store
// that manages them.
package profile

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"reflow_oven/internal/thermo"
)

const (
	// StartTemp is the temperature every profile implicitly begins at.
	StartTemp thermo.Temperature = 500
	// EndTemp is the temperature the cooling stage targets; natural cooling follows.
	EndTemp thermo.Temperature = 1000
	// NumCheckpoints is the number of vertices in a profile's piecewise-linear form.
	NumCheckpoints = 6
	// MaxNameLen is the maximum profile name length in characters.
	MaxNameLen = 15
)

// Editing limits.
const (
	MinStageDuration = 10
	MaxStageDuration = 600
	MinStageTemp     thermo.Temperature = 500
	MaxStageTemp     thermo.Temperature = 2700
)

// ErrInvalidProfile wraps every Validate failure.
var ErrInvalidProfile = errors.New("invalid profile")

// Stage ramps from the previous temperature to FinalTemp over Duration seconds.
type Stage struct {
	Duration  int                `json:"duration_s"`
	FinalTemp thermo.Temperature `json:"final_temp"`
}

// Profile is a named reflow temperature profile.
type Profile struct {
	Name          string `json:"name"`
	Preheat       Stage  `json:"preheat"`
	Soak          Stage  `json:"soak"`
	ReflowRamp    Stage  `json:"reflow_ramp"`
	DwellDuration int    `json:"reflow_dwell_duration_s"`
	CoolDuration  int    `json:"cool_duration_s"`
}

// Checkpoint is one (time, temperature) vertex of a profile.
type Checkpoint struct {
	Time int                `json:"time_s"`
	Temp thermo.Temperature `json:"temp"`
}

// TotalDuration returns the sum of all stage durations in seconds.
func (p Profile) TotalDuration() int {
	return p.Preheat.Duration + p.Soak.Duration + p.ReflowRamp.Duration +
		p.DwellDuration + p.CoolDuration
}

// PeakTemp returns the final temperature of the reflow ramp.
func (p Profile) PeakTemp() thermo.Temperature {
	return p.ReflowRamp.FinalTemp
}

// Checkpoints expands the profile into its piecewise-linear vertices, with
// times measured from the start of the profile.
func (p Profile) Checkpoints() [NumCheckpoints]Checkpoint {
	var pts [NumCheckpoints]Checkpoint
	pts[0] = Checkpoint{Time: 0, Temp: StartTemp}
	pts[1] = Checkpoint{Time: p.Preheat.Duration, Temp: p.Preheat.FinalTemp}
	pts[2] = Checkpoint{Time: pts[1].Time + p.Soak.Duration, Temp: p.Soak.FinalTemp}
	pts[3] = Checkpoint{Time: pts[2].Time + p.ReflowRamp.Duration, Temp: p.ReflowRamp.FinalTemp}
	pts[4] = Checkpoint{Time: pts[3].Time + p.DwellDuration, Temp: pts[3].Temp}
	pts[5] = Checkpoint{Time: pts[4].Time + p.CoolDuration, Temp: EndTemp}
	return pts
}

// Validate checks the profile against the editing limits.
func (p Profile) Validate() error {
	n := utf8.RuneCountInString(p.Name)
	if n == 0 || n > MaxNameLen {
		return fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidProfile, MaxNameLen)
	}
	durations := []struct {
		field string
		v     int
	}{
		{"preheat duration", p.Preheat.Duration},
		{"soak duration", p.Soak.Duration},
		{"reflow ramp duration", p.ReflowRamp.Duration},
		{"reflow dwell duration", p.DwellDuration},
		{"cool duration", p.CoolDuration},
	}
	for _, d := range durations {
		if d.v < MinStageDuration || d.v > MaxStageDuration {
			return fmt.Errorf("%w: %s %ds outside %d..%ds", ErrInvalidProfile, d.field, d.v, MinStageDuration, MaxStageDuration)
		}
	}
	temps := []struct {
		field string
		v     thermo.Temperature
	}{
		{"preheat temperature", p.Preheat.FinalTemp},
		{"soak temperature", p.Soak.FinalTemp},
		{"reflow ramp temperature", p.ReflowRamp.FinalTemp},
	}
	for _, tt := range temps {
		if tt.v < MinStageTemp || tt.v > MaxStageTemp {
			return fmt.Errorf("%w: %s %s outside %s..%s", ErrInvalidProfile, tt.field, tt.v, MinStageTemp, MaxStageTemp)
		}
	}
	return nil
}

// Built-in profiles.
var (
	SnPb = Profile{
		Name:          "Sn63_Pb37",
		Preheat:       Stage{Duration: 60, FinalTemp: 1500},
		Soak:          Stage{Duration: 90, FinalTemp: 1700},
		ReflowRamp:    Stage{Duration: 45, FinalTemp: 2200},
		DwellDuration: 15,
		CoolDuration:  40, // -3°C/s
	}
	PbFree = Profile{
		Name:          "Pb_Free",
		Preheat:       Stage{Duration: 60, FinalTemp: 1500},
		Soak:          Stage{Duration: 120, FinalTemp: 1800},
		ReflowRamp:    Stage{Duration: 45, FinalTemp: 2500},
		DwellDuration: 15,
		CoolDuration:  42,
	}
)
