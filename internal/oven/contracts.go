package oven

import (
	"time"

	"reflow_oven/internal/thermo"
)

// Actuator is the oven hardware: heating element, door and thermocouple.
// Calls must be cheap enough to make on every tick.
type Actuator interface {
	// SetPowerLevel sets the heater output, 0..100. 0 must de-energise the element.
	SetPowerLevel(percent uint8)
	// SetDoorOpening sets the door position, 0 = closed, 100 = fully open.
	SetDoorOpening(percent uint8)
	Temperature() thermo.Temperature
	PowerLevel() uint8
	DoorOpening() uint8
}

// RegulatorMode selects how a Regulator interprets its target.
type RegulatorMode uint8

const (
	// ModeAbsolute approaches an absolute setpoint.
	ModeAbsolute RegulatorMode = iota
	// ModeSlope tracks a rate-of-change target.
	ModeSlope
)

func (m RegulatorMode) String() string {
	if m == ModeSlope {
		return "slope"
	}
	return "absolute"
}

// Regulator is the closed-loop numeric controller that converts a target
// slope and the measured temperature into a power level.
type Regulator interface {
	Init(initial thermo.Temperature, samplePeriodS int, mode RegulatorMode)
	// Compute returns a new power level and true once per sample period.
	Compute(targetSlope int, measured thermo.Temperature) (float64, bool)
}

// Clock is a monotonic millisecond counter.
type Clock interface {
	NowMs() uint64
}

// SystemClock counts milliseconds since it was created.
type SystemClock struct {
	base time.Time
}

// NewSystemClock returns a clock starting at zero now.
func NewSystemClock() *SystemClock {
	return &SystemClock{base: time.Now()}
}

// NowMs returns the milliseconds elapsed since the clock was created.
func (c *SystemClock) NowMs() uint64 {
	return uint64(time.Since(c.base).Milliseconds())
}
