// Package pid is the oven's closed-loop regulator. It drives the heater power
// from a target rate of change and the measured temperature.
package pid

import (
	"math"
	"sync"

	"reflow_oven/internal/oven"
	"reflow_oven/internal/thermo"
)

// paramScale converts the stored integer gains to their working values.
const paramScale = 10

const maxOutput = 100.0

// Params are the regulator gains as stored in settings, scaled by 10.
type Params struct {
	Kp uint16 `json:"kp"`
	Ki uint16 `json:"ki"`
	Kd uint16 `json:"kd"`
}

// DefaultParams are the factory gains.
var DefaultParams = Params{Kp: 40, Ki: 10, Kd: 5}

// PID implements oven.Regulator. Compute yields a new output at most once
// per sample period as measured by its clock.
type PID struct {
	mu    sync.Mutex
	clock oven.Clock

	kp, ki, kd float64
	params     Params

	mode     oven.RegulatorMode
	periodMs uint64
	lastMs   uint64
	prevTemp thermo.Temperature
	prevErr  float64
	integ    float64
	integMax float64
}

// New returns a regulator with the given gains.
func New(clock oven.Clock, p Params) *PID {
	r := &PID{clock: clock, periodMs: 1000}
	r.SetParams(p)
	return r
}

// SetParams replaces the gains. Accumulated state is kept.
func (r *PID) SetParams(p Params) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.params = p
	r.kp = float64(p.Kp) / paramScale
	r.ki = float64(p.Ki) / paramScale
	r.kd = float64(p.Kd) / paramScale
	r.integMax = 0
	if r.ki > 0 {
		r.integMax = maxOutput / r.ki
	}
}

// Params returns the current gains.
func (r *PID) Params() Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.params
}

// Init resets the regulator for a new run starting at initial.
func (r *PID) Init(initial thermo.Temperature, samplePeriodS int, mode oven.RegulatorMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if samplePeriodS < 1 {
		samplePeriodS = 1
	}
	r.mode = mode
	r.periodMs = uint64(samplePeriodS * 1000)
	r.lastMs = r.clock.NowMs()
	r.prevTemp = initial
	r.prevErr = 0
	r.integ = 0
}

// Compute returns the heater power in percent. ok is false until a full
// sample period has passed since the previous output.
func (r *PID) Compute(targetSlope int, measured thermo.Temperature) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.NowMs()
	elapsedMs := now - r.lastMs
	if elapsedMs < r.periodMs {
		return 0, false
	}
	dt := float64(elapsedMs) / 1000

	err := float64(targetSlope)
	if r.mode == oven.ModeSlope {
		err -= float64(measured-r.prevTemp) / dt
	}

	integ := r.integ + err*dt
	if r.integMax > 0 {
		integ = math.Max(0, math.Min(r.integMax, integ))
	}
	deriv := (err - r.prevErr) / dt

	out := r.kp*err + r.ki*integ + r.kd*deriv
	bounded := math.Max(0, math.Min(maxOutput, out))

	r.lastMs = now
	r.prevTemp = measured
	r.prevErr = err
	// Hold the integral while saturated.
	if out == bounded {
		r.integ = integ
	}
	return bounded, true
}
