package oven

import (
	"reflow_oven/internal/profile"
	"reflow_oven/internal/reflow"
	"reflow_oven/internal/thermo"
)

// phase is one variant of the controller state. Each variant carries its own
// run data, its tick update and its interlock duration ceiling.
type phase interface {
	state() State
	// ceiling is the maximum run time in seconds; ok=false means unbounded.
	ceiling() (seconds int, ok bool)
	tick(c *Controller, temp thermo.Temperature, elapsed int) (Result, error)
}

// regulatedPhase is implemented by phases that feed the Regulator.
type regulatedPhase interface {
	phase
	targetSlope(temp thermo.Temperature, elapsed int) int
}

type stoppedPhase struct{}

func (stoppedPhase) state() State { return StateStopped }
func (stoppedPhase) ceiling() (int, bool) { return 0, false }
func (stoppedPhase) tick(*Controller, thermo.Temperature, int) (Result, error) {
	return ResultIdle, nil
}

type bakePhase struct {
	duration int
	target   thermo.Temperature
}

func (*bakePhase) state() State { return StateBaking }
func (*bakePhase) ceiling() (int, bool) { return MaxBakeDuration, true }

func (p *bakePhase) tick(c *Controller, temp thermo.Temperature, elapsed int) (Result, error) {
	if elapsed >= p.duration {
		c.complete()
		return ResultCompleted, nil
	}
	return c.regulate(temp, elapsed)
}

func (p *bakePhase) targetSlope(temp thermo.Temperature, _ int) int {
	return int(p.target-temp) / bakeLookahead
}

type manualPowerPhase struct {
	level uint8
}

func (*manualPowerPhase) state() State { return StateManualPower }
func (*manualPowerPhase) ceiling() (int, bool) { return 0, false }

func (*manualPowerPhase) tick(*Controller, thermo.Temperature, int) (Result, error) {
	return ResultRunning, nil
}

// manualTempPhase holds a setpoint with no duration limit.
type manualTempPhase struct {
	target thermo.Temperature
}

func (*manualTempPhase) state() State { return StateManualTemp }
func (*manualTempPhase) ceiling() (int, bool) { return 0, false }

func (p *manualTempPhase) tick(c *Controller, temp thermo.Temperature, elapsed int) (Result, error) {
	return c.regulate(temp, elapsed)
}

func (p *manualTempPhase) targetSlope(temp thermo.Temperature, _ int) int {
	return int(p.target-temp) / bakeLookahead
}

type reflowWarmingPhase struct {
	tracker *reflow.Tracker
}

func (*reflowWarmingPhase) state() State { return StateReflowWarming }
func (*reflowWarmingPhase) ceiling() (int, bool) { return MaxReflowDuration, true }

func (p *reflowWarmingPhase) tick(c *Controller, temp thermo.Temperature, _ int) (Result, error) {
	if temp < profile.StartTemp {
		return ResultRunning, nil
	}
	c.startMs = c.clock.NowMs()
	c.reg.Init(temp, pidSamplePeriod, ModeSlope)
	c.transition(&reflowTrackingPhase{tracker: p.tracker})
	return ResultRunning, nil
}

type reflowTrackingPhase struct {
	tracker *reflow.Tracker
}

func (*reflowTrackingPhase) state() State { return StateReflowTracking }
func (*reflowTrackingPhase) ceiling() (int, bool) { return MaxReflowDuration, true }

func (p *reflowTrackingPhase) tick(c *Controller, temp thermo.Temperature, elapsed int) (Result, error) {
	if p.tracker.Finished(elapsed) {
		c.oven.SetPowerLevel(0)
		c.transition(&reflowCoolingPhase{tracker: p.tracker})
		return ResultRunning, nil
	}
	return c.regulate(temp, elapsed)
}

func (p *reflowTrackingPhase) targetSlope(temp thermo.Temperature, elapsed int) int {
	return p.tracker.TargetSlope(temp, elapsed, reflowLookahead)
}

// reflowCoolingPhase waits for natural cooling below the profile end temperature.
type reflowCoolingPhase struct {
	tracker *reflow.Tracker
}

func (*reflowCoolingPhase) state() State { return StateReflowCooling }
func (*reflowCoolingPhase) ceiling() (int, bool) { return 0, false }

func (*reflowCoolingPhase) tick(c *Controller, temp thermo.Temperature, _ int) (Result, error) {
	if temp < profile.EndTemp {
		c.complete()
		return ResultCompleted, nil
	}
	return ResultRunning, nil
}
