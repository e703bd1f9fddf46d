// Package oven implements the operation controller: a tick-driven state
// machine that runs bake, manual and reflow operations and enforces the
// safety interlock.
package oven

import (
	"fmt"

	"reflow_oven/internal/logger"
	"reflow_oven/internal/profile"
	"reflow_oven/internal/reflow"
	"reflow_oven/internal/thermo"
)

// Operating limits, temperatures in tenths of a degree.
const (
	MinBakeTemp       thermo.Temperature = 500
	MaxBakeTemp       thermo.Temperature = 1300
	MaxBakeDuration                      = 60 * 60 * 10
	MaxReflowDuration                    = 60 * 12

	// MaxOvenTemp stops all operations when exceeded.
	MaxOvenTemp thermo.Temperature = 2800
	// MinOvenTemp is the lowest plausible reading; anything below is a sensor fault.
	MinOvenTemp thermo.Temperature = 50

	overrunGrace    = 30
	bakeStartPower  = 50
	reflowLookahead = 10
	bakeLookahead   = 45
	pidSamplePeriod = 1
)

// Door positions in percent open.
const (
	doorClosed uint8 = 0
	doorOpen   uint8 = 100
)

// CompletionFunc is called once, synchronously from Process, when an
// operation finishes normally. It must not call back into the Controller.
type CompletionFunc func()

// Controller owns the oven actuator and regulator for the life of the
// process. It is not safe for concurrent use; Process must be called from a
// single context at a cadence faster than the regulator sample period.
type Controller struct {
	oven  Actuator
	reg   Regulator
	clock Clock
	log   *logger.Logger

	phase      phase
	startMs    uint64
	onComplete CompletionFunc
	lastFault  error
}

// New returns a stopped controller.
func New(oven Actuator, reg Regulator, clock Clock, log *logger.Logger) *Controller {
	return &Controller{
		oven:  oven,
		reg:   reg,
		clock: clock,
		log:   logger.OrNop(log),
		phase: stoppedPhase{},
	}
}

// State returns the current operating state.
func (c *Controller) State() State { return c.phase.state() }

// Elapsed returns whole seconds since the run started, or 0 when stopped.
// During reflow tracking and cooling it is the profile time.
func (c *Controller) Elapsed() int {
	if c.phase.state() == StateStopped {
		return 0
	}
	return int((c.clock.NowMs() - c.startMs) / 1000)
}

// LastFault returns the most recent interlock fault, or nil. It is cleared
// when a new operation starts.
func (c *Controller) LastFault() error { return c.lastFault }

// TargetTemp returns the temperature the oven is currently driving toward.
// ok is false when there is no setpoint, as in stopped, manual power and
// reflow cooling.
func (c *Controller) TargetTemp() (thermo.Temperature, bool) {
	switch p := c.phase.(type) {
	case *bakePhase:
		return p.target, true
	case *manualTempPhase:
		return p.target, true
	case *reflowWarmingPhase:
		return profile.StartTemp, true
	case *reflowTrackingPhase:
		return p.tracker.TargetTemp(c.Elapsed())
	default:
		return 0, false
	}
}

// Dwelling reports whether a reflow run has reached its peak dwell.
func (c *Controller) Dwelling() bool {
	switch p := c.phase.(type) {
	case *reflowTrackingPhase:
		return p.tracker.Dwelling()
	case *reflowCoolingPhase:
		return p.tracker.Dwelling()
	}
	return false
}

// StartReflow begins a reflow run of p. The oven heats at full power until
// the profile start temperature is reached, then tracks the profile.
func (c *Controller) StartReflow(p profile.Profile, onComplete CompletionFunc) error {
	if c.State().Running() {
		return ErrBusy
	}
	if temp := c.oven.Temperature(); temp >= profile.StartTemp {
		return fmt.Errorf("%w: %s, must be below %s", ErrTooHot, temp, profile.StartTemp)
	}

	c.begin(onComplete)
	c.oven.SetDoorOpening(doorClosed)
	c.oven.SetPowerLevel(100)
	c.transition(&reflowWarmingPhase{tracker: reflow.NewTracker(p)})
	return nil
}

// StartBake holds target for duration seconds.
func (c *Controller) StartBake(duration int, target thermo.Temperature, onComplete CompletionFunc) error {
	if c.State().Running() {
		return ErrBusy
	}
	temp := c.oven.Temperature()
	if temp >= target {
		return fmt.Errorf("%w: %s, must be below %s", ErrTooHot, temp, target)
	}
	if duration < 0 || duration > MaxBakeDuration {
		return fmt.Errorf("%w: duration %ds exceeds %ds", ErrOutOfRange, duration, MaxBakeDuration)
	}
	if target > MaxBakeTemp {
		return fmt.Errorf("%w: temperature %s exceeds %s", ErrOutOfRange, target, MaxBakeTemp)
	}

	c.begin(onComplete)
	c.oven.SetDoorOpening(doorClosed)
	c.oven.SetPowerLevel(bakeStartPower)
	c.reg.Init(temp, pidSamplePeriod, ModeAbsolute)
	c.transition(&bakePhase{duration: duration, target: target})
	return nil
}

// StartManualPower drives the heater at a fixed level until stopped. A level
// of 0 stops the oven. It may be called again while already in manual power.
func (c *Controller) StartManualPower(level uint8) error {
	if s := c.State(); s != StateStopped && s != StateManualPower {
		return ErrBusy
	}
	if level > 100 {
		return fmt.Errorf("%w: power %d%%", ErrOutOfRange, level)
	}
	if level == 0 {
		c.Stop()
		return nil
	}

	c.begin(nil)
	c.oven.SetPowerLevel(level)
	c.transition(&manualPowerPhase{level: level})
	return nil
}

// StartManualTemp holds target indefinitely. It may be called again while
// already in manual temperature mode to change the setpoint.
func (c *Controller) StartManualTemp(target thermo.Temperature) error {
	if s := c.State(); s != StateStopped && s != StateManualTemp {
		return ErrBusy
	}

	c.begin(nil)
	c.oven.SetPowerLevel(bakeStartPower)
	c.reg.Init(c.oven.Temperature(), pidSamplePeriod, ModeAbsolute)
	c.transition(&manualTempPhase{target: target})
	return nil
}

// Stop turns the heater off and opens the door. The completion callback is
// discarded without being called.
func (c *Controller) Stop() {
	c.oven.SetPowerLevel(0)
	c.oven.SetDoorOpening(doorOpen)
	c.onComplete = nil
	c.transition(stoppedPhase{})
}

// Process advances the running operation by one tick. A non-nil error is
// returned only with ResultFault, after the oven has been stopped.
func (c *Controller) Process() (Result, error) {
	if c.State() == StateStopped {
		return ResultIdle, nil
	}

	if err := c.interlock(); err != nil {
		c.log.Warnw("oven_fault", "state", c.State().String(), "err", err)
		c.lastFault = err
		c.Stop()
		return ResultFault, err
	}

	res, err := c.phase.tick(c, c.oven.Temperature(), c.Elapsed())
	if err != nil {
		c.log.Errorw("oven_fault", "state", c.State().String(), "err", err)
		c.lastFault = err
		c.Stop()
		return ResultFault, err
	}
	return res, nil
}

// interlock returns a fault if the oven must be shut down.
func (c *Controller) interlock() error {
	temp := c.oven.Temperature()
	if temp < MinOvenTemp {
		return fmt.Errorf("%w: read %s", ErrSensorFault, temp)
	}
	if temp > MaxOvenTemp {
		return fmt.Errorf("%w: read %s, limit %s", ErrOverTemperature, temp, MaxOvenTemp)
	}
	now := c.clock.NowMs()
	if now < c.startMs {
		return fmt.Errorf("%w: now %dms, run started %dms", ErrClockRegression, now, c.startMs)
	}
	if limit, ok := c.phase.ceiling(); ok {
		if elapsed := c.Elapsed(); elapsed > limit+overrunGrace {
			return fmt.Errorf("%w: %s ran %ds, limit %ds", ErrOverrun, c.State(), elapsed, limit)
		}
	}
	return nil
}

// regulate runs one regulator update for the current phase.
func (c *Controller) regulate(temp thermo.Temperature, elapsed int) (Result, error) {
	p, ok := c.phase.(regulatedPhase)
	if !ok {
		return ResultFault, fmt.Errorf("%w: %s", ErrInconsistentState, c.State())
	}
	slope := p.targetSlope(temp, elapsed)
	if power, ok := c.reg.Compute(slope, temp); ok {
		c.oven.SetPowerLevel(clampPower(power))
	}
	return ResultRunning, nil
}

func (c *Controller) begin(onComplete CompletionFunc) {
	c.onComplete = onComplete
	c.startMs = c.clock.NowMs()
	c.lastFault = nil
}

// complete invokes the completion callback, then stops.
func (c *Controller) complete() {
	cb := c.onComplete
	c.onComplete = nil
	c.log.Infow("oven_operation_complete", "state", c.State().String(), "elapsed_s", c.Elapsed())
	if cb != nil {
		cb()
	}
	c.Stop()
}

func (c *Controller) transition(next phase) {
	if prev := c.phase.state(); prev != next.state() {
		c.log.Debugw("oven_state_change", "from", prev.String(), "to", next.state().String())
	}
	c.phase = next
}

func clampPower(p float64) uint8 {
	switch {
	case p <= 0:
		return 0
	case p >= 100:
		return 100
	default:
		return uint8(p + 0.5)
	}
}
