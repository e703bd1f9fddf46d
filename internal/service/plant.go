package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"reflow_oven/internal/models"
	"reflow_oven/internal/oven"
	"reflow_oven/internal/pid"
	"reflow_oven/internal/profile"
	"reflow_oven/internal/thermo"
)

// Tuner is the live regulator's parameter surface.
type Tuner interface {
	SetParams(p pid.Params)
	Params() pid.Params
}

// Plant owns the oven controller and everything it touches. The controller
// is single-threaded; every access from HTTP handlers and the runner goes
// through mu.
type Plant struct {
	mu sync.Mutex

	ctl      *oven.Controller
	actuator oven.Actuator
	tuner    Tuner
	profiles *profile.Store
	units    thermo.Unit

	// Events produced inside Process, recorded by the runner after unlock.
	pending []models.OvenEvent
}

// NewPlant bundles the controller with its actuator, regulator and profiles.
func NewPlant(ctl *oven.Controller, actuator oven.Actuator, tuner Tuner, profiles *profile.Store) *Plant {
	return &Plant{
		ctl:      ctl,
		actuator: actuator,
		tuner:    tuner,
		profiles: profiles,
		units:    thermo.Celsius,
	}
}

// Status returns a snapshot of the oven.
func (p *Plant) Status() models.OvenStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statusLocked()
}

func (p *Plant) statusLocked() models.OvenStatus {
	state := p.ctl.State()
	temp := p.actuator.Temperature()

	s := models.OvenStatus{
		State:          state.String(),
		IsRunning:      state.Running(),
		CurrentTempC:   temp.Celsius(),
		Display:        thermo.FormatIn(temp, p.units),
		PowerLevel:     p.actuator.PowerLevel(),
		DoorOpening:    p.actuator.DoorOpening(),
		ElapsedSeconds: p.ctl.Elapsed(),
		ActiveProfile:  p.profiles.Active().Name,
		Dwelling:       p.ctl.Dwelling(),
		UpdatedAt:      time.Now().UTC(),
	}
	if target, ok := p.ctl.TargetTemp(); ok {
		c := target.Celsius()
		s.TargetTempC = &c
	}
	if err := p.ctl.LastFault(); err != nil {
		s.LastFault = faultCode(err)
	}
	return s
}

// onComplete returns a completion callback that queues a COMPLETE event.
// It runs inside Process with mu held.
func (p *Plant) onComplete(desc string, meta map[string]any) oven.CompletionFunc {
	return func() {
		p.pending = append(p.pending, models.OvenEvent{
			EventID:     uuid.NewString(),
			OccurredAt:  time.Now().UTC(),
			Type:        models.EventComplete,
			Description: desc,
			Metadata:    meta,
		})
	}
}

func (p *Plant) takePendingLocked() []models.OvenEvent {
	out := p.pending
	p.pending = nil
	return out
}

// faultCode maps an interlock fault to a stable machine-readable code.
func faultCode(err error) string {
	switch {
	case errors.Is(err, oven.ErrSensorFault):
		return "SENSOR_FAULT"
	case errors.Is(err, oven.ErrOverTemperature):
		return "OVER_TEMPERATURE"
	case errors.Is(err, oven.ErrOverrun):
		return "OVERRUN"
	case errors.Is(err, oven.ErrClockRegression):
		return "CLOCK_REGRESSION"
	case errors.Is(err, oven.ErrInconsistentState):
		return "INCONSISTENT_STATE"
	default:
		return "UNKNOWN"
	}
}
