package service

import (
	"context"
	"fmt"

	"reflow_oven/internal/models"
	"reflow_oven/internal/oven"
	"reflow_oven/internal/profile"
	"reflow_oven/internal/thermo"
)

// Bake limits enforced at the API. The controller enforces the upper bounds
// again.
const (
	minBakeDurationSec = 60
	maxManualPower     = 100
)

type OvenService struct {
	plant  *Plant
	events *eventRecorder
}

func NewOvenService(plant *Plant, events *eventRecorder) *OvenService {
	return &OvenService{plant: plant, events: events}
}

// StartBake holds a temperature for a fixed time, then stops and opens the door.
func (s *OvenService) StartBake(ctx context.Context, p BakeParams) error {
	target := thermo.FromCelsius(p.TargetTempC)
	if p.DurationSec < minBakeDurationSec || p.DurationSec > oven.MaxBakeDuration {
		return fmt.Errorf("%w: duration_s must be in [%d, %d]", oven.ErrOutOfRange, minBakeDurationSec, oven.MaxBakeDuration)
	}
	if target < oven.MinBakeTemp || target > oven.MaxBakeTemp {
		return fmt.Errorf("%w: target_temp_c must be in [%.1f, %.1f]", oven.ErrOutOfRange,
			oven.MinBakeTemp.Celsius(), oven.MaxBakeTemp.Celsius())
	}

	meta := map[string]any{"duration_s": p.DurationSec, "target_temp_c": target.Celsius()}

	s.plant.mu.Lock()
	err := s.plant.ctl.StartBake(p.DurationSec, target, s.plant.onComplete("Bake finished", meta))
	s.plant.mu.Unlock()
	if err != nil {
		return err
	}

	s.events.record(ctx, models.EventStart, "Bake started", meta)
	return nil
}

// StartReflow runs the active profile.
func (s *OvenService) StartReflow(ctx context.Context) error {
	s.plant.mu.Lock()
	p := s.plant.profiles.Active()
	meta := map[string]any{
		"profile":          p.Name,
		"peak_temp_c":      p.PeakTemp().Celsius(),
		"total_duration_s": p.TotalDuration(),
	}
	err := s.plant.ctl.StartReflow(p, s.plant.onComplete("Reflow finished: "+p.Name, meta))
	s.plant.mu.Unlock()
	if err != nil {
		return err
	}

	s.events.record(ctx, models.EventStart, "Reflow started: "+p.Name, meta)
	return nil
}

// StartManualPower drives the element at a fixed percentage. Level 0 stops.
func (s *OvenService) StartManualPower(ctx context.Context, level int) error {
	if level < 0 || level > maxManualPower {
		return fmt.Errorf("%w: level must be in [0, %d]", oven.ErrOutOfRange, maxManualPower)
	}

	s.plant.mu.Lock()
	prev := s.plant.ctl.State()
	err := s.plant.ctl.StartManualPower(uint8(level))
	s.plant.mu.Unlock()
	if err != nil {
		return err
	}

	if level == 0 {
		s.events.record(ctx, models.EventStop, "Manual power set to 0", map[string]any{"from": prev.String()})
		return nil
	}
	typ := models.EventStart
	if prev == oven.StateManualPower {
		typ = models.EventModeChange
	}
	s.events.record(ctx, typ, fmt.Sprintf("Manual power %d%%", level), map[string]any{"level": level})
	return nil
}

// StartManualTemp holds a temperature until stopped.
func (s *OvenService) StartManualTemp(ctx context.Context, targetC float64) error {
	target := thermo.FromCelsius(targetC)
	if target < oven.MinOvenTemp || target > profile.MaxStageTemp {
		return fmt.Errorf("%w: target_temp_c must be in [%.1f, %.1f]", oven.ErrOutOfRange,
			oven.MinOvenTemp.Celsius(), profile.MaxStageTemp.Celsius())
	}

	s.plant.mu.Lock()
	prev := s.plant.ctl.State()
	err := s.plant.ctl.StartManualTemp(target)
	s.plant.mu.Unlock()
	if err != nil {
		return err
	}

	typ := models.EventStart
	if prev == oven.StateManualTemp {
		typ = models.EventModeChange
	}
	s.events.record(ctx, typ, "Manual temperature "+target.String(), map[string]any{"target_temp_c": target.Celsius()})
	return nil
}

// Stop turns the element off and opens the door. It always succeeds.
func (s *OvenService) Stop(ctx context.Context) error {
	s.plant.mu.Lock()
	prev := s.plant.ctl.State()
	elapsed := s.plant.ctl.Elapsed()
	s.plant.ctl.Stop()
	s.plant.mu.Unlock()

	s.events.record(ctx, models.EventStop, "Oven stopped", map[string]any{
		"from":      prev.String(),
		"elapsed_s": elapsed,
	})
	return nil
}
