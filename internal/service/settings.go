package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"reflow_oven/internal/logger"
	"reflow_oven/internal/models"
	"reflow_oven/internal/pid"
	"reflow_oven/internal/repository"
	"reflow_oven/internal/thermo"
)

// maxPIDParam is the largest accepted stored gain.
const maxPIDParam = 30000

type SettingsService struct {
	mu     sync.Mutex
	plant  *Plant
	repo   repository.SettingsRepo
	events *eventRecorder
	log    *logger.Logger
}

func NewSettingsService(plant *Plant, repo repository.SettingsRepo, events *eventRecorder, log *logger.Logger) *SettingsService {
	return &SettingsService{plant: plant, repo: repo, events: events, log: logger.OrNop(log)}
}

// ApplyStored loads persisted settings into the live plant. Missing or
// invalid settings leave the defaults in place.
func (s *SettingsService) ApplyStored(ctx context.Context) error {
	st, found, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !found {
		return nil
	}
	p, err := validateSettings(SettingsParams{Units: st.Units, Kp: int(st.Kp), Ki: int(st.Ki), Kd: int(st.Kd)})
	if err != nil {
		s.log.Warnw("stored_settings_invalid", "err", err)
		return nil
	}
	s.apply(thermo.Unit(st.Units), p)
	return nil
}

func (s *SettingsService) GetSettings(ctx context.Context) (models.Settings, error) {
	s.plant.mu.Lock()
	defer s.plant.mu.Unlock()
	p := s.plant.tuner.Params()
	return models.Settings{Units: string(s.plant.units), Kp: p.Kp, Ki: p.Ki, Kd: p.Kd}, nil
}

// UpdateSettings validates, persists and applies new settings. PID gains
// take effect on the next regulator sample.
func (s *SettingsService) UpdateSettings(ctx context.Context, in SettingsParams) (models.Settings, error) {
	in.Units = strings.ToLower(strings.TrimSpace(in.Units))
	p, err := validateSettings(in)
	if err != nil {
		return models.Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := models.Settings{Units: in.Units, Kp: p.Kp, Ki: p.Ki, Kd: p.Kd, UpdatedAt: time.Now().UTC()}
	if err := s.repo.Save(ctx, out); err != nil {
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.apply(thermo.Unit(in.Units), p)

	s.events.record(ctx, models.EventSettingsChange, "Settings updated", map[string]any{
		"units": out.Units,
		"kp":    out.Kp,
		"ki":    out.Ki,
		"kd":    out.Kd,
	})
	return out, nil
}

func (s *SettingsService) apply(u thermo.Unit, p pid.Params) {
	s.plant.mu.Lock()
	defer s.plant.mu.Unlock()
	s.plant.units = u
	s.plant.tuner.SetParams(p)
}

func validateSettings(in SettingsParams) (pid.Params, error) {
	if !thermo.Unit(in.Units).Valid() {
		return pid.Params{}, fmt.Errorf("%w: units must be celsius or fahrenheit", ErrInvalidInput)
	}
	for _, g := range []struct {
		name string
		v    int
	}{{"kp", in.Kp}, {"ki", in.Ki}, {"kd", in.Kd}} {
		if g.v < 0 || g.v > maxPIDParam {
			return pid.Params{}, fmt.Errorf("%w: %s must be in [0, %d]", ErrInvalidInput, g.name, maxPIDParam)
		}
	}
	return pid.Params{Kp: uint16(in.Kp), Ki: uint16(in.Ki), Kd: uint16(in.Kd)}, nil
}
