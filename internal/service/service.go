package service

import (
	"context"
	"time"

	"reflow_oven/internal/logger"
	"reflow_oven/internal/models"
	"reflow_oven/internal/profile"
	"reflow_oven/internal/repository"
	"reflow_oven/internal/telemetry"
)

// Authorization handles operator accounts and bearer tokens.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Oven exposes the operating commands. Start commands fail with
// oven.ErrBusy, oven.ErrTooHot or oven.ErrOutOfRange.
type Oven interface {
	StartBake(ctx context.Context, p BakeParams) error
	StartReflow(ctx context.Context) error
	StartManualPower(ctx context.Context, level int) error
	StartManualTemp(ctx context.Context, targetC float64) error
	Stop(ctx context.Context) error
}

// Monitoring exposes the live oven status.
type Monitoring interface {
	GetStatus(ctx context.Context) (models.OvenStatus, error)
}

// Profiles manages the bounded reflow profile store.
type Profiles interface {
	List(ctx context.Context) (ProfileList, error)
	Get(ctx context.Context, idx int) (ProfileDetail, error)
	Add(ctx context.Context) (int, error)
	Update(ctx context.Context, idx int, p profile.Profile) error
	Delete(ctx context.Context, idx int) error
	Activate(ctx context.Context, idx int) error
}

// Settings manages persisted operator settings.
type Settings interface {
	ApplyStored(ctx context.Context) error
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, p SettingsParams) (models.Settings, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.OvenEvent, error)
}

// Runner drives the oven controller in the background.
// Stop via context cancellation in main() for graceful shutdown.
type Runner interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Oven          Oven
	Monitoring    Monitoring
	Profiles      Profiles
	Settings      Settings
	EventLog      EventLog
	Runner        Runner
	Authorization Authorization
}

// Deps are the collaborators NewService wires together.
type Deps struct {
	Repos     *repository.Repository
	Plant     *Plant
	Publisher telemetry.Publisher
	Log       *logger.Logger

	StatusInterval time.Duration
	SigningKey     string
	TokenTTL       time.Duration
}

// NewService wires the repository layer and the plant into concrete services.
func NewService(d Deps) *Service {
	events := newEventRecorder(d.Repos.Events, d.Publisher, d.Log)
	return &Service{
		Oven:          NewOvenService(d.Plant, events),
		Monitoring:    NewMonitoringService(d.Plant),
		Profiles:      NewProfilesService(d.Plant, d.Repos.Profiles, events),
		Settings:      NewSettingsService(d.Plant, d.Repos.Settings, events, d.Log),
		EventLog:      NewEventLogService(d.Repos.Events),
		Runner:        NewRunnerService(d.Plant, events, d.Publisher, d.StatusInterval, d.Log),
		Authorization: NewAuthService(d.Repos.Auth, d.SigningKey, d.TokenTTL),
	}
}
