package repository

import (
	"context"
	"database/sql"
	"time"

	"reflow_oven/internal/models"
	"reflow_oven/internal/profile"
)

// Authorization stores operator credentials.
type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// SettingsRepo persists the single operator settings row.
type SettingsRepo interface {
	Save(ctx context.Context, s models.Settings) error
	// Load returns found=false when nothing has been saved yet.
	Load(ctx context.Context) (s models.Settings, found bool, err error)
}

// ProfileRepo persists the profile store as one blob.
type ProfileRepo interface {
	Save(ctx context.Context, snap profile.Snapshot) error
	Load(ctx context.Context) (snap profile.Snapshot, found bool, err error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.OvenEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.OvenEvent, error)
}

type Repository struct {
	Settings SettingsRepo
	Profiles ProfileRepo
	Events   EventRepo
	Auth     Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Settings: NewSettingsSQLite(db),
		Profiles: NewProfileSQLite(db),
		Events:   NewEventSQLite(db),
		Auth:     NewUserRepository(db),
	}
}
