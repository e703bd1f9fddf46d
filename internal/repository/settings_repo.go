package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"reflow_oven/internal/models"
)

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite {
	return &SettingsSQLite{db: db}
}

const (
	settingsRowID = 1

	upsertSettingsSQL = `
		INSERT INTO settings (id, units, kp, ki, kd, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			units=excluded.units,
			kp=excluded.kp,
			ki=excluded.ki,
			kd=excluded.kd,
			updated_at=excluded.updated_at
	`

	selectSettingsSQL = `
		SELECT units, kp, ki, kd, updated_at
		FROM settings WHERE id=?
	`
)

// Save updates or inserts the settings row (id always 1).
func (r *SettingsSQLite) Save(ctx context.Context, s models.Settings) error {
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertSettingsSQL,
		settingsRowID,
		s.Units,
		s.Kp,
		s.Ki,
		s.Kd,
		ts,
	)
	return err
}

// Load fetches the settings row.
func (r *SettingsSQLite) Load(ctx context.Context) (models.Settings, bool, error) {
	var s models.Settings
	err := r.db.QueryRowContext(ctx, selectSettingsSQL, settingsRowID).Scan(
		&s.Units,
		&s.Kp,
		&s.Ki,
		&s.Kd,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Settings{}, false, nil
		}
		return models.Settings{}, false, err
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, true, nil
}
