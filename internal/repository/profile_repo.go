package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reflow_oven/internal/profile"
)

type ProfileSQLite struct {
	db *sql.DB
}

func NewProfileSQLite(db *sql.DB) *ProfileSQLite {
	return &ProfileSQLite{db: db}
}

const (
	profileStoreRowID = 1

	upsertProfilesSQL = `
		INSERT INTO profile_store (id, active, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			active=excluded.active,
			data=excluded.data,
			updated_at=excluded.updated_at
	`

	selectProfilesSQL = `SELECT active, data FROM profile_store WHERE id=?`
)

// Save writes the whole profile store.
func (r *ProfileSQLite) Save(ctx context.Context, snap profile.Snapshot) error {
	data, err := json.Marshal(snap.Profiles)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	_, err = r.db.ExecContext(ctx, upsertProfilesSQL,
		profileStoreRowID,
		snap.Active,
		string(data),
		time.Now().UTC(),
	)
	return err
}

// Load reads the stored profile blob. The snapshot is not validated here.
func (r *ProfileSQLite) Load(ctx context.Context) (profile.Snapshot, bool, error) {
	var (
		snap profile.Snapshot
		data string
	)
	err := r.db.QueryRowContext(ctx, selectProfilesSQL, profileStoreRowID).Scan(&snap.Active, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profile.Snapshot{}, false, nil
		}
		return profile.Snapshot{}, false, err
	}
	if err := json.Unmarshal([]byte(data), &snap.Profiles); err != nil {
		return profile.Snapshot{}, false, fmt.Errorf("unmarshal profiles: %w", err)
	}
	return snap, true, nil
}
