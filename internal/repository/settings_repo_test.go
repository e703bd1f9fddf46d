package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"reflow_oven/internal/models"
	"reflow_oven/internal/repository"
)

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}

func TestSettingsSQLite_Save_SetsUTCWhenTimeZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewSettingsSQLite(db)

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WithArgs(1, "fahrenheit", 40, 10, 5, isUTCRecent).
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := models.Settings{Units: "fahrenheit", Kp: 40, Ki: 10, Kd: 5}
	if err := repo.Save(context.Background(), s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettingsSQLite_Save_ConvertsGivenTimeToUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewSettingsSQLite(db)

	original := time.Date(2023, 10, 5, 12, 34, 56, 0, time.FixedZone("JST", 9*3600))
	isExactUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Equal(original) && tm.Location() == time.UTC
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WithArgs(1, "celsius", 1, 2, 3, isExactUTC).
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := models.Settings{Units: "celsius", Kp: 1, Ki: 2, Kd: 3, UpdatedAt: original}
	if err := repo.Save(context.Background(), s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettingsSQLite_Save_ExecErrorIsPropagated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewSettingsSQLite(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WillReturnError(errors.New("db down"))

	if err := repo.Save(context.Background(), models.Settings{Units: "celsius"}); err == nil {
		t.Fatalf("Save() expected error, got nil")
	}
}

func TestSettingsSQLite_Load(t *testing.T) {
	nonUTC := time.Date(2024, 2, 1, 8, 30, 0, 0, time.FixedZone("EST", -5*3600))
	cols := []string{"units", "kp", "ki", "kd", "updated_at"}

	tests := []struct {
		name      string
		expect    func(m sqlmock.Sqlmock)
		wantFound bool
		want      models.Settings
		wantErr   bool
	}{
		{
			name: "no_rows",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("SELECT units, kp, ki, kd, updated_at")).
					WithArgs(1).
					WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "happy_path",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("SELECT units, kp, ki, kd, updated_at")).
					WithArgs(1).
					WillReturnRows(sqlmock.NewRows(cols).AddRow("fahrenheit", 50, 12, 0, nonUTC))
			},
			wantFound: true,
			want:      models.Settings{Units: "fahrenheit", Kp: 50, Ki: 12, Kd: 0, UpdatedAt: nonUTC.UTC()},
		},
		{
			name: "query_error",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("SELECT units, kp, ki, kd, updated_at")).
					WithArgs(1).
					WillReturnError(errors.New("boom"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New(): %v", err)
			}
			defer db.Close()
			tt.expect(mock)

			got, found, err := repository.NewSettingsSQLite(db).Load(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() err = %v, wantErr %v", err, tt.wantErr)
			}
			if found != tt.wantFound {
				t.Fatalf("Load() found = %v, want %v", found, tt.wantFound)
			}
			if got != tt.want {
				t.Fatalf("Load() = %+v, want %+v", got, tt.want)
			}
			if got.UpdatedAt.Location() != time.UTC {
				t.Fatalf("Load() UpdatedAt not UTC: %v", got.UpdatedAt.Location())
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}
