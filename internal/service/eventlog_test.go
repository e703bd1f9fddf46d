package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reflow_oven/internal/models"
	"reflow_oven/internal/oven"
)

// recordingEventRepo captures the parameters List was called with.
type recordingEventRepo struct {
	gotFrom time.Time
	gotTo   time.Time
	gotType string
	calls   int

	events []models.OvenEvent
	err    error
}

func (f *recordingEventRepo) Append(context.Context, models.OvenEvent) error { return nil }

func (f *recordingEventRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.OvenEvent, error) {
	f.calls++
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return f.events, f.err
}

func Test_normalizeEventType(t *testing.T) {
	t.Parallel()

	for _, typ := range models.EventTypes {
		for _, in := range []string{typ, strings.ToLower(typ), "  " + strings.ToLower(typ) + "\t"} {
			if got := normalizeEventType(in); got != typ {
				t.Fatalf("normalizeEventType(%q) = %q; want %q", in, got, typ)
			}
		}
	}
	if got := normalizeEventType("   "); got != "" {
		t.Fatalf("blank type should normalize to empty, got %q", got)
	}
}

func Test_normalizeAndValidateFilter(t *testing.T) {
	t.Parallel()

	cet := time.FixedZone("CET", 3600)
	tests := []struct {
		name     string
		in       LogFilter
		wantFrom time.Time
		wantTo   time.Time
		wantType string
		wantErr  error
	}{
		{name: "empty_filter", in: LogFilter{}},
		{
			name:     "reflow_window_in_local_time",
			in:       LogFilter{From: time.Date(2025, 9, 10, 10, 0, 0, 0, cet), To: time.Date(2025, 9, 10, 10, 12, 0, 0, cet), Type: "complete"},
			wantFrom: time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 9, 10, 9, 12, 0, 0, time.UTC),
			wantType: models.EventComplete,
		},
		{name: "settings_changes_only", in: LogFilter{Type: " Settings_Change "}, wantType: models.EventSettingsChange},
		{
			name: "inverted_range",
			in: LogFilter{
				From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
				Type: "profile_change",
			},
			wantErr: errInvalidTimeRange,
		},
		{name: "not_an_oven_event", in: LogFilter{Type: "preheat"}, wantErr: errUnknownEventType},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			from, to, typ, err := normalizeAndValidateFilter(tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v; want %v", err, tc.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("validation errors must wrap ErrInvalidInput, got %v", err)
				}
				return
			}
			if !from.Equal(tc.wantFrom) || !to.Equal(tc.wantTo) || typ != tc.wantType {
				t.Fatalf("got (%v, %v, %q); want (%v, %v, %q)", from, to, typ, tc.wantFrom, tc.wantTo, tc.wantType)
			}
			if !from.IsZero() && from.Location() != time.UTC {
				t.Fatalf("from not in UTC: %v", from.Location())
			}
		})
	}
}

func TestEventLogService_List_DelegatesNormalizedParams(t *testing.T) {
	repo := &recordingEventRepo{events: []models.OvenEvent{{EventID: "1", Type: models.EventProfileChange}}}
	svc := NewEventLogService(repo)

	out, err := svc.List(context.Background(), LogFilter{
		From: time.Date(2025, 10, 1, 10, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)),
		Type: " profile_change ",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 1 || repo.calls != 1 {
		t.Fatalf("events=%d calls=%d", len(out), repo.calls)
	}
	if want := time.Date(2025, 10, 1, 5, 0, 0, 0, time.UTC); !repo.gotFrom.Equal(want) {
		t.Fatalf("from = %v; want %v", repo.gotFrom, want)
	}
	if !repo.gotTo.IsZero() || repo.gotType != models.EventProfileChange {
		t.Fatalf("to=%v type=%q", repo.gotTo, repo.gotType)
	}
}

func TestEventLogService_List_Rejections(t *testing.T) {
	repo := &recordingEventRepo{}
	svc := NewEventLogService(repo)

	if _, err := svc.List(context.Background(), LogFilter{Type: "door_open"}); !errors.Is(err, errUnknownEventType) {
		t.Fatalf("expected errUnknownEventType, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("repo must not be queried for an invalid filter")
	}

	repo.err = errors.New("database is locked")
	if _, err := svc.List(context.Background(), LogFilter{}); !errors.Is(err, repo.err) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

// A session touching every operation: each event type must come back from
// the log when filtered by its (lowercase) name.
func TestEventLogService_List_OvenSession(t *testing.T) {
	r := newTestRig(t)
	ctx := context.Background()
	ovenSvc := NewOvenService(r.plant, r.rec)
	profiles := NewProfilesService(r.plant, &memProfileRepo{}, r.rec)
	settings := NewSettingsService(r.plant, &memSettingsRepo{}, r.rec, nil)
	runner := newTestRunner(r, time.Hour)
	now := time.Now()

	if _, err := profiles.Add(ctx); err != nil {
		t.Fatalf("Add profile: %v", err)
	}
	if _, err := settings.UpdateSettings(ctx, SettingsParams{Units: "fahrenheit", Kp: 40, Ki: 10, Kd: 5}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	if err := ovenSvc.StartBake(ctx, BakeParams{DurationSec: 60, TargetTempC: 100}); err != nil {
		t.Fatalf("StartBake: %v", err)
	}
	r.clock.advance(61 * time.Second)
	runner.step(ctx, now)
	if r.plant.ctl.State() != oven.StateStopped {
		t.Fatalf("bake did not complete")
	}

	for _, level := range []int{50, 70} {
		if err := ovenSvc.StartManualPower(ctx, level); err != nil {
			t.Fatalf("StartManualPower(%d): %v", level, err)
		}
	}
	if err := ovenSvc.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if err := ovenSvc.StartManualPower(ctx, 100); err != nil {
		t.Fatalf("StartManualPower(100): %v", err)
	}
	r.oven.temp = oven.MaxOvenTemp + 1
	runner.step(ctx, now.Add(time.Second))

	want := map[string]int{
		models.EventStart:          3,
		models.EventStop:           1,
		models.EventComplete:       1,
		models.EventError:          1,
		models.EventModeChange:     1,
		models.EventProfileChange:  1,
		models.EventSettingsChange: 1,
	}
	log := NewEventLogService(r.events)
	for _, typ := range models.EventTypes {
		got, err := log.List(ctx, LogFilter{Type: strings.ToLower(typ)})
		if err != nil {
			t.Fatalf("List(%s): %v", typ, err)
		}
		if len(got) != want[typ] {
			t.Fatalf("%s events = %d, want %d (all: %v)", typ, len(got), want[typ], r.events.types())
		}
		for _, e := range got {
			if e.Type != typ || e.EventID == "" || e.OccurredAt.IsZero() {
				t.Fatalf("malformed %s event: %+v", typ, e)
			}
		}
	}

	all, err := log.List(ctx, LogFilter{})
	if err != nil {
		t.Fatalf("List(all): %v", err)
	}
	if len(all) != 9 {
		t.Fatalf("total events = %d, want 9", len(all))
	}
	if done := all[3]; done.Type != models.EventComplete || done.Description != "Bake finished" {
		t.Fatalf("completion event out of order or mislabeled: %+v", done)
	}
}
