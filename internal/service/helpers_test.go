package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"reflow_oven/internal/models"
	"reflow_oven/internal/oven"
	"reflow_oven/internal/pid"
	"reflow_oven/internal/profile"
	"reflow_oven/internal/telemetry"
	"reflow_oven/internal/thermo"
)

type stubOven struct {
	temp  thermo.Temperature
	power uint8
	door  uint8
}

func (o *stubOven) SetPowerLevel(p uint8)           { o.power = p }
func (o *stubOven) SetDoorOpening(p uint8)          { o.door = p }
func (o *stubOven) Temperature() thermo.Temperature { return o.temp }
func (o *stubOven) PowerLevel() uint8               { return o.power }
func (o *stubOven) DoorOpening() uint8              { return o.door }

type stubClock struct{ ms uint64 }

func (c *stubClock) NowMs() uint64 { return c.ms }

func (c *stubClock) advance(d time.Duration) { c.ms += uint64(d.Milliseconds()) }

// memEventRepo is an in-memory repository.EventRepo.
type memEventRepo struct {
	mu        sync.Mutex
	events    []models.OvenEvent
	appendErr error
}

func (r *memEventRepo) Append(_ context.Context, e models.OvenEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.events = append(r.events, e)
	return nil
}

func (r *memEventRepo) List(_ context.Context, _, _ time.Time, typ string) ([]models.OvenEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.OvenEvent
	for _, e := range r.events {
		if typ == "" || e.Type == typ {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// memProfileRepo is an in-memory repository.ProfileRepo.
type memProfileRepo struct {
	snap    profile.Snapshot
	found   bool
	loadErr error
	saveErr error
	saves   int
}

func (r *memProfileRepo) Save(_ context.Context, snap profile.Snapshot) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.snap, r.found = snap, true
	r.saves++
	return nil
}

func (r *memProfileRepo) Load(context.Context) (profile.Snapshot, bool, error) {
	return r.snap, r.found, r.loadErr
}

// memSettingsRepo is an in-memory repository.SettingsRepo.
type memSettingsRepo struct {
	s       models.Settings
	found   bool
	loadErr error
	saveErr error
}

func (r *memSettingsRepo) Save(_ context.Context, s models.Settings) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.s, r.found = s, true
	return nil
}

func (r *memSettingsRepo) Load(context.Context) (models.Settings, bool, error) {
	return r.s, r.found, r.loadErr
}

type testRig struct {
	plant  *Plant
	oven   *stubOven
	clock  *stubClock
	pid    *pid.PID
	events *memEventRepo
	pub    *telemetry.FakePublisher
	rec    *eventRecorder
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	r := &testRig{
		oven:   &stubOven{temp: 250, door: 100},
		clock:  &stubClock{ms: 1000},
		events: &memEventRepo{},
		pub:    telemetry.NewFakePublisher(),
	}
	r.pid = pid.New(r.clock, pid.DefaultParams)
	ctl := oven.New(r.oven, r.pid, r.clock, nil)
	r.plant = NewPlant(ctl, r.oven, r.pid, profile.DefaultStore())
	r.rec = newEventRecorder(r.events, r.pub, nil)
	return r
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func thermoOf(v int16) thermo.Temperature { return thermo.Temperature(v) }
