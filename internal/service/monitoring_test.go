package service

import (
	"context"
	"testing"
)

func TestMonitoringService_GetStatus(t *testing.T) {
	r := newTestRig(t)
	svc := NewMonitoringService(r.plant)

	st, err := svc.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.State != "stopped" || st.IsRunning || st.CurrentTempC != 25 || st.TargetTempC != nil {
		t.Fatalf("unexpected idle status: %+v", st)
	}
	if st.Display != "25.0°C" {
		t.Fatalf("display = %q", st.Display)
	}

	if err := NewOvenService(r.plant, r.rec).StartBake(context.Background(), BakeParams{DurationSec: 600, TargetTempC: 120}); err != nil {
		t.Fatalf("StartBake: %v", err)
	}
	r.clock.advance(5e9)

	st, _ = svc.GetStatus(context.Background())
	if st.State != "baking" || !st.IsRunning || st.ElapsedSeconds != 5 {
		t.Fatalf("unexpected bake status: %+v", st)
	}
	if st.TargetTempC == nil || *st.TargetTempC != 120 {
		t.Fatalf("target = %v, want 120", st.TargetTempC)
	}
	if st.PowerLevel != 50 || st.DoorOpening != 0 {
		t.Fatalf("power=%d door=%d", st.PowerLevel, st.DoorOpening)
	}
}

func TestMonitoringService_GetStatus_FahrenheitDisplay(t *testing.T) {
	r := newTestRig(t)
	r.plant.units = "fahrenheit"
	st, err := NewMonitoringService(r.plant).GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.Display != "77.0°F" {
		t.Fatalf("display = %q, want 77.0°F", st.Display)
	}
}

func TestMonitoringService_GetStatus_CanceledContext(t *testing.T) {
	r := newTestRig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMonitoringService(r.plant).GetStatus(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
