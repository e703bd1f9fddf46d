package service

import (
	"context"
	"time"

	"reflow_oven/internal/logger"
	"reflow_oven/internal/models"
	"reflow_oven/internal/oven"
	"reflow_oven/internal/telemetry"
)

// RunnerService drives the oven controller at a fixed cadence and publishes
// periodic status telemetry.
type RunnerService struct {
	plant    *Plant
	events   *eventRecorder
	pub      telemetry.Publisher
	interval time.Duration
	log      *logger.Logger

	lastPublish time.Time
}

// NewRunnerService returns a runner publishing status every interval.
func NewRunnerService(plant *Plant, events *eventRecorder, pub telemetry.Publisher, interval time.Duration, log *logger.Logger) *RunnerService {
	if pub == nil {
		pub = telemetry.NopPublisher{}
	}
	return &RunnerService{
		plant:    plant,
		events:   events,
		pub:      pub,
		interval: interval,
		log:      logger.OrNop(log),
	}
}

// Run ticks at the given interval until ctx is canceled, then stops the oven.
func (r *RunnerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return
		case now := <-t.C:
			r.step(ctx, now)
		}
	}
}

// step runs one controller tick and reports what happened.
func (r *RunnerService) step(ctx context.Context, now time.Time) {
	r.plant.mu.Lock()
	prev := r.plant.ctl.State()
	res, err := r.plant.ctl.Process()
	cur := r.plant.ctl.State()
	pending := r.plant.takePendingLocked()

	var status *models.OvenStatus
	if r.interval > 0 && now.Sub(r.lastPublish) >= r.interval {
		st := r.plant.statusLocked()
		status = &st
		r.lastPublish = now
	}
	r.plant.mu.Unlock()

	switch {
	case err != nil:
		r.log.Warnw("oven_fault_stop", "state", prev.String(), "err", err)
		r.events.record(ctx, models.EventError, "Oven stopped: "+err.Error(), map[string]any{
			"state": prev.String(),
			"fault": faultCode(err),
		})
	case res == oven.ResultRunning && prev != cur:
		r.events.record(ctx, models.EventModeChange, "Phase changed to "+cur.String(), map[string]any{
			"from": prev.String(),
			"to":   cur.String(),
		})
	}

	for _, e := range pending {
		r.events.append(ctx, e)
	}

	if status != nil {
		if err := r.pub.PublishStatus(*status); err != nil {
			r.log.Debugw("status_publish_failed", "err", err)
		}
	}
}

func (r *RunnerService) shutdown() {
	r.plant.mu.Lock()
	running := r.plant.ctl.State().Running()
	r.plant.ctl.Stop()
	r.plant.mu.Unlock()

	if running {
		// ctx is already canceled; record with a short-lived one.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		r.events.record(ctx, models.EventStop, "Oven stopped on shutdown", nil)
	}
}
