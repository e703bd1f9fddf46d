package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reflow_oven/internal/logger"
	"reflow_oven/internal/models"
	"reflow_oven/internal/repository"
	"reflow_oven/internal/telemetry"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = fmt.Errorf("%w: time range From must be <= To", ErrInvalidInput)
	errUnknownEventType = fmt.Errorf("%w: unknown event type", ErrInvalidInput)
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time
// range and event type.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	if eventType != "" && !models.IsEventType(eventType) {
		return time.Time{}, time.Time{}, "", fmt.Errorf("%w %q, want one of %s",
			errUnknownEventType, eventType, strings.Join(models.EventTypes, ", "))
	}
	return from, to, eventType, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.OvenEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}

// eventRecorder appends events to the log and mirrors them to telemetry.
// Failures are logged and never fail the operation that produced the event.
type eventRecorder struct {
	repo repository.EventRepo
	pub  telemetry.Publisher
	log  *logger.Logger
}

func newEventRecorder(repo repository.EventRepo, pub telemetry.Publisher, log *logger.Logger) *eventRecorder {
	if pub == nil {
		pub = telemetry.NopPublisher{}
	}
	return &eventRecorder{repo: repo, pub: pub, log: logger.OrNop(log)}
}

func (r *eventRecorder) record(ctx context.Context, typ, desc string, meta map[string]any) {
	e := models.OvenEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: desc,
	}
	if meta != nil {
		e.Metadata = meta
	}
	r.append(ctx, e)
}

func (r *eventRecorder) append(ctx context.Context, e models.OvenEvent) {
	if err := r.repo.Append(ctx, e); err != nil {
		r.log.Errorw("event_append_failed", "type", e.Type, "err", err)
	}
	if err := r.pub.PublishEvent(e); err != nil {
		r.log.Warnw("event_publish_failed", "type", e.Type, "err", err)
	}
}
