// Package audit writes lifecycle events from the event bus to the log as a
// structured audit trail.
package audit

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/attendance-report/internal/core/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lifecycleEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "attendance_lifecycle_events_total",
		Help: "Report and account lifecycle events by type.",
	},
	[]string{"event_type"},
)

type Trail struct {
	logger *slog.Logger
}

// Register subscribes a trail to every lifecycle event on bus.
func Register(bus *events.EventBus, logger *slog.Logger) *Trail {
	t := &Trail{logger: logger.With("component", "audit")}
	bus.SubscribeAll(events.AllEventTypes, t.Handle)
	return t
}

func (t *Trail) Handle(ctx context.Context, e events.Event) error {
	lifecycleEventsTotal.WithLabelValues(e.EventType()).Inc()
	t.logger.InfoContext(ctx, "audit",
		"event_type", e.EventType(),
		"event_id", e.EventID(),
		"occurred_at", e.OccurredAt(),
		"data", e.Payload())
	return nil
}
