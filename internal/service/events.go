package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	nfotel "github.com/Strob0t/NetForge/internal/adapter/otel"
	"github.com/Strob0t/NetForge/internal/port/broadcast"
	"github.com/Strob0t/NetForge/internal/port/messagequeue"
)

// Events mirrors registry lifecycle transitions to the message queue and the
// WebSocket broadcaster. The synchronous registry path is authoritative:
// publish failures are logged, never surfaced to the caller. Both fields may
// be nil.
type Events struct {
	Queue       messagequeue.Queue
	Broadcaster broadcast.Broadcaster
}

// publish sends the payload to the queue subject and broadcasts it under the
// given event type, best-effort.
func (e *Events) publish(ctx context.Context, subject, eventType string, payload any) {
	if e == nil {
		return
	}

	if e.Queue != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			slog.Error("marshal lifecycle event", "subject", subject, "error", err)
		} else if err := e.Queue.Publish(ctx, subject, data); err != nil {
			slog.Warn("publish lifecycle event", "subject", subject, "error", err)
		}
	}

	if e.Broadcaster != nil {
		e.Broadcaster.BroadcastEvent(ctx, eventType, payload)
	}
}

// recordOp counts a registry operation on the metrics instrument, tagged with
// its name and outcome. Nil-safe.
func recordOp(ctx context.Context, m *nfotel.Metrics, op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}
