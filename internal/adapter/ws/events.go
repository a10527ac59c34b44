package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event type constants for WebSocket messages. They mirror the lifecycle
// subjects published to the message queue.
const (
	EventAccountCreated = "account.created"
	EventAccountRemoved = "account.removed"

	EventTenantCreated   = "tenant.created"
	EventTenantRequested = "tenant.requested"
	EventTenantApproved  = "tenant.approved"
	EventTenantRejected  = "tenant.rejected"
	EventTenantRemoved   = "tenant.removed"

	EventComponentRegistered   = "component.registered"
	EventComponentUnregistered = "component.unregistered"
)

// BroadcastEvent marshals a typed event and broadcasts it to all clients.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
