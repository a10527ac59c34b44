package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func TestHub_BroadcastReachesClient(t *testing.T) {
	hub := NewHub()

	s := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer s.Close()

	url := "ws" + strings.TrimPrefix(s.URL, "http")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = c.Close(websocket.StatusNormalClosure, "") }()

	// Wait until the hub has registered the connection.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.BroadcastEvent(ctx, EventTenantRemoved, map[string]string{"tenant_id": "t1"})

	_, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != EventTenantRemoved {
		t.Fatalf("expected %s, got %s", EventTenantRemoved, msg.Type)
	}
}

func TestHub_ConnectionCountStartsAtZero(t *testing.T) {
	hub := NewHub()
	if n := hub.ConnectionCount(); n != 0 {
		t.Fatalf("expected 0 connections, got %d", n)
	}
}
