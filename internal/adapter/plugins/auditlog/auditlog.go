// Package auditlog implements an app component that keeps a bounded in-memory
// trail of registry lifecycle events.
package auditlog

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Strob0t/NetForge/internal/port/plugin"
)

// DefaultCapacity bounds the trail when no capacity param is given.
const DefaultCapacity = 1024

// Entry is a single recorded event.
type Entry struct {
	At      time.Time `json:"at"`
	Subject string    `json:"subject"`
	Detail  string    `json:"detail"`
}

// AuditLog is an app component: removable, no modules. It records lifecycle
// events into a bounded ring; the oldest entries are dropped at capacity.
type AuditLog struct {
	plugin.Base

	capacity int

	mu      sync.Mutex
	entries []Entry
}

// New creates an audit trail with the given capacity.
func New(capacity int) *AuditLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &AuditLog{capacity: capacity}
}

// Start is the registration hook.
func (l *AuditLog) Start() error {
	slog.Info("audit log started", "name", l.Name(), "capacity", l.capacity)
	return nil
}

// Record appends an event to the trail.
func (l *AuditLog) Record(subject, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{At: time.Now(), Subject: subject, Detail: detail})
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// Entries returns a snapshot of the trail, oldest first.
func (l *AuditLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Handle is a messagequeue.Handler: it records every lifecycle subject the
// component is subscribed to.
func (l *AuditLog) Handle(subject string, data []byte) error {
	l.Record(subject, string(data))
	return nil
}

// RemoveHandlers drops the trail.
func (l *AuditLog) RemoveHandlers() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.entries)
	l.entries = nil

	slog.Info("audit log stopped", "name", l.Name(), "entries_dropped", n)
	return nil
}
