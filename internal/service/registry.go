package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	nfotel "github.com/Strob0t/NetForge/internal/adapter/otel"
	"github.com/Strob0t/NetForge/internal/adapter/ws"
	"github.com/Strob0t/NetForge/internal/domain"
	"github.com/Strob0t/NetForge/internal/port/messagequeue"
	"github.com/Strob0t/NetForge/internal/port/plugin"
)

// entry is a registered component together with its capability profile. The
// kind is computed once at registration and never re-probed.
type entry struct {
	component plugin.Component
	kind      plugin.Kind
}

// Registry tracks the live plugin components of the controller. It implements
// TenantListener so tenant removal sweeps modules out of worker components.
//
// The registry lock nests inside the runtime lock; components must not call
// back into the registry from their hooks.
type Registry struct {
	events  *Events
	metrics *nfotel.Metrics

	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry creates an empty component registry. Events may be nil.
func NewRegistry(events *Events) *Registry {
	return &Registry{
		events:  events,
		entries: make(map[string]*entry),
	}
}

// UseMetrics installs the registry metric instruments.
func (g *Registry) UseMetrics(m *nfotel.Metrics) {
	g.metrics = m
}

// Register adds a constructed component under a canonical name, stamps the
// name onto it and invokes its start hook when present. A start-hook failure
// is returned to the caller but the component stays registered.
func (g *Registry) Register(ctx context.Context, name string, c plugin.Component) (err error) {
	defer func() { recordOp(ctx, g.metrics, "register_component", err) }()

	if name == "" {
		return fmt.Errorf("register component: name is required: %w", domain.ErrInvalidComponent)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.entries[name]; ok {
		return fmt.Errorf("register component %s: %w", name, domain.ErrDuplicate)
	}

	kind := plugin.Classify(c)
	c.SetName(name)
	g.entries[name] = &entry{component: c, kind: kind}

	if g.metrics != nil {
		g.metrics.ComponentsLive.Add(ctx, 1)
	}
	g.events.publish(ctx, messagequeue.SubjectComponentRegistered, ws.EventComponentRegistered,
		messagequeue.ComponentEventPayload{Name: name, Kind: kind.String()})

	slog.Info("component registered", "name", name, "kind", kind)

	if s, ok := c.(plugin.Starter); ok {
		if err := s.Start(); err != nil {
			return fmt.Errorf("start component %s: %w", name, err)
		}
	}
	return nil
}

// Launch constructs a component from the factory catalog and registers it
// under the given name.
func (g *Registry) Launch(ctx context.Context, name, factory string, params map[string]string) error {
	c, err := plugin.New(factory, params)
	if err != nil {
		return fmt.Errorf("launch component %s: %w", name, err)
	}
	return g.Register(ctx, name, c)
}

// Unregister tears down a removable component: modules first (workers only),
// then the component's own handlers, then the registry entry. A component
// without teardown capability cannot be unregistered.
func (g *Registry) Unregister(ctx context.Context, name string) (err error) {
	defer func() { recordOp(ctx, g.metrics, "unregister_component", err) }()

	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[name]
	if !ok {
		return fmt.Errorf("unregister component %s: %w", name, domain.ErrNotFound)
	}
	if e.kind == plugin.KindPlain {
		return fmt.Errorf("unregister component %s: no teardown capability: %w",
			name, domain.ErrInvalidComponent)
	}

	if e.kind == plugin.KindWorker {
		if err := sweepModules(e.component.(plugin.ModuleOwner), ""); err != nil {
			return fmt.Errorf("unregister component %s: %w", name, err)
		}
	}

	if err := e.component.(plugin.Removable).RemoveHandlers(); err != nil {
		return fmt.Errorf("unregister component %s: %w", name, err)
	}
	delete(g.entries, name)

	if g.metrics != nil {
		g.metrics.ComponentsLive.Add(ctx, -1)
	}
	g.events.publish(ctx, messagequeue.SubjectComponentUnregistered, ws.EventComponentUnregistered,
		messagequeue.ComponentEventPayload{Name: name, Kind: e.kind.String()})

	slog.Info("component unregistered", "name", name, "kind", e.kind)
	return nil
}

// TenantRemoved sweeps the modules of the removed tenant out of every worker
// component. Called by the runtime while it holds its write lock.
func (g *Registry) TenantRemoved(ctx context.Context, tenantID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for name, e := range g.entries {
		if e.kind != plugin.KindWorker {
			continue
		}
		if err := sweepModules(e.component.(plugin.ModuleOwner), tenantID); err != nil {
			return fmt.Errorf("sweep component %s: %w", name, err)
		}
	}
	return nil
}

// sweepModules removes the owner's modules, all of them when tenantID is
// empty or only those serving the given tenant otherwise. Module IDs are
// snapshotted first because removal mutates the collection.
func sweepModules(owner plugin.ModuleOwner, tenantID string) error {
	ids := make([]string, 0)
	for id, m := range owner.Modules() {
		if tenantID == "" || m.TenantID() == tenantID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := owner.RemoveModule(id); err != nil {
			return fmt.Errorf("remove module %s: %w", id, err)
		}
	}
	return nil
}

// ComponentInfo describes a registered component for listings.
type ComponentInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Component returns the registered component with the given name.
func (g *Registry) Component(name string) (plugin.Component, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, ok := g.entries[name]
	if !ok {
		return nil, fmt.Errorf("component %s: %w", name, domain.ErrNotFound)
	}
	return e.component, nil
}

// Components lists all registered components ordered by name.
func (g *Registry) Components() []ComponentInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]ComponentInfo, 0, len(g.entries))
	for name, e := range g.entries {
		out = append(out, ComponentInfo{Name: name, Kind: e.kind.String()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
