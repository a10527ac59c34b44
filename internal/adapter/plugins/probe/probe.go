// Package probe implements a worker component that runs periodic reachability
// probes as tenant-owned modules.
package probe

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/NetForge/internal/port/plugin"
	"github.com/Strob0t/NetForge/internal/resilience"
)

// DefaultInterval is the probe tick used when no interval param is given.
const DefaultInterval = 30 * time.Second

// module is a single reachability probe bound to a tenant.
type module struct {
	id       string
	tenantID string
	target   string
}

func (m *module) ModuleID() string { return m.id }
func (m *module) TenantID() string { return m.tenantID }

// DefaultConcurrency bounds how many probes fire at once per tick.
const DefaultConcurrency = 4

// Probe is a worker component: it owns a keyed collection of probe modules
// and ticks them on a fixed interval. Concurrent probes within a tick are
// bounded by a shared limiter.
type Probe struct {
	plugin.Base

	interval time.Duration
	limiter  *resilience.Limiter

	mu      sync.Mutex
	modules map[string]plugin.Module
	stop    chan struct{}
	done    chan struct{}
}

// New creates a probe worker with the given tick interval.
func New(interval time.Duration) *Probe {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Probe{
		interval: interval,
		limiter:  resilience.NewLimiter(DefaultConcurrency),
		modules:  make(map[string]plugin.Module),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the tick loop. Invoked once by the registry.
func (p *Probe) Start() error {
	go p.loop()
	slog.Info("probe worker started", "name", p.Name(), "interval", p.interval)
	return nil
}

func (p *Probe) loop() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick fires every registered probe, at most DefaultConcurrency at a time.
// Probing is a log line here; transports hang off the module in deployments
// that wire them.
func (p *Probe) tick() {
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, m := range p.Modules() {
		pm := m.(*module)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.limiter.Run(ctx, func() error {
				slog.Debug("probe tick", "worker", p.Name(), "module", pm.id,
					"tenant", pm.tenantID, "target", pm.target)
				return nil
			})
		}()
	}
	wg.Wait()
}

// AddProbe registers a new probe module for a tenant and returns its ID.
func (p *Probe) AddProbe(tenantID, target string) (string, error) {
	if tenantID == "" || target == "" {
		return "", errors.New("probe: tenant and target are required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	m := &module{id: uuid.NewString(), tenantID: tenantID, target: target}
	p.modules[m.id] = m

	slog.Info("probe module added", "worker", p.Name(), "module", m.id, "tenant", tenantID)
	return m.id, nil
}

// Modules returns a snapshot of the live module collection.
func (p *Probe) Modules() map[string]plugin.Module {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]plugin.Module, len(p.modules))
	for id, m := range p.modules {
		out[id] = m
	}
	return out
}

// RemoveModule tears down a single probe module.
func (p *Probe) RemoveModule(moduleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.modules[moduleID]; !ok {
		return errors.New("probe: no such module " + moduleID)
	}
	delete(p.modules, moduleID)

	slog.Info("probe module removed", "worker", p.Name(), "module", moduleID)
	return nil
}

// RemoveHandlers stops the tick loop. Invoked by the registry after all
// modules have been removed.
func (p *Probe) RemoveHandlers() error {
	close(p.stop)
	<-p.done

	slog.Info("probe worker stopped", "name", p.Name())
	return nil
}
