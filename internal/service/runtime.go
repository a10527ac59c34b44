// Package service implements the runtime registry and lifecycle coordinator.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	nfotel "github.com/Strob0t/NetForge/internal/adapter/otel"
	"github.com/Strob0t/NetForge/internal/domain/account"
	"github.com/Strob0t/NetForge/internal/domain/tenant"
	"github.com/Strob0t/NetForge/internal/port/cache"
	"github.com/Strob0t/NetForge/internal/port/database"
)

// TenantListener is notified synchronously after a tenant has been removed
// from memory and the store. The component registry implements it to sweep
// tenant-owned modules.
type TenantListener interface {
	TenantRemoved(ctx context.Context, tenantID string) error
}

// Runtime is the process-wide authority over accounts and tenants. It keeps
// the in-memory maps consistent with the backing store: every mutation commits
// to the store first and mirrors into memory only afterwards, so memory is
// never ahead of durable state.
//
// All mutating operations hold the write lock across the full
// store-then-mirror sequence. Lock order is Runtime before Registry;
// components must not call back into the runtime from their hooks.
type Runtime struct {
	store   database.Store
	events  *Events
	metrics *nfotel.Metrics

	pending    cache.Cache
	pendingTTL time.Duration

	mu        sync.RWMutex
	accounts  map[string]*account.Account
	tenants   map[string]*tenant.Tenant
	listeners []TenantListener
}

// NewRuntime creates a Runtime backed by the given store. Events may be nil.
func NewRuntime(store database.Store, events *Events) *Runtime {
	return &Runtime{
		store:    store,
		events:   events,
		accounts: make(map[string]*account.Account),
		tenants:  make(map[string]*tenant.Tenant),
	}
}

// UsePendingCache installs a read cache for single pending-request lookups.
// Only positive entries are cached; misses always fall through to the store.
func (r *Runtime) UsePendingCache(c cache.Cache, ttl time.Duration) {
	r.pending = c
	r.pendingTTL = ttl
}

// UseMetrics installs the registry metric instruments.
func (r *Runtime) UseMetrics(m *nfotel.Metrics) {
	r.metrics = m
}

// AddTenantListener registers a listener for tenant removals. Listeners are
// invoked in registration order while the runtime write lock is held.
func (r *Runtime) AddTenantListener(l TenantListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// defaultAccounts are created the first time the controller starts against an
// empty store: one administrator and two ordinary user accounts.
func defaultAccounts() []account.Account {
	return []account.Account{
		{Username: account.RootUsername, Password: "root", Role: account.RoleAdmin,
			Name: "Administrator", Email: "admin@netforge.local"},
		{Username: "foo", Password: "foo", Role: account.RoleUser,
			Name: "Foo", Email: "foo@netforge.local"},
		{Username: "bar", Password: "bar", Role: account.RoleUser,
			Name: "Bar", Email: "bar@netforge.local"},
	}
}

// Bootstrap seeds the default accounts when the store is empty, then loads
// all persisted accounts and tenants into memory. Idempotent: a non-empty
// store is left untouched.
func (r *Runtime) Bootstrap(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, err := r.store.CountAccounts(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	if n == 0 {
		slog.Info("generating default accounts")
		if err := r.store.CreateAccounts(ctx, defaultAccounts()); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}

	if err := r.loadAccounts(ctx); err != nil {
		return err
	}
	return r.loadTenants(ctx)
}

// loadAccounts populates the in-memory account map from the store.
// Caller holds the write lock.
func (r *Runtime) loadAccounts(ctx context.Context) error {
	accounts, err := r.store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	for i := range accounts {
		a := accounts[i]
		r.accounts[a.Username] = &a
	}

	slog.Info("accounts loaded", "count", len(r.accounts))
	return nil
}

// loadTenants populates the in-memory tenant map from the store. A duplicate
// tenant ID in the store aborts the load.
// Caller holds the write lock.
func (r *Runtime) loadTenants(ctx context.Context) error {
	tenants, err := r.store.ListTenants(ctx)
	if err != nil {
		return fmt.Errorf("load tenants: %w", err)
	}

	for i := range tenants {
		t := tenants[i]
		if _, ok := r.tenants[t.ID]; ok {
			return fmt.Errorf("load tenants: duplicate tenant id %s", t.ID)
		}
		r.tenants[t.ID] = &t
	}

	slog.Info("tenants loaded", "count", len(r.tenants))
	return nil
}

// notifyTenantRemoved fans out to listeners in registration order. The first
// listener error aborts the remaining fan-out.
// Caller holds the write lock.
func (r *Runtime) notifyTenantRemoved(ctx context.Context, tenantID string) error {
	for _, l := range r.listeners {
		if err := l.TenantRemoved(ctx, tenantID); err != nil {
			return err
		}
	}
	return nil
}

// sortTenants orders tenants by name, then by ID for equal names.
func sortTenants(ts []tenant.Tenant) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Name != ts[j].Name {
			return ts[i].Name < ts[j].Name
		}
		return ts[i].ID < ts[j].ID
	})
}

// sortedUsernames returns the account usernames in lexical order.
// Caller holds at least the read lock.
func (r *Runtime) sortedUsernames() []string {
	names := make([]string, 0, len(r.accounts))
	for name := range r.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
