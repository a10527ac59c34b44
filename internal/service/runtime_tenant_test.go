package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Strob0t/NetForge/internal/domain"
	"github.com/Strob0t/NetForge/internal/domain/tenant"
)

// memCache is a trivial map-backed cache for exercising the pending read path.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func TestAddTenantRejectsUnknownOwner(t *testing.T) {
	rt := bootstrapped(t, newMockStore())

	_, err := rt.AddTenant(context.Background(), tenant.CreateRequest{Name: "net", Owner: "nobody"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddTenantDuplicateName(t *testing.T) {
	rt := bootstrapped(t, newMockStore())
	ctx := context.Background()

	if _, err := rt.AddTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "foo"}); err != nil {
		t.Fatalf("AddTenant: %v", err)
	}
	_, err := rt.AddTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "bar"})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAddTenantDuplicateID(t *testing.T) {
	rt := bootstrapped(t, newMockStore())
	ctx := context.Background()

	id, err := rt.AddTenant(ctx, tenant.CreateRequest{ID: "fixed", Name: "net-a", Owner: "foo"})
	if err != nil {
		t.Fatalf("AddTenant: %v", err)
	}
	if _, err := rt.AddTenant(ctx, tenant.CreateRequest{ID: id, Name: "net-b", Owner: "bar"}); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAddTenantRejectsIDPendingElsewhere(t *testing.T) {
	store := newMockStore()
	rt := bootstrapped(t, store)
	ctx := context.Background()

	id, err := rt.RequestTenant(ctx, tenant.CreateRequest{ID: "shared-id", Name: "net-a", Owner: "foo"})
	if err != nil {
		t.Fatalf("RequestTenant: %v", err)
	}
	if _, err := rt.AddTenant(ctx, tenant.CreateRequest{ID: id, Name: "net-b", Owner: "bar"}); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, ok := store.tenants[id]; ok {
		t.Fatal("live tenant created despite pending request holding the ID")
	}
}

func TestAddTenantRejectsNamePendingElsewhere(t *testing.T) {
	store := newMockStore()
	rt := bootstrapped(t, store)
	ctx := context.Background()

	if _, err := rt.RequestTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "foo"}); err != nil {
		t.Fatalf("RequestTenant: %v", err)
	}
	_, err := rt.AddTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "bar"})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRequestTenantRejectsLiveName(t *testing.T) {
	rt := bootstrapped(t, newMockStore())
	ctx := context.Background()

	if _, err := rt.AddTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "foo"}); err != nil {
		t.Fatalf("AddTenant: %v", err)
	}
	_, err := rt.RequestTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "bar"})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRequestApproveFlow(t *testing.T) {
	store := newMockStore()
	rt := bootstrapped(t, store)
	ctx := context.Background()

	id, err := rt.RequestTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "foo", Description: "lab"})
	if err != nil {
		t.Fatalf("RequestTenant: %v", err)
	}

	// The request is pending, not live.
	if _, err := rt.Tenant(id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("pending request appeared live: err=%v", err)
	}
	p, err := rt.PendingTenant(ctx, id)
	if err != nil {
		t.Fatalf("PendingTenant: %v", err)
	}
	if p.Name != "net" || p.Owner != "foo" {
		t.Errorf("pending = %+v", p)
	}

	if err := rt.ApproveTenant(ctx, id); err != nil {
		t.Fatalf("ApproveTenant: %v", err)
	}

	got, err := rt.Tenant(id)
	if err != nil {
		t.Fatalf("Tenant after approve: %v", err)
	}
	if got.Name != "net" || got.Owner != "foo" || got.Description != "lab" {
		t.Errorf("tenant = %+v", got)
	}
	if _, err := rt.PendingTenant(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("pending request survived the approval: err=%v", err)
	}
}

func TestApproveTenantUnknown(t *testing.T) {
	rt := bootstrapped(t, newMockStore())

	if err := rt.ApproveTenant(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectTenant(t *testing.T) {
	rt := bootstrapped(t, newMockStore())
	ctx := context.Background()

	id, err := rt.RequestTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "foo"})
	if err != nil {
		t.Fatalf("RequestTenant: %v", err)
	}
	if err := rt.RejectTenant(ctx, id); err != nil {
		t.Fatalf("RejectTenant: %v", err)
	}
	if _, err := rt.PendingTenant(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("rejected request still pending: err=%v", err)
	}

	// The name is free again.
	if _, err := rt.AddTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "foo"}); err != nil {
		t.Errorf("AddTenant after reject: %v", err)
	}
}

func TestPendingTenantReadThroughCache(t *testing.T) {
	store := newMockStore()
	rt := bootstrapped(t, store)
	c := newMemCache()
	rt.UsePendingCache(c, time.Minute)
	ctx := context.Background()

	id, err := rt.RequestTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "foo"})
	if err != nil {
		t.Fatalf("RequestTenant: %v", err)
	}

	if _, err := rt.PendingTenant(ctx, id); err != nil {
		t.Fatalf("PendingTenant: %v", err)
	}
	if _, err := rt.PendingTenant(ctx, id); err != nil {
		t.Fatalf("PendingTenant (cached): %v", err)
	}

	if store.getPendingCalls != 1 {
		t.Errorf("store lookups = %d, want 1", store.getPendingCalls)
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want 1", c.sets)
	}

	// Approval invalidates the cached entry.
	if err := rt.ApproveTenant(ctx, id); err != nil {
		t.Fatalf("ApproveTenant: %v", err)
	}
	if _, err := rt.PendingTenant(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("stale cache entry served after approval: err=%v", err)
	}
}

func TestPendingTenantMissNotCached(t *testing.T) {
	store := newMockStore()
	rt := bootstrapped(t, store)
	rt.UsePendingCache(newMemCache(), time.Minute)
	ctx := context.Background()

	if _, err := rt.PendingTenant(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := rt.PendingTenant(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.getPendingCalls != 2 {
		t.Errorf("store lookups = %d, want 2 (misses are not cached)", store.getPendingCalls)
	}
}

func TestPendingTenantsFilterByOwner(t *testing.T) {
	rt := bootstrapped(t, newMockStore())
	ctx := context.Background()

	if _, err := rt.RequestTenant(ctx, tenant.CreateRequest{Name: "a", Owner: "foo"}); err != nil {
		t.Fatalf("RequestTenant: %v", err)
	}
	if _, err := rt.RequestTenant(ctx, tenant.CreateRequest{Name: "b", Owner: "bar"}); err != nil {
		t.Fatalf("RequestTenant: %v", err)
	}

	all, err := rt.PendingTenants(ctx, "")
	if err != nil {
		t.Fatalf("PendingTenants: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all pending = %d, want 2", len(all))
	}

	foos, err := rt.PendingTenants(ctx, "foo")
	if err != nil {
		t.Fatalf("PendingTenants(foo): %v", err)
	}
	if len(foos) != 1 || foos[0].Name != "a" {
		t.Errorf("foo pending = %+v", foos)
	}
}

func TestRemoveTenantMemoryDeletedBeforeStore(t *testing.T) {
	store := newMockStore()
	rt := bootstrapped(t, store)
	ctx := context.Background()

	id, err := rt.AddTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "foo"})
	if err != nil {
		t.Fatalf("AddTenant: %v", err)
	}

	store.deleteTenantErr = errors.New("db down")
	if err := rt.RemoveTenant(ctx, id); err == nil {
		t.Fatal("expected error")
	}

	// The in-memory entry is gone even though the store delete failed.
	if _, err := rt.Tenant(id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("tenant still in memory: err=%v", err)
	}
}

func TestRemoveTenantListenerErrorAbortsFanOut(t *testing.T) {
	rt := bootstrapped(t, newMockStore())
	ctx := context.Background()

	id, err := rt.AddTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "foo"})
	if err != nil {
		t.Fatalf("AddTenant: %v", err)
	}

	boom := errors.New("sweep failed")
	var secondCalled bool
	rt.AddTenantListener(listenerFunc(func(context.Context, string) error { return boom }))
	rt.AddTenantListener(listenerFunc(func(context.Context, string) error {
		secondCalled = true
		return nil
	}))

	if err := rt.RemoveTenant(ctx, id); !errors.Is(err, boom) {
		t.Fatalf("expected listener error, got %v", err)
	}
	if secondCalled {
		t.Error("fan-out continued past the failing listener")
	}
}
