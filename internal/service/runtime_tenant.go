package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Strob0t/NetForge/internal/adapter/ws"
	"github.com/Strob0t/NetForge/internal/domain"
	"github.com/Strob0t/NetForge/internal/domain/tenant"
	"github.com/Strob0t/NetForge/internal/port/messagequeue"
)

const pendingCachePrefix = "pending:"

// AddTenant creates a live tenant directly, bypassing the request/approval
// flow. The name must be unique across live tenants and pending requests,
// and the owner must be a live account. Returns the tenant ID.
func (r *Runtime) AddTenant(ctx context.Context, req tenant.CreateRequest) (id string, err error) {
	defer func() { recordOp(ctx, r.metrics, "add_tenant", err) }()

	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("add tenant: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[req.Owner]; !ok {
		return "", fmt.Errorf("add tenant %s: owner %s: %w", req.Name, req.Owner, domain.ErrNotFound)
	}
	if req.ID != "" {
		if _, ok := r.tenants[req.ID]; ok {
			return "", fmt.Errorf("add tenant %s: %w", req.ID, domain.ErrDuplicate)
		}
	}
	for _, t := range r.tenants {
		if t.Name == req.Name {
			return "", fmt.Errorf("add tenant %s: %w", req.Name, domain.ErrDuplicate)
		}
	}

	pending, err := r.store.ListPendingTenants(ctx, "")
	if err != nil {
		return "", fmt.Errorf("add tenant %s: %w", req.Name, err)
	}
	for _, p := range pending {
		if p.Name == req.Name || (req.ID != "" && p.ID == req.ID) {
			return "", fmt.Errorf("add tenant %s: pending request exists: %w", req.Name, domain.ErrDuplicate)
		}
	}

	id, err = r.store.CreateTenant(ctx, req)
	if err != nil {
		return "", fmt.Errorf("add tenant %s: %w", req.Name, err)
	}

	t := tenant.Tenant{ID: id, Name: req.Name, Owner: req.Owner, Description: req.Description}
	r.tenants[id] = &t

	if r.metrics != nil {
		r.metrics.TenantsLive.Add(ctx, 1)
	}
	r.events.publish(ctx, messagequeue.SubjectTenantCreated, ws.EventTenantCreated,
		messagequeue.TenantEventPayload{TenantID: id, Name: t.Name, Owner: t.Owner})

	slog.Info("tenant created", "id", id, "name", t.Name, "owner", t.Owner)
	return id, nil
}

// RequestTenant files a tenant creation proposal for later approval. The name
// must not collide with any live tenant. Returns the pending request ID.
func (r *Runtime) RequestTenant(ctx context.Context, req tenant.CreateRequest) (id string, err error) {
	defer func() { recordOp(ctx, r.metrics, "request_tenant", err) }()

	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("request tenant: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[req.Owner]; !ok {
		return "", fmt.Errorf("request tenant %s: owner %s: %w", req.Name, req.Owner, domain.ErrNotFound)
	}
	if req.ID != "" {
		if _, ok := r.tenants[req.ID]; ok {
			return "", fmt.Errorf("request tenant %s: %w", req.ID, domain.ErrDuplicate)
		}
	}
	for _, t := range r.tenants {
		if t.Name == req.Name {
			return "", fmt.Errorf("request tenant %s: %w", req.Name, domain.ErrDuplicate)
		}
	}

	id, err = r.store.CreatePendingTenant(ctx, req)
	if err != nil {
		return "", fmt.Errorf("request tenant %s: %w", req.Name, err)
	}

	r.events.publish(ctx, messagequeue.SubjectTenantRequested, ws.EventTenantRequested,
		messagequeue.TenantEventPayload{TenantID: id, Name: req.Name, Owner: req.Owner})

	slog.Info("tenant requested", "id", id, "name", req.Name, "owner", req.Owner)
	return id, nil
}

// PendingTenant returns a single pending request by ID, going through the
// read cache when one is installed. Only positive results are cached.
func (r *Runtime) PendingTenant(ctx context.Context, id string) (*tenant.PendingRequest, error) {
	if r.pending != nil {
		data, ok, err := r.pending.Get(ctx, pendingCachePrefix+id)
		if err != nil {
			slog.Warn("pending cache get", "id", id, "error", err)
		} else if ok {
			var p tenant.PendingRequest
			if err := json.Unmarshal(data, &p); err == nil {
				return &p, nil
			}
			slog.Warn("pending cache entry corrupt", "id", id)
		}
	}

	p, err := r.store.GetPendingTenant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pending tenant %s: %w", id, err)
	}

	if r.pending != nil {
		if data, err := json.Marshal(p); err == nil {
			if err := r.pending.Set(ctx, pendingCachePrefix+id, data, r.pendingTTL); err != nil {
				slog.Warn("pending cache set", "id", id, "error", err)
			}
		}
	}
	return p, nil
}

// PendingTenants lists pending requests, filtered by owner when owner is
// non-empty. Always served from the store.
func (r *Runtime) PendingTenants(ctx context.Context, owner string) ([]tenant.PendingRequest, error) {
	out, err := r.store.ListPendingTenants(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("pending tenants: %w", err)
	}
	return out, nil
}

// ApproveTenant promotes a pending request to a live tenant. The promotion is
// atomic in the store: either the tenant row exists and the request is gone,
// or neither changed.
func (r *Runtime) ApproveTenant(ctx context.Context, id string) (err error) {
	defer func() { recordOp(ctx, r.metrics, "approve_tenant", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.store.PromotePendingTenant(ctx, id)
	if err != nil {
		return fmt.Errorf("approve tenant %s: %w", id, err)
	}
	r.tenants[t.ID] = t
	r.invalidatePending(ctx, id)

	if r.metrics != nil {
		r.metrics.TenantsLive.Add(ctx, 1)
	}
	r.events.publish(ctx, messagequeue.SubjectTenantApproved, ws.EventTenantApproved,
		messagequeue.TenantEventPayload{TenantID: t.ID, Name: t.Name, Owner: t.Owner})

	slog.Info("tenant approved", "id", t.ID, "name", t.Name, "owner", t.Owner)
	return nil
}

// RejectTenant discards a pending request.
func (r *Runtime) RejectTenant(ctx context.Context, id string) (err error) {
	defer func() { recordOp(ctx, r.metrics, "reject_tenant", err) }()

	if err := r.store.DeletePendingTenant(ctx, id); err != nil {
		return fmt.Errorf("reject tenant %s: %w", id, err)
	}
	r.invalidatePending(ctx, id)

	r.events.publish(ctx, messagequeue.SubjectTenantRejected, ws.EventTenantRejected,
		messagequeue.TenantEventPayload{TenantID: id})

	slog.Info("tenant rejected", "id", id)
	return nil
}

// RemoveTenant deletes a live tenant and notifies listeners so worker
// components can sweep the modules it owned.
func (r *Runtime) RemoveTenant(ctx context.Context, id string) (err error) {
	defer func() { recordOp(ctx, r.metrics, "remove_tenant", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.removeTenantLocked(ctx, id)
}

// removeTenantLocked removes a tenant from memory, then the store, then fans
// out to listeners. The memory entry is gone even if a later step fails.
// Caller holds the write lock.
func (r *Runtime) removeTenantLocked(ctx context.Context, id string) error {
	t, ok := r.tenants[id]
	if !ok {
		return fmt.Errorf("remove tenant %s: %w", id, domain.ErrNotFound)
	}
	delete(r.tenants, id)

	if err := r.store.DeleteTenant(ctx, id); err != nil {
		return fmt.Errorf("remove tenant %s: %w", id, err)
	}

	if err := r.notifyTenantRemoved(ctx, id); err != nil {
		return fmt.Errorf("remove tenant %s: %w", id, err)
	}

	if r.metrics != nil {
		r.metrics.TenantsLive.Add(ctx, -1)
	}
	r.events.publish(ctx, messagequeue.SubjectTenantRemoved, ws.EventTenantRemoved,
		messagequeue.TenantEventPayload{TenantID: id, Name: t.Name, Owner: t.Owner})

	slog.Info("tenant removed", "id", id, "name", t.Name)
	return nil
}

// invalidatePending drops the cached entry for a pending request, if any.
func (r *Runtime) invalidatePending(ctx context.Context, id string) {
	if r.pending == nil {
		return
	}
	if err := r.pending.Delete(ctx, pendingCachePrefix+id); err != nil {
		slog.Warn("pending cache delete", "id", id, "error", err)
	}
}

// Tenant returns a copy of the tenant with the given ID.
func (r *Runtime) Tenant(id string) (tenant.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[id]
	if !ok {
		return tenant.Tenant{}, fmt.Errorf("tenant %s: %w", id, domain.ErrNotFound)
	}
	return *t, nil
}

// Tenants returns copies of all live tenants ordered by name.
func (r *Runtime) Tenants() []tenant.Tenant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tenant.Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		out = append(out, *t)
	}
	sortTenants(out)
	return out
}
