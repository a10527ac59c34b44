package http

import (
	"net/http"

	"github.com/Strob0t/NetForge/internal/domain/tenant"
)

// ListTenants returns all live tenants.
func (h *Handlers) ListTenants(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Runtime.Tenants())
}

// GetTenant returns a single tenant by ID.
func (h *Handlers) GetTenant(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")

	t, err := h.Runtime.Tenant(id)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTenant creates a live tenant directly, bypassing approval.
func (h *Handlers) CreateTenant(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.CreateRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.Runtime.AddTenant(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "owner not found")
		return
	}

	t, err := h.Runtime.Tenant(id)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// DeleteTenant removes a live tenant and sweeps its modules.
func (h *Handlers) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")

	if err := h.Runtime.RemoveTenant(r.Context(), id); err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestTenant files a tenant creation proposal.
func (h *Handlers) RequestTenant(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.CreateRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.Runtime.RequestTenant(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "owner not found")
		return
	}

	p, err := h.Runtime.PendingTenant(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "request not found")
		return
	}
	writeJSON(w, http.StatusAccepted, p)
}

// ListPendingTenants returns pending requests, optionally filtered by ?owner=.
func (h *Handlers) ListPendingTenants(w http.ResponseWriter, r *http.Request) {
	out, err := h.Runtime.PendingTenants(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		writeDomainError(w, err, "request not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GetPendingTenant returns a single pending request by ID.
func (h *Handlers) GetPendingTenant(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")

	p, err := h.Runtime.PendingTenant(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "request not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ApproveTenant promotes a pending request to a live tenant.
func (h *Handlers) ApproveTenant(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")

	if err := h.Runtime.ApproveTenant(r.Context(), id); err != nil {
		writeDomainError(w, err, "request not found")
		return
	}

	t, err := h.Runtime.Tenant(id)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// RejectTenant discards a pending request.
func (h *Handlers) RejectTenant(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")

	if err := h.Runtime.RejectTenant(r.Context(), id); err != nil {
		writeDomainError(w, err, "request not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
