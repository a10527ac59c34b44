package http

import (
	"net/http"

	"github.com/Strob0t/NetForge/internal/port/plugin"
)

// registerComponentRequest is the input for launching a component from the
// factory catalog.
type registerComponentRequest struct {
	Name   string            `json:"name"`
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// ListComponents returns all registered components.
func (h *Handlers) ListComponents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Registry.Components())
}

// ListCatalog returns the component kinds available for launching.
func (h *Handlers) ListCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, plugin.Catalog())
}

// RegisterComponent constructs a component from the catalog and registers it.
func (h *Handlers) RegisterComponent(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[registerComponentRequest](w, r)
	if !ok {
		return
	}
	if req.Name == "" || req.Kind == "" {
		writeError(w, http.StatusBadRequest, "name and kind are required")
		return
	}

	if err := h.Registry.Launch(r.Context(), req.Name, req.Kind, req.Params); err != nil {
		writeDomainError(w, err, "component kind not found")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name, "kind": req.Kind})
}

// UnregisterComponent tears down a removable component.
func (h *Handlers) UnregisterComponent(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")

	if err := h.Registry.Unregister(r.Context(), name); err != nil {
		writeDomainError(w, err, "component not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
