package http

import (
	"context"
	"net/http"

	"github.com/Strob0t/NetForge/internal/adapter/ws"
	"github.com/Strob0t/NetForge/internal/service"
)

// Version is the API version reported on the root endpoint.
const Version = "0.1.0"

// Pinger reports backing-store liveness for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers bundles the dependencies of all HTTP handlers.
type Handlers struct {
	Runtime  *service.Runtime
	Registry *service.Registry
	Hub      *ws.Hub
	DB       Pinger
}

// NewHandlers creates the handler set. Hub and DB may be nil.
func NewHandlers(rt *service.Runtime, reg *service.Registry) *Handlers {
	return &Handlers{Runtime: rt, Registry: reg}
}

// Health reports process liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness: the store must answer a ping.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
