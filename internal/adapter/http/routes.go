package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/NetForge/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router. Mutating
// routes require the admin role; reads are open to any authenticated account.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)
	r.Get("/health/ready", h.Ready)

	if h.Hub != nil {
		r.Get("/ws", h.Hub.HandleWS)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"` + Version + `"}`))
		})

		// Accounts
		r.Get("/accounts", h.ListAccounts)
		r.With(middleware.RequireAdmin).Post("/accounts", h.CreateAccount)
		r.Get("/accounts/{username}", h.GetAccount)
		r.With(middleware.RequireAdmin).Put("/accounts/{username}", h.UpdateAccount)
		r.With(middleware.RequireAdmin).Delete("/accounts/{username}", h.DeleteAccount)

		// Tenant requests (registered before /tenants/{id} so "requests" is
		// not captured as an ID)
		r.Post("/tenants/requests", h.RequestTenant)
		r.Get("/tenants/requests", h.ListPendingTenants)
		r.Get("/tenants/requests/{id}", h.GetPendingTenant)
		r.With(middleware.RequireAdmin).Post("/tenants/requests/{id}/approve", h.ApproveTenant)
		r.With(middleware.RequireAdmin).Post("/tenants/requests/{id}/reject", h.RejectTenant)

		// Tenants
		r.Get("/tenants", h.ListTenants)
		r.With(middleware.RequireAdmin).Post("/tenants", h.CreateTenant)
		r.Get("/tenants/{id}", h.GetTenant)
		r.With(middleware.RequireAdmin).Delete("/tenants/{id}", h.DeleteTenant)

		// Components
		r.Get("/components", h.ListComponents)
		r.Get("/components/catalog", h.ListCatalog)
		r.With(middleware.RequireAdmin).Post("/components", h.RegisterComponent)
		r.With(middleware.RequireAdmin).Delete("/components/{name}", h.UnregisterComponent)
	})
}
