// Package tenant defines the tenant and pending-request domain models.
package tenant

import "errors"

// Tenant represents an isolated, named slice of the managed infrastructure
// with a single owning account.
type Tenant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
}

// PendingRequest is a tenant creation proposal awaiting approval or rejection.
// It exists only in the persistent store and is never mirrored in memory.
type PendingRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
}

// CreateRequest is the input for creating or requesting a tenant.
// ID is optional; the store assigns one when it is empty.
type CreateRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return errors.New("tenant name is required")
	}
	if r.Owner == "" {
		return errors.New("owner is required")
	}
	return nil
}
