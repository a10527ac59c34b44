// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/Strob0t/NetForge/internal/domain/account"
	"github.com/Strob0t/NetForge/internal/domain/tenant"
)

// Store is the port interface for durable registry state. Implementations
// translate unique-constraint violations to domain.ErrDuplicate and missing
// rows to domain.ErrNotFound at this boundary.
type Store interface {
	// Accounts
	CountAccounts(ctx context.Context) (int, error)
	ListAccounts(ctx context.Context) ([]account.Account, error)
	CreateAccount(ctx context.Context, a account.Account) error
	// CreateAccounts inserts all accounts in a single transaction.
	CreateAccounts(ctx context.Context, accounts []account.Account) error
	DeleteAccount(ctx context.Context, username string) error

	// Tenants
	ListTenants(ctx context.Context) ([]tenant.Tenant, error)
	// CreateTenant inserts a tenant row and returns its ID. When req.ID is
	// empty the store assigns one.
	CreateTenant(ctx context.Context, req tenant.CreateRequest) (string, error)
	DeleteTenant(ctx context.Context, id string) error

	// Pending tenant requests
	GetPendingTenant(ctx context.Context, id string) (*tenant.PendingRequest, error)
	// ListPendingTenants returns all pending requests, optionally filtered by
	// owner when owner is non-empty.
	ListPendingTenants(ctx context.Context, owner string) ([]tenant.PendingRequest, error)
	CreatePendingTenant(ctx context.Context, req tenant.CreateRequest) (string, error)
	DeletePendingTenant(ctx context.Context, id string) error
	// PromotePendingTenant atomically inserts the live tenant row and deletes
	// the pending request in one transaction, returning the promoted tenant.
	PromotePendingTenant(ctx context.Context, id string) (*tenant.Tenant, error)
}
