package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Strob0t/NetForge/internal/adapter/ws"
	"github.com/Strob0t/NetForge/internal/domain"
	"github.com/Strob0t/NetForge/internal/domain/account"
	"github.com/Strob0t/NetForge/internal/port/messagequeue"
)

// CreateAccount registers a new operator account. The username must be unique
// across all live accounts.
func (r *Runtime) CreateAccount(ctx context.Context, req account.CreateRequest) (err error) {
	defer func() { recordOp(ctx, r.metrics, "create_account", err) }()

	if err := req.Validate(); err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[req.Username]; ok {
		return fmt.Errorf("create account %s: %w", req.Username, domain.ErrDuplicate)
	}

	a := account.Account{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
	}

	if err := r.store.CreateAccount(ctx, a); err != nil {
		return fmt.Errorf("create account %s: %w", req.Username, err)
	}
	r.accounts[a.Username] = &a

	if r.metrics != nil {
		r.metrics.AccountsLive.Add(ctx, 1)
	}
	r.events.publish(ctx, messagequeue.SubjectAccountCreated, ws.EventAccountCreated,
		messagequeue.AccountEventPayload{Username: a.Username, Role: string(a.Role)})

	slog.Info("account created", "username", a.Username, "role", a.Role)
	return nil
}

// RemoveAccount deletes an account and cascades to every tenant it owns.
// The root account can never be removed. Tenants removed mid-cascade stay
// removed even if a later step fails; there is no rollback.
func (r *Runtime) RemoveAccount(ctx context.Context, username string) (err error) {
	defer func() { recordOp(ctx, r.metrics, "remove_account", err) }()

	if username == account.RootUsername {
		return fmt.Errorf("remove account %s: %w", username, domain.ErrForbidden)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[username]; !ok {
		return fmt.Errorf("remove account %s: %w", username, domain.ErrNotFound)
	}

	if err := r.store.DeleteAccount(ctx, username); err != nil {
		return fmt.Errorf("remove account %s: %w", username, err)
	}
	delete(r.accounts, username)

	if r.metrics != nil {
		r.metrics.AccountsLive.Add(ctx, -1)
	}
	r.events.publish(ctx, messagequeue.SubjectAccountRemoved, ws.EventAccountRemoved,
		messagequeue.AccountEventPayload{Username: username})

	// Snapshot owned tenant IDs before removing: removal mutates the map
	// being iterated otherwise.
	owned := make([]string, 0)
	for id, t := range r.tenants {
		if t.Owner == username {
			owned = append(owned, id)
		}
	}

	for _, id := range owned {
		if err := r.removeTenantLocked(ctx, id); err != nil {
			return fmt.Errorf("remove account %s: cascade tenant %s: %w", username, id, err)
		}
	}

	slog.Info("account removed", "username", username, "tenants_removed", len(owned))
	return nil
}

// UpdateAccount applies field assignments to an in-memory account. Unknown
// field names are ignored. The change is not written back to the store and
// lives until the next restart.
func (r *Runtime) UpdateAccount(ctx context.Context, username string, req account.UpdateRequest) (err error) {
	defer func() { recordOp(ctx, r.metrics, "update_account", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[username]
	if !ok {
		return fmt.Errorf("update account %s: %w", username, domain.ErrNotFound)
	}

	req.Apply(a)
	return nil
}

// Authenticate reports whether the username exists and the password matches.
func (r *Runtime) Authenticate(username, password string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[username]
	return ok && a.Password == password
}

// Account returns a copy of the named account.
func (r *Runtime) Account(username string) (account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[username]
	if !ok {
		return account.Account{}, fmt.Errorf("account %s: %w", username, domain.ErrNotFound)
	}
	return *a, nil
}

// Accounts returns copies of all live accounts ordered by username.
func (r *Runtime) Accounts() []account.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]account.Account, 0, len(r.accounts))
	for _, name := range r.sortedUsernames() {
		out = append(out, *r.accounts[name])
	}
	return out
}
