package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/NetForge/internal/domain/account"
	"github.com/Strob0t/NetForge/internal/domain/tenant"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// --- Accounts ---

func (s *Store) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]account.Account, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT username, password, role, name, surname, email
		 FROM accounts ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) CreateAccount(ctx context.Context, a account.Account) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (username, password, role, name, surname, email)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.Username, a.Password, string(a.Role), a.Name, a.Surname, a.Email)
	if err != nil {
		return duplicateWrap(err, "create account %s", a.Username)
	}
	return nil
}

func (s *Store) CreateAccounts(ctx context.Context, accounts []account.Account) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	for _, a := range accounts {
		if _, err := tx.Exec(ctx,
			`INSERT INTO accounts (username, password, role, name, surname, email)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			a.Username, a.Password, string(a.Role), a.Name, a.Surname, a.Email); err != nil {
			return duplicateWrap(err, "create account %s", a.Username)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit accounts: %w", err)
	}
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, username string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE username = $1`, username)
	return execExpectOne(tag, err, "delete account %s", username)
}

// --- Tenants ---

func (s *Store) ListTenants(ctx context.Context) ([]tenant.Tenant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, owner, description FROM tenants ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (s *Store) CreateTenant(ctx context.Context, req tenant.CreateRequest) (string, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO tenants (id, name, owner, description) VALUES ($1, $2, $3, $4)`,
		id, req.Name, req.Owner, req.Description)
	if err != nil {
		return "", duplicateWrap(err, "create tenant %s", req.Name)
	}
	return id, nil
}

func (s *Store) DeleteTenant(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete tenant %s", id)
}

// --- Pending tenant requests ---

func (s *Store) GetPendingTenant(ctx context.Context, id string) (*tenant.PendingRequest, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, owner, description FROM pending_tenants WHERE id = $1`, id)

	var p tenant.PendingRequest
	if err := row.Scan(&p.ID, &p.Name, &p.Owner, &p.Description); err != nil {
		return nil, notFoundWrap(err, "get pending tenant %s", id)
	}
	return &p, nil
}

func (s *Store) ListPendingTenants(ctx context.Context, owner string) ([]tenant.PendingRequest, error) {
	query := `SELECT id, name, owner, description FROM pending_tenants ORDER BY name ASC`
	args := []any{}
	if owner != "" {
		query = `SELECT id, name, owner, description FROM pending_tenants WHERE owner = $1 ORDER BY name ASC`
		args = append(args, owner)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending tenants: %w", err)
	}
	defer rows.Close()

	var pending []tenant.PendingRequest
	for rows.Next() {
		var p tenant.PendingRequest
		if err := rows.Scan(&p.ID, &p.Name, &p.Owner, &p.Description); err != nil {
			return nil, fmt.Errorf("scan pending tenant: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

func (s *Store) CreatePendingTenant(ctx context.Context, req tenant.CreateRequest) (string, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO pending_tenants (id, name, owner, description) VALUES ($1, $2, $3, $4)`,
		id, req.Name, req.Owner, req.Description)
	if err != nil {
		return "", duplicateWrap(err, "create pending tenant %s", req.Name)
	}
	return id, nil
}

func (s *Store) DeletePendingTenant(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM pending_tenants WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete pending tenant %s", id)
}

func (s *Store) PromotePendingTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	row := tx.QueryRow(ctx,
		`SELECT id, name, owner, description FROM pending_tenants WHERE id = $1`, id)

	var t tenant.Tenant
	if err := row.Scan(&t.ID, &t.Name, &t.Owner, &t.Description); err != nil {
		return nil, notFoundWrap(err, "promote pending tenant %s", id)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO tenants (id, name, owner, description) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Name, t.Owner, t.Description); err != nil {
		return nil, duplicateWrap(err, "promote pending tenant %s", id)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM pending_tenants WHERE id = $1`, id)
	if err := execExpectOne(tag, err, "promote pending tenant %s", id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit promote: %w", err)
	}
	return &t, nil
}

// --- Scanners ---

func scanAccount(row scannable) (account.Account, error) {
	var a account.Account
	var role string
	if err := row.Scan(&a.Username, &a.Password, &role, &a.Name, &a.Surname, &a.Email); err != nil {
		return a, fmt.Errorf("scan account: %w", err)
	}
	a.Role = account.Role(role)
	return a, nil
}

func scanTenant(row scannable) (tenant.Tenant, error) {
	var t tenant.Tenant
	if err := row.Scan(&t.ID, &t.Name, &t.Owner, &t.Description); err != nil {
		return t, fmt.Errorf("scan tenant: %w", err)
	}
	return t, nil
}
