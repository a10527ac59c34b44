//go:build integration

package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Strob0t/NetForge/internal/domain/account"
	"github.com/Strob0t/NetForge/internal/domain/tenant"
)

func TestDefaultAccountsSeeded(t *testing.T) {
	resp := doJSON(t, http.MethodGet, "/api/v1/accounts", "root", "root", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var accounts []account.Account
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(accounts) < 3 {
		t.Fatalf("accounts = %d, want at least the 3 defaults", len(accounts))
	}
}

func TestAccountTenantCascade(t *testing.T) {
	// Create an account and a tenant it owns.
	resp := doJSON(t, http.MethodPost, "/api/v1/accounts", "root", "root",
		account.CreateRequest{Username: "cascade-user", Password: "pw", Role: account.RoleUser})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create account status = %d, want 201", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, "/api/v1/tenants", "root", "root",
		tenant.CreateRequest{Name: "cascade-net", Owner: "cascade-user"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create tenant status = %d, want 201", resp.StatusCode)
	}
	var created tenant.Tenant
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Removing the account removes the owned tenant.
	resp = doJSON(t, http.MethodDelete, "/api/v1/accounts/cascade-user", "root", "root", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete account status = %d, want 204", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, "/api/v1/tenants/"+created.ID, "root", "root", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("tenant after cascade status = %d, want 404", resp.StatusCode)
	}
}

func TestPendingRequestLifecycle(t *testing.T) {
	resp := doJSON(t, http.MethodPost, "/api/v1/tenants/requests", "foo", "foo",
		tenant.CreateRequest{Name: "pending-net", Owner: "foo"})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("request status = %d, want 202", resp.StatusCode)
	}
	var pending tenant.PendingRequest
	if err := json.NewDecoder(resp.Body).Decode(&pending); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp = doJSON(t, http.MethodPost, "/api/v1/tenants/requests/"+pending.ID+"/approve", "root", "root", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve status = %d, want 200", resp.StatusCode)
	}

	// Cleanup the promoted tenant.
	resp = doJSON(t, http.MethodDelete, "/api/v1/tenants/"+pending.ID, "root", "root", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete tenant status = %d, want 204", resp.StatusCode)
	}
}
