package http

import (
	"net/http"

	"github.com/Strob0t/NetForge/internal/domain/account"
)

// ListAccounts returns all live accounts.
func (h *Handlers) ListAccounts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Runtime.Accounts())
}

// GetAccount returns a single account by username.
func (h *Handlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	username := urlParam(r, "username")

	a, err := h.Runtime.Account(username)
	if err != nil {
		writeDomainError(w, err, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateAccount registers a new account.
func (h *Handlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[account.CreateRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Runtime.CreateAccount(r.Context(), req); err != nil {
		writeDomainError(w, err, "account not found")
		return
	}

	a, err := h.Runtime.Account(req.Username)
	if err != nil {
		writeDomainError(w, err, "account not found")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAccount applies field assignments to an account.
func (h *Handlers) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	username := urlParam(r, "username")

	req, ok := readJSON[account.UpdateRequest](w, r)
	if !ok {
		return
	}

	if err := h.Runtime.UpdateAccount(r.Context(), username, req); err != nil {
		writeDomainError(w, err, "account not found")
		return
	}

	a, err := h.Runtime.Account(username)
	if err != nil {
		writeDomainError(w, err, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAccount removes an account and every tenant it owns.
func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	username := urlParam(r, "username")

	if err := h.Runtime.RemoveAccount(r.Context(), username); err != nil {
		writeDomainError(w, err, "account not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
