// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate indicates a natural-key collision (username, tenant ID or name,
// component name) with an already-registered entity.
var ErrDuplicate = errors.New("already registered")

// ErrForbidden indicates the operation is not permitted regardless of input,
// such as removing the root account.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidComponent indicates a registered component does not expose the
// capability profile required by the requested operation.
var ErrInvalidComponent = errors.New("invalid component type")
