// Package repository defines error values shared across the individual
// repositories.  These sentinels let higher layers such as the lifecycle
// engine and the HTTP handlers distinguish failure scenarios with
// errors.Is instead of inspecting driver specific error strings.
package repository

import (
	"errors"
	"strings"
)

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint on a minted identifier (quote reference, order number or
// tracking token).  Identifier minting is not transactional with the
// insert, so callers recover by re-minting and retrying a bounded
// number of times.
var ErrDuplicate = errors.New("duplicate identifier")

// ErrQuoteNotFound is returned when no quote exists for the requested
// ID.  Handlers should translate this into an HTTP 404 response.
var ErrQuoteNotFound = errors.New("quote not found")

// ErrOrderNotFound is returned when no order exists for the requested
// ID or tracking token.  Handlers should translate this into an HTTP
// 404 response.
var ErrOrderNotFound = errors.New("order not found")

// ErrMaterialNotFound is returned when a material name cannot be
// resolved in the catalog.  During pricing this surfaces to the caller
// as a validation failure on the material field.
var ErrMaterialNotFound = errors.New("material not found")

// ErrUsernameExists is returned when creating a staff account with a
// username that is already taken.
var ErrUsernameExists = errors.New("username already exists")

// isDuplicateKey reports whether err is a MySQL duplicate key violation
// (error 1062).
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
