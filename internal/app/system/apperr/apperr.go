// internal/app/system/apperr/apperr.go

// Package apperr defines the error taxonomy shared by the policy, service,
// and store layers:
//
//   - ErrUnauthenticated: no valid identity was presented.
//   - Unauthorized: valid identity, insufficient role or permission. Carries
//     the missing requirement and the target id so the boundary can log and
//     render why access was refused.
//   - ErrNotFound: the target group, membership, or resource does not exist.
//   - Validation: user-supplied input rejected before any store write.
//   - StoreError: the backing store itself failed; propagates unrecovered.
//
// The first four are expected, recoverable-at-the-boundary conditions. The
// boundary layer translates them to transport status codes via HTTPStatus;
// a StoreError (or anything unrecognized) maps to 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthenticated signals that no valid identity was presented.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNotFound signals that the target record does not exist. Deleting
	// an already-deleted id surfaces as ErrNotFound, never as a crash.
	ErrNotFound = errors.New("not found")
)

// Unauthorized is returned when an authenticated user lacks the role or
// permission an operation requires. Exactly one of RequiredPermission or
// RequiredRoles is set, depending on which kind of check failed.
type Unauthorized struct {
	RequiredPermission string   // e.g. "deleteGroup" or "delete:wishlistItem:any"
	RequiredRoles      []string // e.g. ["owner", "admin"]
	GroupID            string   // hex id of the group, when group-scoped
	ResourceID         string   // hex id of the resource, when resource-scoped
	Message            string
}

func (e *Unauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// RequiredRole renders the role set the way the boundary displays it
// ("owner or admin").
func (e *Unauthorized) RequiredRole() string {
	return strings.Join(e.RequiredRoles, " or ")
}

// AsUnauthorized extracts an *Unauthorized from an error chain.
func AsUnauthorized(err error) (*Unauthorized, bool) {
	var ue *Unauthorized
	ok := errors.As(err, &ue)
	return ue, ok
}

// Validation is returned when user-supplied input is rejected. It never
// reaches the store.
type Validation struct {
	Field  string
	Reason string
}

func (e *Validation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreError wraps a failure of the backing store (connectivity, write
// error, constraint machinery). The core does not retry or roll back;
// callers see it as a 500-equivalent.
type StoreError struct {
	Op  string // e.g. "memberships.RoleOf"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError for operation op. Returns nil when err
// is nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// HTTPStatus maps an error from this package to the status code the
// boundary layer should answer with. Unrecognized errors (including
// StoreError) map to 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	var ue *Unauthorized
	if errors.As(err, &ue) {
		return http.StatusForbidden
	}
	var ve *Validation
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
