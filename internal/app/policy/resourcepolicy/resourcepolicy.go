// internal/app/policy/resourcepolicy.go

// Package resourcepolicy answers scope-qualified resource authorization
// questions ("may this user delete that wishlist item?") from the user's
// global role. Ownership decides the scope: acting on your own resource
// needs the "own" grant, acting on someone else's needs "any".
package resourcepolicy

import (
	"context"
	"fmt"

	"github.com/giftgrove/giftgrove/internal/app/perm"
	"github.com/giftgrove/giftgrove/internal/app/system/apperr"
	"github.com/giftgrove/giftgrove/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// GlobalRoleResolver reports a user's global role. The bool is false when
// the user record does not exist.
type GlobalRoleResolver interface {
	GlobalRoleOf(ctx context.Context, userID primitive.ObjectID) (perm.GlobalRole, bool, error)
}

// Guard evaluates resource permission requirements against the global
// grant table.
type Guard struct {
	roles GlobalRoleResolver
	audit *auditlog.Logger
	log   *zap.Logger
}

// New builds a Guard. audit may be nil; denials are then only zap-logged.
func New(roles GlobalRoleResolver, audit *auditlog.Logger, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{roles: roles, audit: audit, log: log}
}

// ScopeFor reports which scope a requester needs for a resource owned by
// ownerID: "own" when acting on their own resource, "any" otherwise.
func ScopeFor(userID, ownerID primitive.ObjectID) perm.Scope {
	if userID == ownerID {
		return perm.ScopeOwn
	}
	return perm.ScopeAny
}

// Require succeeds when the user's global role carries the grant. A missing
// user record is treated the same as a role with no grants.
func (g *Guard) Require(ctx context.Context, userID primitive.ObjectID, rp perm.ResourcePermission) error {
	if userID.IsZero() {
		return apperr.ErrUnauthenticated
	}
	role, ok, err := g.roles.GlobalRoleOf(ctx, userID)
	if err != nil {
		return apperr.Store("users.GlobalRoleOf", err)
	}
	if ok && perm.GlobalRoleHas(role, rp) {
		return nil
	}
	ue := &apperr.Unauthorized{
		RequiredPermission: rp.String(),
		Message:            fmt.Sprintf("Unauthorized: required permission '%s'", rp.String()),
	}
	g.log.Warn("authorization denied",
		zap.String("user_id", userID.Hex()),
		zap.String("requirement", rp.String()))
	g.audit.AccessDenied(ctx, userID, nil, rp.String(), ue.Message)
	return ue
}

// Has is the non-erroring form of Require.
func (g *Guard) Has(ctx context.Context, userID primitive.ObjectID, rp perm.ResourcePermission) (bool, error) {
	if userID.IsZero() {
		return false, nil
	}
	role, ok, err := g.roles.GlobalRoleOf(ctx, userID)
	if err != nil {
		return false, apperr.Store("users.GlobalRoleOf", err)
	}
	return ok && perm.GlobalRoleHas(role, rp), nil
}
