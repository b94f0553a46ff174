// internal/app/policy/grouppolicy.go

// Package grouppolicy answers group-scoped authorization questions against
// the authoritative group_memberships collection. A refusal is a typed
// error, never a plain false: callers can distinguish "not authorized"
// (apperr.Unauthorized) from "database error" (apperr.StoreError).
package grouppolicy

import (
	"context"
	"fmt"

	"github.com/giftgrove/giftgrove/internal/app/perm"
	"github.com/giftgrove/giftgrove/internal/app/system/apperr"
	"github.com/giftgrove/giftgrove/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RoleResolver reports the role a user holds in a group. The bool is false
// when the user has no membership row; that is not an error.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID, groupID primitive.ObjectID) (perm.Role, bool, error)
}

// Guard evaluates membership, role, and permission requirements for one
// (user, group) pair at a time. Every check re-reads the membership row so
// a concurrent role change or removal takes effect on the next request.
type Guard struct {
	roles RoleResolver
	audit *auditlog.Logger
	log   *zap.Logger
}

// New builds a Guard. audit may be nil; denials are then only zap-logged.
func New(roles RoleResolver, audit *auditlog.Logger, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{roles: roles, audit: audit, log: log}
}

// resolve performs the shared preamble: reject missing identity before
// touching the store, then load the membership row.
func (g *Guard) resolve(ctx context.Context, userID, groupID primitive.ObjectID) (perm.Role, bool, error) {
	if userID.IsZero() {
		return "", false, apperr.ErrUnauthenticated
	}
	role, ok, err := g.roles.RoleOf(ctx, userID, groupID)
	if err != nil {
		return "", false, apperr.Store("memberships.RoleOf", err)
	}
	return role, ok, nil
}

// RequireMembership succeeds when the user holds any role in the group.
func (g *Guard) RequireMembership(ctx context.Context, userID, groupID primitive.ObjectID) (perm.Role, error) {
	role, ok, err := g.resolve(ctx, userID, groupID)
	if err != nil {
		return "", err
	}
	if !ok {
		ue := &apperr.Unauthorized{
			GroupID: groupID.Hex(),
			Message: fmt.Sprintf("User is not a member of group %s", groupID.Hex()),
		}
		g.denied(ctx, userID, groupID, "membership", ue.Message)
		return "", ue
	}
	return role, nil
}

// RequireRole succeeds when the user's role in the group is one of the
// listed roles.
func (g *Guard) RequireRole(ctx context.Context, userID, groupID primitive.ObjectID, roles ...perm.Role) (perm.Role, error) {
	role, ok, err := g.resolve(ctx, userID, groupID)
	if err != nil {
		return "", err
	}
	if ok {
		for _, want := range roles {
			if role == want {
				return role, nil
			}
		}
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	ue := &apperr.Unauthorized{
		RequiredRoles: names,
		GroupID:       groupID.Hex(),
	}
	ue.Message = fmt.Sprintf("Unauthorized: required role(s): %s in group %s", ue.RequiredRole(), groupID.Hex())
	g.denied(ctx, userID, groupID, ue.RequiredRole(), ue.Message)
	return "", ue
}

// RequirePermission succeeds when the user's role in the group grants the
// permission per the role table.
func (g *Guard) RequirePermission(ctx context.Context, userID, groupID primitive.ObjectID, p perm.Permission) (perm.Role, error) {
	role, ok, err := g.resolve(ctx, userID, groupID)
	if err != nil {
		return "", err
	}
	if ok && perm.RoleHas(role, p) {
		return role, nil
	}
	ue := &apperr.Unauthorized{
		RequiredPermission: string(p),
		GroupID:            groupID.Hex(),
		Message:            fmt.Sprintf("Unauthorized: required permission '%s' in group %s", string(p), groupID.Hex()),
	}
	g.denied(ctx, userID, groupID, string(p), ue.Message)
	return "", ue
}

// HasPermission is the non-erroring form of RequirePermission for callers
// that branch on the answer (e.g. hiding a delete button). Store failures
// still surface as errors.
func (g *Guard) HasPermission(ctx context.Context, userID, groupID primitive.ObjectID, p perm.Permission) (bool, error) {
	if userID.IsZero() {
		return false, nil
	}
	role, ok, err := g.roles.RoleOf(ctx, userID, groupID)
	if err != nil {
		return false, apperr.Store("memberships.RoleOf", err)
	}
	return ok && perm.RoleHas(role, p), nil
}

// denied logs the refusal and records it on the security audit channel.
func (g *Guard) denied(ctx context.Context, userID, groupID primitive.ObjectID, requirement, reason string) {
	g.log.Warn("authorization denied",
		zap.String("user_id", userID.Hex()),
		zap.String("group_id", groupID.Hex()),
		zap.String("requirement", requirement))
	g.audit.AccessDenied(ctx, userID, &groupID, requirement, reason)
}
