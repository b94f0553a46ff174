// internal/app/system/identity/identity.go

// Package identity carries the authenticated requester's user id.
//
// Session and cookie mechanics belong to the embedding web layer; this
// package only defines the contract between that layer and the
// authorization core. Every guard and mutation operation takes the
// requester id as an explicit parameter; nothing in the core reads
// ambient session state, so the Provider is consulted exactly once per
// request, at the boundary.
package identity

import (
	"context"

	"github.com/giftgrove/giftgrove/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Provider resolves the current request to a user id. Implementations
// return apperr.ErrUnauthenticated when no valid identity is present.
type Provider interface {
	CurrentUser(ctx context.Context) (primitive.ObjectID, error)
}

type ctxKey struct{}

// WithUser returns a context carrying the authenticated user id. The
// boundary layer calls this after its session middleware has resolved the
// request.
func WithUser(ctx context.Context, userID primitive.ObjectID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// FromContext returns the user id placed by WithUser, if any.
func FromContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(ctxKey{}).(primitive.ObjectID)
	if !ok || id.IsZero() {
		return primitive.NilObjectID, false
	}
	return id, true
}

// ContextProvider is a Provider backed by WithUser/FromContext.
type ContextProvider struct{}

func (ContextProvider) CurrentUser(ctx context.Context) (primitive.ObjectID, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return primitive.NilObjectID, apperr.ErrUnauthenticated
	}
	return id, nil
}

// Static is a Provider that always answers with a fixed user id. Useful in
// tests and batch tooling.
type Static struct {
	UserID primitive.ObjectID
}

func (s Static) CurrentUser(ctx context.Context) (primitive.ObjectID, error) {
	if s.UserID.IsZero() {
		return primitive.NilObjectID, apperr.ErrUnauthenticated
	}
	return s.UserID, nil
}
