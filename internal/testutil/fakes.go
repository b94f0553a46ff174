package testutil

import (
	"context"

	"github.com/giftgrove/giftgrove/internal/app/perm"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type roleKey struct {
	user  primitive.ObjectID
	group primitive.ObjectID
}

// FakeRoles is an in-memory role resolver for guard tests. Calls counts
// resolver lookups so tests can assert the unauthenticated short-circuit
// never consulted the store.
type FakeRoles struct {
	roles map[roleKey]perm.Role
	Err   error
	Calls int
}

func NewFakeRoles() *FakeRoles {
	return &FakeRoles{roles: make(map[roleKey]perm.Role)}
}

// Set records the user's role in the group.
func (f *FakeRoles) Set(userID, groupID primitive.ObjectID, role perm.Role) {
	f.roles[roleKey{user: userID, group: groupID}] = role
}

// Clear removes the user's membership in the group.
func (f *FakeRoles) Clear(userID, groupID primitive.ObjectID) {
	delete(f.roles, roleKey{user: userID, group: groupID})
}

func (f *FakeRoles) RoleOf(ctx context.Context, userID, groupID primitive.ObjectID) (perm.Role, bool, error) {
	f.Calls++
	if f.Err != nil {
		return "", false, f.Err
	}
	role, ok := f.roles[roleKey{user: userID, group: groupID}]
	return role, ok, nil
}

// FakeGlobalRoles is an in-memory global role resolver for guard tests.
type FakeGlobalRoles struct {
	roles map[primitive.ObjectID]perm.GlobalRole
	Err   error
	Calls int
}

func NewFakeGlobalRoles() *FakeGlobalRoles {
	return &FakeGlobalRoles{roles: make(map[primitive.ObjectID]perm.GlobalRole)}
}

// Set records the user's global role.
func (f *FakeGlobalRoles) Set(userID primitive.ObjectID, role perm.GlobalRole) {
	f.roles[userID] = role
}

func (f *FakeGlobalRoles) GlobalRoleOf(ctx context.Context, userID primitive.ObjectID) (perm.GlobalRole, bool, error) {
	f.Calls++
	if f.Err != nil {
		return "", false, f.Err
	}
	role, ok := f.roles[userID]
	return role, ok, nil
}
