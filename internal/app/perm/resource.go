// internal/app/perm/resource.go
package perm

import (
	"fmt"
	"strings"
)

// Action is the verb half of a scope-qualified resource permission.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Scope distinguishes self-service access from administrative access.
// "own" applies only when the requester owns the target resource; "any"
// applies regardless of ownership. The two are independent grants: holding
// "any" does not imply "own" and vice versa.
type Scope string

const (
	ScopeOwn Scope = "own"
	ScopeAny Scope = "any"
)

// Resource names for scope-qualified permissions.
const ResourceWishlistItem = "wishlistItem"

// ResourcePermission is a structured grant of Action on Resource at Scope.
// The original system encoded these as "action:resource:scope" strings;
// the struct form avoids concatenation and parsing at call sites, while
// String and ParseResourcePermission keep the wire form for boundaries and
// diagnostics.
type ResourcePermission struct {
	Action   Action
	Resource string
	Scope    Scope
}

func (rp ResourcePermission) String() string {
	return string(rp.Action) + ":" + rp.Resource + ":" + string(rp.Scope)
}

// Validate reports whether rp is well formed.
func (rp ResourcePermission) Validate() error {
	switch rp.Action {
	case ActionCreate, ActionUpdate, ActionDelete:
	default:
		return fmt.Errorf("invalid action %q", rp.Action)
	}
	if rp.Resource == "" {
		return fmt.Errorf("empty resource in %q", rp.String())
	}
	switch rp.Scope {
	case ScopeOwn, ScopeAny:
	default:
		return fmt.Errorf("invalid scope %q", rp.Scope)
	}
	return nil
}

// ParseResourcePermission parses the legacy "action:resource:scope" form.
func ParseResourcePermission(s string) (ResourcePermission, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return ResourcePermission{}, fmt.Errorf("malformed resource permission %q", s)
	}
	rp := ResourcePermission{
		Action:   Action(parts[0]),
		Resource: parts[1],
		Scope:    Scope(parts[2]),
	}
	if err := rp.Validate(); err != nil {
		return ResourcePermission{}, err
	}
	return rp, nil
}

// GlobalRole is a user's application-wide role, independent of any group.
type GlobalRole string

const (
	GlobalRoleUser  GlobalRole = "user"
	GlobalRoleAdmin GlobalRole = "admin"
)

// ValidGlobalRole reports whether gr is one of the closed set of global roles.
func ValidGlobalRole(gr GlobalRole) bool {
	return gr == GlobalRoleUser || gr == GlobalRoleAdmin
}

// globalGrants maps global roles to the scope-qualified permissions they
// hold. Regular users manage their own wishlist items; admins can update
// or delete anyone's. Holding "any" does not confer "own": the two scopes
// are independent grants.
var globalGrants = map[GlobalRole][]ResourcePermission{
	GlobalRoleUser: {
		{ActionCreate, ResourceWishlistItem, ScopeOwn},
		{ActionUpdate, ResourceWishlistItem, ScopeOwn},
		{ActionDelete, ResourceWishlistItem, ScopeOwn},
	},
	GlobalRoleAdmin: {
		{ActionUpdate, ResourceWishlistItem, ScopeAny},
		{ActionDelete, ResourceWishlistItem, ScopeAny},
	},
}

// GlobalRoleHas reports whether the global role gr holds the exact
// scope-qualified permission rp. Unknown roles hold nothing.
func GlobalRoleHas(gr GlobalRole, rp ResourcePermission) bool {
	for _, have := range globalGrants[gr] {
		if have == rp {
			return true
		}
	}
	return false
}

// GlobalGrantsFor returns the scope-qualified permissions held by gr.
func GlobalGrantsFor(gr GlobalRole) []ResourcePermission {
	grants := globalGrants[gr]
	out := make([]ResourcePermission, len(grants))
	copy(out, grants)
	return out
}
