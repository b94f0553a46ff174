// internal/app/perm/perm.go

// Package perm defines the closed role and permission vocabulary for
// GiftGrove and the fixed tables that map roles to the permissions they
// grant.
//
// There are two independent systems:
//
//   - Group-scoped roles (owner/admin/member), held per membership row.
//     A user's permission set inside a group is fully determined by their
//     single role in that group.
//   - Global roles (user/admin), held on the user record, which grant
//     scope-qualified resource permissions such as "delete a wishlist
//     item you own" vs. "delete any wishlist item".
//
// Both tables are package-level values fixed at compile time; nothing
// mutates them after init. ValidateTables is called at startup so a bad
// edit to either table fails fast instead of silently denying (or worse,
// granting) access.
package perm

import "fmt"

// Role is a user's role within a single gift group.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Roles lists every valid group role.
var Roles = []Role{RoleOwner, RoleAdmin, RoleMember}

// ValidRole reports whether r is one of the closed set of group roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// Permission is a group-scoped capability grantable to a role.
type Permission string

const (
	PermDeleteGroup  Permission = "deleteGroup"
	PermAddMember    Permission = "addMember"
	PermRemoveMember Permission = "removeMember"
)

// groupRolePermissions is the authoritative role → permission table.
//
//	owner  -> deleteGroup, addMember, removeMember
//	admin  -> addMember, removeMember
//	member -> (none)
var groupRolePermissions = map[Role][]Permission{
	RoleOwner:  {PermDeleteGroup, PermAddMember, PermRemoveMember},
	RoleAdmin:  {PermAddMember, PermRemoveMember},
	RoleMember: {},
}

// PermissionsFor returns the permissions granted by a group role. It is a
// total function: an unknown role yields an empty set, never a panic, so a
// corrupted role value in a membership row fails closed.
func PermissionsFor(r Role) []Permission {
	perms := groupRolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// RoleHas reports whether the group role r grants permission p.
func RoleHas(r Role, p Permission) bool {
	for _, have := range groupRolePermissions[r] {
		if have == p {
			return true
		}
	}
	return false
}

// ValidateTables sanity-checks both permission tables. It is invoked once
// at startup; an error here is a programming mistake, not a runtime
// condition.
func ValidateTables() error {
	if len(groupRolePermissions) != len(Roles) {
		return fmt.Errorf("group role table has %d roles, want %d", len(groupRolePermissions), len(Roles))
	}
	for _, r := range Roles {
		perms, ok := groupRolePermissions[r]
		if !ok {
			return fmt.Errorf("group role table missing role %q", r)
		}
		seen := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			if _, dup := seen[p]; dup {
				return fmt.Errorf("role %q lists permission %q twice", r, p)
			}
			seen[p] = struct{}{}
		}
	}
	for gr, grants := range globalGrants {
		if !ValidGlobalRole(gr) {
			return fmt.Errorf("global grant table has unknown role %q", gr)
		}
		for _, rp := range grants {
			if err := rp.Validate(); err != nil {
				return fmt.Errorf("global role %q: %w", gr, err)
			}
		}
	}
	return nil
}
