package perm

import "testing"

func TestPermissionsFor_Table(t *testing.T) {
	tests := []struct {
		role Role
		want []Permission
	}{
		{RoleOwner, []Permission{PermDeleteGroup, PermAddMember, PermRemoveMember}},
		{RoleAdmin, []Permission{PermAddMember, PermRemoveMember}},
		{RoleMember, []Permission{}},
	}
	for _, tt := range tests {
		got := PermissionsFor(tt.role)
		if len(got) != len(tt.want) {
			t.Errorf("PermissionsFor(%s) returned %d permissions, want %d", tt.role, len(got), len(tt.want))
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("PermissionsFor(%s)[%d] = %s, want %s", tt.role, i, got[i], tt.want[i])
			}
		}
	}
}

func TestPermissionsFor_UnknownRoleIsEmpty(t *testing.T) {
	if got := PermissionsFor(Role("superuser")); len(got) != 0 {
		t.Errorf("unknown role should grant nothing, got %v", got)
	}
}

func TestPermissionsFor_ReturnsCopy(t *testing.T) {
	first := PermissionsFor(RoleOwner)
	first[0] = Permission("mutated")
	second := PermissionsFor(RoleOwner)
	if second[0] != PermDeleteGroup {
		t.Error("mutating the returned slice leaked into the table")
	}
}

func TestRoleHas(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleOwner, PermDeleteGroup, true},
		{RoleOwner, PermAddMember, true},
		{RoleOwner, PermRemoveMember, true},
		{RoleAdmin, PermDeleteGroup, false},
		{RoleAdmin, PermAddMember, true},
		{RoleAdmin, PermRemoveMember, true},
		{RoleMember, PermDeleteGroup, false},
		{RoleMember, PermAddMember, false},
		{RoleMember, PermRemoveMember, false},
		{Role("bogus"), PermDeleteGroup, false},
	}
	for _, tt := range tests {
		if got := RoleHas(tt.role, tt.perm); got != tt.want {
			t.Errorf("RoleHas(%s, %s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range Roles {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%s) = false", r)
		}
	}
	if ValidRole(Role("leader")) {
		t.Error("ValidRole accepted an unknown role")
	}
	if ValidRole(Role("")) {
		t.Error("ValidRole accepted the empty role")
	}
}

func TestValidateTables(t *testing.T) {
	if err := ValidateTables(); err != nil {
		t.Fatalf("ValidateTables: %v", err)
	}
}

func TestGlobalRoleHas_ScopeIndependence(t *testing.T) {
	deleteOwn := ResourcePermission{ActionDelete, ResourceWishlistItem, ScopeOwn}
	deleteAny := ResourcePermission{ActionDelete, ResourceWishlistItem, ScopeAny}

	if !GlobalRoleHas(GlobalRoleUser, deleteOwn) {
		t.Error("user should hold delete:wishlistItem:own")
	}
	if GlobalRoleHas(GlobalRoleUser, deleteAny) {
		t.Error("user must not hold delete:wishlistItem:any")
	}
	if !GlobalRoleHas(GlobalRoleAdmin, deleteAny) {
		t.Error("admin should hold delete:wishlistItem:any")
	}
	// "any" does not imply "own".
	if GlobalRoleHas(GlobalRoleAdmin, deleteOwn) {
		t.Error("admin must not implicitly hold delete:wishlistItem:own")
	}
	if GlobalRoleHas(GlobalRole("bogus"), deleteOwn) {
		t.Error("unknown global role must hold nothing")
	}
}

func TestGlobalGrantsFor(t *testing.T) {
	if got := len(GlobalGrantsFor(GlobalRoleUser)); got != 3 {
		t.Errorf("user grants = %d, want 3", got)
	}
	if got := len(GlobalGrantsFor(GlobalRoleAdmin)); got != 2 {
		t.Errorf("admin grants = %d, want 2", got)
	}
	if got := len(GlobalGrantsFor(GlobalRole("bogus"))); got != 0 {
		t.Errorf("unknown role grants = %d, want 0", got)
	}
}

func TestResourcePermission_String(t *testing.T) {
	rp := ResourcePermission{ActionDelete, ResourceWishlistItem, ScopeAny}
	if got := rp.String(); got != "delete:wishlistItem:any" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseResourcePermission(t *testing.T) {
	rp, err := ParseResourcePermission("update:wishlistItem:own")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ResourcePermission{ActionUpdate, ResourceWishlistItem, ScopeOwn}
	if rp != want {
		t.Errorf("got %+v, want %+v", rp, want)
	}

	for _, bad := range []string{
		"",
		"delete",
		"delete:wishlistItem",
		"delete:wishlistItem:own:extra",
		"shred:wishlistItem:own",
		"delete::own",
		"delete:wishlistItem:some",
	} {
		if _, err := ParseResourcePermission(bad); err == nil {
			t.Errorf("ParseResourcePermission(%q) accepted malformed input", bad)
		}
	}
}
