package groupsvc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/giftgrove/giftgrove/internal/app/perm"
	"github.com/giftgrove/giftgrove/internal/app/policy/grouppolicy"
	"github.com/giftgrove/giftgrove/internal/app/service/groupsvc"
	"github.com/giftgrove/giftgrove/internal/app/store/audit"
	membershipstore "github.com/giftgrove/giftgrove/internal/app/store/memberships"
	"github.com/giftgrove/giftgrove/internal/app/system/apperr"
	"github.com/giftgrove/giftgrove/internal/app/system/auditlog"
	"github.com/giftgrove/giftgrove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// memGroups is an in-memory GroupStore.
type memGroups struct {
	groups map[primitive.ObjectID]models.GiftGroup
	err    error
}

func newMemGroups() *memGroups {
	return &memGroups{groups: make(map[primitive.ObjectID]models.GiftGroup)}
}

func (m *memGroups) GetByID(ctx context.Context, id primitive.ObjectID) (models.GiftGroup, error) {
	if m.err != nil {
		return models.GiftGroup{}, m.err
	}
	g, ok := m.groups[id]
	if !ok {
		return models.GiftGroup{}, mongo.ErrNoDocuments
	}
	return g, nil
}

func (m *memGroups) Create(ctx context.Context, g models.GiftGroup) (models.GiftGroup, error) {
	if m.err != nil {
		return models.GiftGroup{}, m.err
	}
	g.ID = primitive.NewObjectID()
	m.groups[g.ID] = g
	return g, nil
}

func (m *memGroups) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	g, ok := m.groups[id]
	if !ok {
		return 0, nil
	}
	g.Name = name
	g.Description = desc
	m.groups[id] = g
	return 1, nil
}

func (m *memGroups) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.groups[id]; !ok {
		return 0, nil
	}
	delete(m.groups, id)
	return 1, nil
}

type memberKey struct {
	group primitive.ObjectID
	user  primitive.ObjectID
}

// memMembers is an in-memory MembershipStore that doubles as the guard's
// role resolver.
type memMembers struct {
	rows   map[memberKey]perm.Role
	err    error
	addErr error
}

func newMemMembers() *memMembers {
	return &memMembers{rows: make(map[memberKey]perm.Role)}
}

func (m *memMembers) Add(ctx context.Context, groupID, userID primitive.ObjectID, role perm.Role) error {
	if m.addErr != nil {
		return m.addErr
	}
	key := memberKey{group: groupID, user: userID}
	if _, ok := m.rows[key]; ok {
		return membershipstore.ErrDuplicateMembership
	}
	m.rows[key] = role
	return nil
}

func (m *memMembers) Remove(ctx context.Context, groupID, userID primitive.ObjectID) (int64, error) {
	key := memberKey{group: groupID, user: userID}
	if _, ok := m.rows[key]; !ok {
		return 0, nil
	}
	delete(m.rows, key)
	return 1, nil
}

func (m *memMembers) SetRole(ctx context.Context, groupID, userID primitive.ObjectID, role perm.Role) (int64, error) {
	key := memberKey{group: groupID, user: userID}
	if _, ok := m.rows[key]; !ok {
		return 0, nil
	}
	m.rows[key] = role
	return 1, nil
}

func (m *memMembers) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	var n int64
	for key := range m.rows {
		if key.group == groupID {
			delete(m.rows, key)
			n++
		}
	}
	return n, nil
}

func (m *memMembers) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMembership, error) {
	var rows []models.GroupMembership
	for key, role := range m.rows {
		if key.group == groupID {
			rows = append(rows, models.GroupMembership{GroupID: key.group, UserID: key.user, Role: role})
		}
	}
	return rows, nil
}

func (m *memMembers) RoleOf(ctx context.Context, userID, groupID primitive.ObjectID) (perm.Role, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	role, ok := m.rows[memberKey{group: groupID, user: userID}]
	return role, ok, nil
}

func newService(t *testing.T) (*groupsvc.Service, *memGroups, *memMembers) {
	t.Helper()
	groups := newMemGroups()
	members := newMemMembers()
	guard := grouppolicy.New(members, nil, nil)
	svc := groupsvc.New(groups, members, guard, nil, nil)
	return svc, groups, members
}

func TestCreate_GrantsOwnerRole(t *testing.T) {
	ctx := context.Background()
	svc, _, members := newService(t)
	actor := primitive.NewObjectID()

	g, err := svc.Create(ctx, actor, "Family Gifts", "holiday exchange")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	role, ok, _ := members.RoleOf(ctx, actor, g.ID)
	if !ok || role != perm.RoleOwner {
		t.Errorf("creator role = %s (present=%v), want owner", role, ok)
	}
}

func TestCreate_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.Create(ctx, primitive.NilObjectID, "Family Gifts", "")
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("got %v, want ErrUnauthenticated", err)
	}
}

func TestCreate_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	actor := primitive.NewObjectID()

	_, err := svc.Create(ctx, actor, "   ", "")
	var ve *apperr.Validation
	if !errors.As(err, &ve) {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestUpdateInfo_RoleMatrix(t *testing.T) {
	ctx := context.Background()
	svc, groups, members := newService(t)

	owner := primitive.NewObjectID()
	g, err := svc.Create(ctx, owner, "Family Gifts", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	members.rows[memberKey{group: g.ID, user: admin}] = perm.RoleAdmin
	members.rows[memberKey{group: g.ID, user: member}] = perm.RoleMember

	if err := svc.UpdateInfo(ctx, owner, g.ID, "Renamed", "new desc"); err != nil {
		t.Errorf("owner edit refused: %v", err)
	}
	if err := svc.UpdateInfo(ctx, admin, g.ID, "Renamed Again", ""); err != nil {
		t.Errorf("admin edit refused: %v", err)
	}
	err = svc.UpdateInfo(ctx, member, g.ID, "Nope", "")
	if _, ok := apperr.AsUnauthorized(err); !ok {
		t.Errorf("member edit: got %v, want Unauthorized", err)
	}
	if groups.groups[g.ID].Name != "Renamed Again" {
		t.Errorf("final name = %q", groups.groups[g.ID].Name)
	}
}

func TestAddRemoveMember(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	owner := primitive.NewObjectID()
	g, err := svc.Create(ctx, owner, "Family Gifts", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newcomer := primitive.NewObjectID()
	if err := svc.AddMember(ctx, owner, g.ID, newcomer, perm.RoleMember); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	// A plain member cannot add or remove members.
	another := primitive.NewObjectID()
	err = svc.AddMember(ctx, newcomer, g.ID, another, perm.RoleMember)
	if _, ok := apperr.AsUnauthorized(err); !ok {
		t.Errorf("member adding member: got %v, want Unauthorized", err)
	}

	// Duplicate add surfaces the store's conflict sentinel.
	err = svc.AddMember(ctx, owner, g.ID, newcomer, perm.RoleMember)
	if !errors.Is(err, membershipstore.ErrDuplicateMembership) {
		t.Errorf("duplicate add: got %v, want ErrDuplicateMembership", err)
	}

	if err := svc.RemoveMember(ctx, owner, g.ID, newcomer); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if err := svc.RemoveMember(ctx, owner, g.ID, newcomer); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("removing absent member: got %v, want ErrNotFound", err)
	}
}

func TestSetRole_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, members := newService(t)

	owner := primitive.NewObjectID()
	g, err := svc.Create(ctx, owner, "Family Gifts", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	admin := primitive.NewObjectID()
	members.rows[memberKey{group: g.ID, user: admin}] = perm.RoleAdmin

	if err := svc.SetRole(ctx, owner, g.ID, admin, perm.RoleMember); err != nil {
		t.Errorf("owner SetRole refused: %v", err)
	}
	err = svc.SetRole(ctx, admin, g.ID, owner, perm.RoleMember)
	if _, ok := apperr.AsUnauthorized(err); !ok {
		t.Errorf("admin SetRole: got %v, want Unauthorized", err)
	}
	if err := svc.SetRole(ctx, owner, g.ID, primitive.NewObjectID(), perm.RoleMember); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SetRole on non-member: got %v, want ErrNotFound", err)
	}
}

func TestDelete_CascadesAndDeniesNonOwner(t *testing.T) {
	ctx := context.Background()
	svc, groups, members := newService(t)

	// User A creates group G and becomes owner; B is a plain member.
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()
	g, err := svc.Create(ctx, userA, "Family Gifts", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.AddMember(ctx, userA, g.ID, userB, perm.RoleMember); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	// B lacks deleteGroup.
	err = svc.Delete(ctx, userB, g.ID)
	ue, ok := apperr.AsUnauthorized(err)
	if !ok {
		t.Fatalf("member delete: got %v, want Unauthorized", err)
	}
	if ue.RequiredPermission != "deleteGroup" {
		t.Errorf("RequiredPermission = %q, want deleteGroup", ue.RequiredPermission)
	}

	// A deletes; all membership rows go with the group.
	if err := svc.Delete(ctx, userA, g.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := groups.groups[g.ID]; ok {
		t.Error("group still present after delete")
	}
	for _, u := range []primitive.ObjectID{userA, userB} {
		if _, present, _ := members.RoleOf(ctx, u, g.ID); present {
			t.Errorf("membership for %s survived the cascade", u.Hex())
		}
	}

	// With the membership rows gone, a repeat delete is refused at the guard.
	if err := svc.Delete(ctx, userA, g.ID); err == nil {
		t.Error("deleting a deleted group succeeded")
	}
}

func TestDelete_DeniedWritesSecurityAudit(t *testing.T) {
	ctx := context.Background()
	groups := newMemGroups()
	members := newMemMembers()

	core, logs := observer.New(zap.WarnLevel)
	auditor := auditlog.New(nil, zap.New(core), auditlog.Config{Admin: "off", Security: "log"})
	guard := grouppolicy.New(members, auditor, nil)
	svc := groupsvc.New(groups, members, guard, auditor, nil)

	owner := primitive.NewObjectID()
	member := primitive.NewObjectID()
	g, err := svc.Create(ctx, owner, "Family Gifts", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.AddMember(ctx, owner, g.ID, member, perm.RoleMember); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	if err := svc.Delete(ctx, member, g.ID); err == nil {
		t.Fatal("member delete succeeded")
	}

	events := logs.FilterField(zap.String("event_type", audit.EventAccessDenied)).All()
	if len(events) != 1 {
		t.Fatalf("security audit events = %d, want 1", len(events))
	}
	var actorID, requirement string
	for _, f := range events[0].Context {
		switch f.Key {
		case "actor_id":
			actorID = f.String
		case "detail_requirement":
			requirement = f.String
		}
	}
	if actorID != member.Hex() {
		t.Errorf("actor_id = %q, want %q", actorID, member.Hex())
	}
	if requirement != string(perm.PermDeleteGroup) {
		t.Errorf("requirement = %q, want %q", requirement, perm.PermDeleteGroup)
	}
}

func TestDelete_VanishedGroupIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, groups, _ := newService(t)

	owner := primitive.NewObjectID()
	g, err := svc.Create(ctx, owner, "Family Gifts", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The group document vanishes between the check and the delete, but the
	// owner's membership row is still there.
	delete(groups.groups, g.ID)

	if err := svc.Delete(ctx, owner, g.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestCreate_RollsBackOnMembershipFailure(t *testing.T) {
	ctx := context.Background()
	svc, groups, members := newService(t)
	members.addErr = errors.New("write failed")

	_, err := svc.Create(ctx, primitive.NewObjectID(), "Family Gifts", "")
	var se *apperr.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if len(groups.groups) != 0 {
		t.Error("orphaned group left behind after membership insert failure")
	}
}
