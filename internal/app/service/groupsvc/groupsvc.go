// internal/app/service/groupsvc/groupsvc.go

// Package groupsvc runs the gift-group mutations: guard, then mutate, then
// audit. All authorization goes through the group guard so the role table
// is the single source of truth for who may do what.
package groupsvc

import (
	"context"
	"errors"

	"github.com/giftgrove/giftgrove/internal/app/perm"
	"github.com/giftgrove/giftgrove/internal/app/policy/grouppolicy"
	groupstore "github.com/giftgrove/giftgrove/internal/app/store/groups"
	membershipstore "github.com/giftgrove/giftgrove/internal/app/store/memberships"
	"github.com/giftgrove/giftgrove/internal/app/system/apperr"
	"github.com/giftgrove/giftgrove/internal/app/system/auditlog"
	"github.com/giftgrove/giftgrove/internal/app/system/inputval"
	"github.com/giftgrove/giftgrove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// GroupStore is the slice of the group store this service uses.
type GroupStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.GiftGroup, error)
	Create(ctx context.Context, g models.GiftGroup) (models.GiftGroup, error)
	UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc string) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// MembershipStore is the slice of the membership store this service uses.
type MembershipStore interface {
	Add(ctx context.Context, groupID, userID primitive.ObjectID, role perm.Role) error
	Remove(ctx context.Context, groupID, userID primitive.ObjectID) (int64, error)
	SetRole(ctx context.Context, groupID, userID primitive.ObjectID, role perm.Role) (int64, error)
	DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error)
	ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMembership, error)
}

type Service struct {
	groups  GroupStore
	members MembershipStore
	guard   *grouppolicy.Guard
	audit   *auditlog.Logger
	log     *zap.Logger
}

func New(groups GroupStore, members MembershipStore, guard *grouppolicy.Guard, audit *auditlog.Logger, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		groups:  groups,
		members: members,
		guard:   guard,
		audit:   audit,
		log:     log,
	}
}

// Create makes a new gift group and grants the creator the owner role.
// There is no transaction across the two writes; if the membership insert
// fails, the group is removed again on a best-effort basis.
func (s *Service) Create(ctx context.Context, actorID primitive.ObjectID, name, desc string) (models.GiftGroup, error) {
	if actorID.IsZero() {
		return models.GiftGroup{}, apperr.ErrUnauthenticated
	}
	cleanName, err := inputval.GroupName(name)
	if err != nil {
		return models.GiftGroup{}, err
	}
	cleanDesc, err := inputval.GroupDescription(desc)
	if err != nil {
		return models.GiftGroup{}, err
	}

	g, err := s.groups.Create(ctx, models.GiftGroup{
		Name:        cleanName,
		Description: cleanDesc,
	})
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			return models.GiftGroup{}, &apperr.Validation{Field: "name", Reason: "already in use"}
		}
		return models.GiftGroup{}, apperr.Store("groups.Create", err)
	}

	if err := s.members.Add(ctx, g.ID, actorID, perm.RoleOwner); err != nil {
		s.log.Error("owner membership insert failed, rolling back group",
			zap.String("group_id", g.ID.Hex()),
			zap.Error(err))
		if _, derr := s.groups.Delete(ctx, g.ID); derr != nil {
			s.log.Error("rollback delete failed", zap.String("group_id", g.ID.Hex()), zap.Error(derr))
		}
		return models.GiftGroup{}, apperr.Store("memberships.Add", err)
	}

	s.audit.GroupCreated(ctx, actorID, g.ID, g.Name)
	return g, nil
}

// Get returns a group the actor belongs to.
func (s *Service) Get(ctx context.Context, actorID, groupID primitive.ObjectID) (models.GiftGroup, error) {
	if _, err := s.guard.RequireMembership(ctx, actorID, groupID); err != nil {
		return models.GiftGroup{}, err
	}
	g, err := s.groups.GetByID(ctx, groupID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.GiftGroup{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.GiftGroup{}, apperr.Store("groups.GetByID", err)
	}
	return g, nil
}

// Members returns the group roster. Any member may see it.
func (s *Service) Members(ctx context.Context, actorID, groupID primitive.ObjectID) ([]models.GroupMembership, error) {
	if _, err := s.guard.RequireMembership(ctx, actorID, groupID); err != nil {
		return nil, err
	}
	rows, err := s.members.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, apperr.Store("memberships.ListByGroup", err)
	}
	return rows, nil
}

// UpdateInfo changes a group's name and description. Owners and admins may
// edit group info.
func (s *Service) UpdateInfo(ctx context.Context, actorID, groupID primitive.ObjectID, name, desc string) error {
	if _, err := s.guard.RequireRole(ctx, actorID, groupID, perm.RoleOwner, perm.RoleAdmin); err != nil {
		return err
	}
	cleanName, err := inputval.GroupName(name)
	if err != nil {
		return err
	}
	cleanDesc, err := inputval.GroupDescription(desc)
	if err != nil {
		return err
	}
	matched, err := s.groups.UpdateInfo(ctx, groupID, cleanName, cleanDesc)
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			return &apperr.Validation{Field: "name", Reason: "already in use"}
		}
		return apperr.Store("groups.UpdateInfo", err)
	}
	if matched == 0 {
		return apperr.ErrNotFound
	}
	s.audit.GroupUpdated(ctx, actorID, groupID)
	return nil
}

// AddMember adds a user to the group with the given role. Requires the
// addMember permission (owner or admin).
func (s *Service) AddMember(ctx context.Context, actorID, groupID, userID primitive.ObjectID, role perm.Role) error {
	if _, err := s.guard.RequirePermission(ctx, actorID, groupID, perm.PermAddMember); err != nil {
		return err
	}
	if !perm.ValidRole(role) {
		return &apperr.Validation{Field: "role", Reason: "unknown role"}
	}
	if err := s.members.Add(ctx, groupID, userID, role); err != nil {
		if errors.Is(err, membershipstore.ErrDuplicateMembership) {
			return err
		}
		return apperr.Store("memberships.Add", err)
	}
	s.audit.MemberAdded(ctx, actorID, userID, groupID, string(role))
	return nil
}

// RemoveMember removes a user from the group. Requires the removeMember
// permission (owner or admin). Removing a user with no membership row is
// NotFound.
func (s *Service) RemoveMember(ctx context.Context, actorID, groupID, userID primitive.ObjectID) error {
	if _, err := s.guard.RequirePermission(ctx, actorID, groupID, perm.PermRemoveMember); err != nil {
		return err
	}
	deleted, err := s.members.Remove(ctx, groupID, userID)
	if err != nil {
		return apperr.Store("memberships.Remove", err)
	}
	if deleted == 0 {
		return apperr.ErrNotFound
	}
	s.audit.MemberRemoved(ctx, actorID, userID, groupID)
	return nil
}

// SetRole changes a member's role. Only owners may reassign roles; the
// model permits demoting yourself, including out of the owner role.
func (s *Service) SetRole(ctx context.Context, actorID, groupID, userID primitive.ObjectID, role perm.Role) error {
	if _, err := s.guard.RequireRole(ctx, actorID, groupID, perm.RoleOwner); err != nil {
		return err
	}
	if !perm.ValidRole(role) {
		return &apperr.Validation{Field: "role", Reason: "unknown role"}
	}
	matched, err := s.members.SetRole(ctx, groupID, userID, role)
	if err != nil {
		return apperr.Store("memberships.SetRole", err)
	}
	if matched == 0 {
		return apperr.ErrNotFound
	}
	s.audit.MemberRoleChanged(ctx, actorID, userID, groupID, string(role))
	return nil
}

// Delete removes a group and all of its membership rows. Requires the
// deleteGroup permission (owner only). Membership rows go first so a
// partial failure leaves an empty group rather than orphaned rows; the two
// deletes are not transactional. Deleting an already-deleted group yields
// NotFound.
func (s *Service) Delete(ctx context.Context, actorID, groupID primitive.ObjectID) error {
	if _, err := s.guard.RequirePermission(ctx, actorID, groupID, perm.PermDeleteGroup); err != nil {
		return err
	}

	corr := auditlog.NewCorrelationID()
	removed, err := s.members.DeleteByGroup(ctx, groupID)
	if err != nil {
		return apperr.Store("memberships.DeleteByGroup", err)
	}
	deleted, err := s.groups.Delete(ctx, groupID)
	if err != nil {
		return apperr.Store("groups.Delete", err)
	}
	if deleted == 0 {
		return apperr.ErrNotFound
	}

	s.log.Info("group deleted",
		zap.String("group_id", groupID.Hex()),
		zap.String("actor_id", actorID.Hex()),
		zap.Int64("memberships_removed", removed),
		zap.String("correlation_id", corr))
	s.audit.GroupDeleted(ctx, actorID, groupID, corr, removed)
	return nil
}
