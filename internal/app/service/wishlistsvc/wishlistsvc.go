// internal/app/service/wishlistsvc/wishlistsvc.go

// Package wishlistsvc runs wishlist item mutations. Ownership picks the
// scope ("own" for your items, "any" for someone else's) and the resource
// guard decides whether the actor's global role carries that grant.
package wishlistsvc

import (
	"context"
	"errors"

	"github.com/giftgrove/giftgrove/internal/app/perm"
	"github.com/giftgrove/giftgrove/internal/app/policy/resourcepolicy"
	"github.com/giftgrove/giftgrove/internal/app/system/apperr"
	"github.com/giftgrove/giftgrove/internal/app/system/auditlog"
	"github.com/giftgrove/giftgrove/internal/app/system/inputval"
	"github.com/giftgrove/giftgrove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ItemStore is the slice of the wishlist store this service uses.
type ItemStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.WishlistItem, error)
	Create(ctx context.Context, ownerID primitive.ObjectID, value string) (models.WishlistItem, error)
	OwnerOf(ctx context.Context, itemID primitive.ObjectID) (primitive.ObjectID, bool, error)
	UpdateValue(ctx context.Context, itemID primitive.ObjectID, value string) (int64, error)
	Delete(ctx context.Context, itemID primitive.ObjectID) (int64, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.WishlistItem, error)
}

type Service struct {
	items ItemStore
	guard *resourcepolicy.Guard
	audit *auditlog.Logger
	log   *zap.Logger
}

func New(items ItemStore, guard *resourcepolicy.Guard, audit *auditlog.Logger, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		items: items,
		guard: guard,
		audit: audit,
		log:   log,
	}
}

func grant(action perm.Action, scope perm.Scope) perm.ResourcePermission {
	return perm.ResourcePermission{
		Action:   action,
		Resource: perm.ResourceWishlistItem,
		Scope:    scope,
	}
}

// Create adds an item to the actor's own wishlist. Items are always created
// under the actor's id, so only the create:own grant applies.
func (s *Service) Create(ctx context.Context, actorID primitive.ObjectID, value string) (models.WishlistItem, error) {
	if err := s.guard.Require(ctx, actorID, grant(perm.ActionCreate, perm.ScopeOwn)); err != nil {
		return models.WishlistItem{}, err
	}
	clean, err := inputval.WishlistValue(value)
	if err != nil {
		return models.WishlistItem{}, err
	}
	item, err := s.items.Create(ctx, actorID, clean)
	if err != nil {
		return models.WishlistItem{}, apperr.Store("wishlist.Create", err)
	}
	s.audit.WishlistItemCreated(ctx, actorID, item.ID)
	return item, nil
}

// resolveScope looks the item up and returns the scope the actor needs for
// it. A missing item is NotFound before any authorization verdict.
func (s *Service) resolveScope(ctx context.Context, actorID, itemID primitive.ObjectID) (perm.Scope, error) {
	if actorID.IsZero() {
		return "", apperr.ErrUnauthenticated
	}
	owner, found, err := s.items.OwnerOf(ctx, itemID)
	if err != nil {
		return "", apperr.Store("wishlist.OwnerOf", err)
	}
	if !found {
		return "", apperr.ErrNotFound
	}
	return resourcepolicy.ScopeFor(actorID, owner), nil
}

// Get returns a wishlist item. Reading is open to any authenticated user;
// group members browse each other's lists.
func (s *Service) Get(ctx context.Context, actorID, itemID primitive.ObjectID) (models.WishlistItem, error) {
	if actorID.IsZero() {
		return models.WishlistItem{}, apperr.ErrUnauthenticated
	}
	item, err := s.items.GetByID(ctx, itemID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.WishlistItem{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.WishlistItem{}, apperr.Store("wishlist.GetByID", err)
	}
	return item, nil
}

// ListByOwner returns a user's wishlist, newest first.
func (s *Service) ListByOwner(ctx context.Context, actorID, ownerID primitive.ObjectID) ([]models.WishlistItem, error) {
	if actorID.IsZero() {
		return nil, apperr.ErrUnauthenticated
	}
	items, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Store("wishlist.ListByOwner", err)
	}
	return items, nil
}

// Update replaces an item's text. The actor needs update:wishlistItem:own
// for their own item or update:wishlistItem:any for another user's.
func (s *Service) Update(ctx context.Context, actorID, itemID primitive.ObjectID, value string) error {
	scope, err := s.resolveScope(ctx, actorID, itemID)
	if err != nil {
		return err
	}
	if err := s.guard.Require(ctx, actorID, grant(perm.ActionUpdate, scope)); err != nil {
		return err
	}
	clean, err := inputval.WishlistValue(value)
	if err != nil {
		return err
	}
	matched, err := s.items.UpdateValue(ctx, itemID, clean)
	if err != nil {
		return apperr.Store("wishlist.UpdateValue", err)
	}
	if matched == 0 {
		// Vanished between the ownership read and the write.
		return apperr.ErrNotFound
	}
	s.audit.WishlistItemUpdated(ctx, actorID, itemID, string(scope))
	return nil
}

// Delete removes a wishlist item. The actor needs delete:wishlistItem:own
// for their own item or delete:wishlistItem:any for another user's.
// Deleting an id that no longer exists yields NotFound, so a second delete
// of the same item reports NotFound rather than success.
func (s *Service) Delete(ctx context.Context, actorID, itemID primitive.ObjectID) error {
	scope, err := s.resolveScope(ctx, actorID, itemID)
	if err != nil {
		return err
	}
	if err := s.guard.Require(ctx, actorID, grant(perm.ActionDelete, scope)); err != nil {
		return err
	}
	deleted, err := s.items.Delete(ctx, itemID)
	if err != nil {
		return apperr.Store("wishlist.Delete", err)
	}
	if deleted == 0 {
		return apperr.ErrNotFound
	}
	s.log.Info("wishlist item deleted",
		zap.String("item_id", itemID.Hex()),
		zap.String("actor_id", actorID.Hex()),
		zap.String("scope", string(scope)))
	s.audit.WishlistItemDeleted(ctx, actorID, itemID, string(scope))
	return nil
}
