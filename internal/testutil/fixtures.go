package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/giftgrove/giftgrove/internal/app/perm"
	"github.com/giftgrove/giftgrove/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a test user with the given username and global role.
func (f *Fixtures) CreateUser(ctx context.Context, username string, role perm.GlobalRole) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		Name:       "Test " + username,
		Username:   username,
		UsernameCI: text.Fold(username),
		GlobalRole: role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("create user fixture: %v", err)
	}
	return u
}

// CreateGroup inserts a test gift group with the given name.
func (f *Fixtures) CreateGroup(ctx context.Context, name string) models.GiftGroup {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.GiftGroup{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "test group",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("gift_groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("create group fixture: %v", err)
	}
	return g
}

// CreateMembership inserts a membership row joining the user to the group.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID, userID primitive.ObjectID, role perm.Role) models.GroupMembership {
	f.t.Helper()

	m := models.GroupMembership{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("group_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("create membership fixture: %v", err)
	}
	return m
}

// CreateWishlistItem inserts a wishlist item owned by the given user.
func (f *Fixtures) CreateWishlistItem(ctx context.Context, ownerID primitive.ObjectID, value string) models.WishlistItem {
	f.t.Helper()

	now := time.Now().UTC()
	item := models.WishlistItem{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("wishlist_items").InsertOne(ctx, item); err != nil {
		f.t.Fatalf("create wishlist item fixture: %v", err)
	}
	return item
}
