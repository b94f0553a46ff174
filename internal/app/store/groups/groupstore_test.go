package groupstore_test

import (
	"errors"
	"testing"

	groupstore "github.com/giftgrove/giftgrove/internal/app/store/groups"
	"github.com/giftgrove/giftgrove/internal/app/system/indexes"
	"github.com/giftgrove/giftgrove/internal/domain/models"
	"github.com/giftgrove/giftgrove/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.GiftGroup{
		Name:        "Family Gifts",
		Description: "holiday exchange",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := groupstore.New(db)

	if _, err := store.Create(ctx, models.GiftGroup{Name: "Family Gifts"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	// Folded comparison: case difference is still a duplicate.
	_, err := store.Create(ctx, models.GiftGroup{Name: "FAMILY GIFTS"})
	if !errors.Is(err, groupstore.ErrDuplicateGroupName) {
		t.Errorf("got %v, want ErrDuplicateGroupName", err)
	}
}

func TestStore_UpdateInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.GiftGroup{Name: "Family Gifts", Description: "old"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	matched, err := store.UpdateInfo(ctx, created.ID, "Renamed", "new")
	if err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}
	if matched != 1 {
		t.Errorf("matched = %d, want 1", matched)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Renamed" || got.Description != "new" {
		t.Errorf("after update: name=%q desc=%q", got.Name, got.Description)
	}

	matched, err = store.UpdateInfo(ctx, primitive.NewObjectID(), "Ghost", "")
	if err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}
	if matched != 0 {
		t.Errorf("matched = %d for missing group, want 0", matched)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.GiftGroup{Name: "Family Gifts"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	// Deleting the same id again is a zero-count, not an error.
	deleted, err = store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("second delete count = %d, want 0", deleted)
	}

	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByID after delete: got %v, want ErrNoDocuments", err)
	}
}
