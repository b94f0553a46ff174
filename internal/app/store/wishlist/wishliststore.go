// internal/app/store/wishlist/wishliststore.go
package wishliststore

import (
	"context"
	"errors"
	"time"

	"github.com/giftgrove/giftgrove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("wishlist_items")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.WishlistItem, error) {
	var item models.WishlistItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return models.WishlistItem{}, err
	}
	return item, nil
}

func (s *Store) Create(ctx context.Context, ownerID primitive.ObjectID, value string) (models.WishlistItem, error) {
	now := time.Now().UTC()
	item := models.WishlistItem{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, item); err != nil {
		return models.WishlistItem{}, err
	}
	return item, nil
}

// OwnerOf returns the owner of the item. The second return is false when
// the item does not exist; that is not an error.
func (s *Store) OwnerOf(ctx context.Context, itemID primitive.ObjectID) (primitive.ObjectID, bool, error) {
	var doc struct {
		OwnerID primitive.ObjectID `bson:"owner_id"`
	}
	err := s.c.FindOne(ctx, bson.M{"_id": itemID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, false, nil
	}
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return doc.OwnerID, true, nil
}

// UpdateValue replaces the item's text. Returns the number of documents
// matched (0 or 1).
func (s *Store) UpdateValue(ctx context.Context, itemID primitive.ObjectID, value string) (int64, error) {
	res, err := s.c.UpdateByID(ctx, itemID, bson.M{"$set": bson.M{
		"value":      value,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes an item by ID. Returns the number of documents deleted
// (0 or 1).
func (s *Store) Delete(ctx context.Context, itemID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": itemID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByOwner returns a user's wishlist, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.WishlistItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var items []models.WishlistItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
