// internal/domain/models/wishlistitem.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistItem is a single entry on a user's wishlist. Value is free text,
// 1-255 characters after sanitization. Exactly one owner; only the owner
// (or an admin holding the "any" scope grant) may modify or delete it.
type WishlistItem struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Value   string             `bson:"value" json:"value"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
