// internal/domain/models/groupmembership.go
package models

import (
	"time"

	"github.com/giftgrove/giftgrove/internal/app/perm"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupMembership is the authoritative join between users and gift groups.
// Exactly one document per (user_id, group_id); role is a scalar
// ("owner" | "admin" | "member"). Deleting a group cascades to all of its
// membership rows.
type GroupMembership struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role    perm.Role          `bson:"role" json:"role"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
