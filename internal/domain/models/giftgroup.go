// internal/domain/models/giftgroup.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GiftGroup is a circle of users exchanging gifts.
//
// NOTE:
//   - No owner field: ownership is expressed through membership rows
//     (the creator receives an "owner" membership at creation time).
//   - Member lists are never embedded here; group_memberships is the
//     authoritative join.
type GiftGroup struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
