// internal/domain/models/user.go
package models

import (
	"time"

	"github.com/giftgrove/giftgrove/internal/app/perm"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account identity. Accounts are created and destroyed by the
// external identity system; this application treats them as read-mostly
// and only ever adjusts the global role.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"username_ci"` // lowercase, diacritics-stripped

	// GlobalRole drives the scope-qualified resource permissions
	// ("user" | "admin"). Group roles live on GroupMembership.
	GlobalRole perm.GlobalRole `bson:"global_role" json:"global_role"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
