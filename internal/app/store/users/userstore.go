// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/giftgrove/giftgrove/internal/app/perm"
	"github.com/giftgrove/giftgrove/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrDuplicateUsername is returned when attempting to create a user with
	// a username that already exists (case-insensitive).
	ErrDuplicateUsername = errors.New("a user with this username already exists")

	errBadGlobalRole = errors.New(`global role must be "user" or "admin"`)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up a user by username, case-insensitively.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.UsernameCI = text.Fold(u.Username)
	if u.GlobalRole == "" {
		u.GlobalRole = perm.GlobalRoleUser
	}
	if !perm.ValidGlobalRole(u.GlobalRole) {
		return models.User{}, errBadGlobalRole
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// GlobalRoleOf returns the user's global role. The second return is false
// when the user does not exist.
func (s *Store) GlobalRoleOf(ctx context.Context, userID primitive.ObjectID) (perm.GlobalRole, bool, error) {
	var doc struct {
		GlobalRole perm.GlobalRole `bson:"global_role"`
	}
	err := s.c.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.GlobalRole, true, nil
}

// SetGlobalRole updates the user's global role. Returns the number of
// documents matched (0 or 1).
func (s *Store) SetGlobalRole(ctx context.Context, userID primitive.ObjectID, role perm.GlobalRole) (int64, error) {
	if !perm.ValidGlobalRole(role) {
		return 0, errBadGlobalRole
	}
	res, err := s.c.UpdateByID(ctx, userID, bson.M{"$set": bson.M{
		"global_role": role,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
