package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlCa38/habitica/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// StatusDisabled marks an account that may not sign in.
const StatusDisabled = "disabled"

// ErrNotFound is returned when no user matches.
var ErrNotFound = errors.New("user not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user %s: %w", id.Hex(), err)
	}
	return &u, nil
}

// SaveNewsState persists the read marker and the notification list of u in
// a single write, so both changes land together or not at all.
func (s *Store) SaveNewsState(ctx context.Context, u *models.User) error {
	notifications := u.Notifications
	if notifications == nil {
		notifications = models.Notifications{}
	}
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{
		"$set": bson.M{
			"flags.last_new_stuff_read": u.Flags.LastNewStuffRead,
			"notifications":             notifications,
			"updated_at":                now,
		},
	})
	if err != nil {
		return fmt.Errorf("save news state for %s: %w", u.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	u.UpdatedAt = now
	return nil
}
