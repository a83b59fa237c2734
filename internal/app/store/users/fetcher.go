package userstore

import (
	"context"
	"errors"

	"github.com/AlCa38/habitica/internal/app/system/auth"
	"github.com/AlCa38/habitica/internal/app/system/timeouts"
	"github.com/AlCa38/habitica/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	store *Store
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{store: New(db)}
}

// FetchUser loads an active user by hex id. Unknown, malformed and disabled
// ids all return auth.ErrUserNotFound.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, auth.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := f.store.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	if u.Status == StatusDisabled {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

// VerifyAPIKey loads the user and checks apiKey against the stored hash.
func (f *Fetcher) VerifyAPIKey(ctx context.Context, userID, apiKey string) (*models.User, error) {
	u, err := f.FetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.APIKeyHash == "" {
		return nil, auth.ErrBadAPIKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.APIKeyHash), []byte(apiKey)); err != nil {
		return nil, auth.ErrBadAPIKey
	}
	return u, nil
}
