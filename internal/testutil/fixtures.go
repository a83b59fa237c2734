package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/AlCa38/habitica/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

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

// CreateUser inserts an active player account.
func (f *Fixtures) CreateUser(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, username, false, "")
}

// CreateAdmin inserts a contributor admin.
func (f *Fixtures) CreateAdmin(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, username, true, "")
}

// CreateUserWithAPIKey inserts a player whose API key hashes to apiKey.
func (f *Fixtures) CreateUserWithAPIKey(ctx context.Context, username, apiKey string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, username, false, f.hashKey(apiKey))
}

// CreateAdminWithAPIKey inserts a contributor admin whose API key hashes to apiKey.
func (f *Fixtures) CreateAdminWithAPIKey(ctx context.Context, username, apiKey string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, username, true, f.hashKey(apiKey))
}

func (f *Fixtures) hashKey(apiKey string) string {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash api key: %v", err)
	}
	return string(hash)
}

func (f *Fixtures) insertUser(ctx context.Context, username string, admin bool, apiKeyHash string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:            primitive.NewObjectID(),
		Username:      username,
		Status:        "active",
		Contributor:   models.Contributor{Admin: admin},
		APIKeyHash:    apiKeyHash,
		Notifications: models.Notifications{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateNewsPost inserts a post directly, bypassing the store.
func (f *Fixtures) CreateNewsPost(ctx context.Context, title string, published bool, publishDate time.Time) models.NewsPost {
	f.t.Helper()

	now := time.Now().UTC()
	post := models.NewsPost{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Text:        "Body of " + title,
		Credits:     "Test Credits",
		PublishDate: publishDate.UTC(),
		Published:   published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("news_posts").InsertOne(ctx, post); err != nil {
		f.t.Fatalf("failed to create test news post: %v", err)
	}
	return post
}
