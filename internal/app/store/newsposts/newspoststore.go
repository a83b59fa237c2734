// internal/app/store/newsposts/newspoststore.go
package newspoststore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlCa38/habitica/internal/app/system/txn"
	"github.com/AlCa38/habitica/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no post matches the id.
var ErrNotFound = errors.New("news post not found")

// Store provides access to the news_posts collection and the latest-post
// pointer kept in news_meta.
type Store struct {
	client *mongo.Client
	posts  *mongo.Collection
	meta   *mongo.Collection
	log    *zap.Logger
	now    func() time.Time
}

// New creates a news post store.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client: db.Client(),
		posts:  db.Collection("news_posts"),
		meta:   db.Collection("news_meta"),
		log:    logger,
		// BSON dates carry millisecond precision.
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// List returns up to limit posts, newest publish date first.
// Without includeDrafts only published posts whose publish date has passed
// are returned.
func (s *Store) List(ctx context.Context, includeDrafts bool, limit int64) ([]models.NewsPost, error) {
	filter := bson.M{}
	if !includeDrafts {
		filter = bson.M{
			"published":    true,
			"publish_date": bson.M{"$lte": s.now()},
		}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "publish_date", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list news posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := []models.NewsPost{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode news posts: %w", err)
	}
	return posts, nil
}

// GetByID loads one post. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.NewsPost, error) {
	var p models.NewsPost
	if err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load news post %s: %w", id.Hex(), err)
	}
	return &p, nil
}

// Create inserts p with a new id. When p is published the latest pointer is
// moved to it in the same transaction.
func (s *Store) Create(ctx context.Context, p models.NewsPost) (models.NewsPost, error) {
	now := s.now()
	p.ID = primitive.NewObjectID()
	p.PublishDate = p.PublishDate.UTC().Truncate(time.Millisecond)
	p.CreatedAt = now
	p.UpdatedAt = now

	err := txn.Run(ctx, s.client, s.log, func(ctx context.Context) error {
		if _, err := s.posts.InsertOne(ctx, p); err != nil {
			return fmt.Errorf("insert news post: %w", err)
		}
		if p.Published {
			return s.setLatest(ctx, p.ID, p.PublishDate)
		}
		return nil
	})
	if err != nil {
		return models.NewsPost{}, err
	}
	return p, nil
}

// Update replaces the stored post with p. When p is published the latest
// pointer is moved to it in the same transaction, whether or not it already
// pointed there. Returns ErrNotFound if the post no longer exists.
func (s *Store) Update(ctx context.Context, p models.NewsPost) (models.NewsPost, error) {
	p.PublishDate = p.PublishDate.UTC().Truncate(time.Millisecond)
	p.UpdatedAt = s.now()

	err := txn.Run(ctx, s.client, s.log, func(ctx context.Context) error {
		res, err := s.posts.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
		if err != nil {
			return fmt.Errorf("replace news post %s: %w", p.ID.Hex(), err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		if p.Published {
			return s.setLatest(ctx, p.ID, p.PublishDate)
		}
		return nil
	})
	if err != nil {
		return models.NewsPost{}, err
	}
	return p, nil
}

// Delete removes a post. The latest pointer is left as is, even when it
// names the deleted post.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete news post %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Latest returns the latest pointer. Before anything has been published it
// returns the zero pointer and no error.
func (s *Store) Latest(ctx context.Context) (models.LatestNewsPointer, error) {
	var ptr models.LatestNewsPointer
	err := s.meta.FindOne(ctx, bson.M{"_id": models.LatestNewsPostKey}).Decode(&ptr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.LatestNewsPointer{Key: models.LatestNewsPostKey}, nil
	}
	if err != nil {
		return models.LatestNewsPointer{}, fmt.Errorf("load latest news pointer: %w", err)
	}
	return ptr, nil
}

func (s *Store) setLatest(ctx context.Context, id primitive.ObjectID, publishDate time.Time) error {
	_, err := s.meta.UpdateOne(ctx,
		bson.M{"_id": models.LatestNewsPostKey},
		bson.M{"$set": bson.M{
			"post_id":      id,
			"publish_date": publishDate,
			"updated_at":   s.now(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("update latest news pointer: %w", err)
	}
	return nil
}
