// internal/app/features/news/handler.go
package news

import (
	"context"

	newspoststore "github.com/AlCa38/habitica/internal/app/store/newsposts"
	userstore "github.com/AlCa38/habitica/internal/app/store/users"
	"github.com/AlCa38/habitica/internal/app/system/auditlog"
	"github.com/AlCa38/habitica/internal/app/system/metrics"
	"github.com/AlCa38/habitica/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultFeedLimit is how many posts GET /news returns when not configured.
const DefaultFeedLimit = 10

// DefaultNewStuffTitle is the title placed on the NEW_STUFF notification
// when a user asks to be reminded later.
const DefaultNewStuffTitle = "LAST CHANCE FOR LAVA DRAGON SET AND SPOTLIGHT ON BACK TO SCHOOL"

// PostStore is the news post persistence the handlers need.
type PostStore interface {
	List(ctx context.Context, includeDrafts bool, limit int64) ([]models.NewsPost, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.NewsPost, error)
	Create(ctx context.Context, p models.NewsPost) (models.NewsPost, error)
	Update(ctx context.Context, p models.NewsPost) (models.NewsPost, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Latest(ctx context.Context) (models.LatestNewsPointer, error)
}

// UserStore persists the per-user news state.
type UserStore interface {
	SaveNewsState(ctx context.Context, u *models.User) error
}

// Options are the configurable parts of the news endpoints.
type Options struct {
	FeedLimit     int64
	NewStuffTitle string
}

// Handler owns all news handlers.
type Handler struct {
	Posts         PostStore
	Users         UserStore
	Audit         *auditlog.Logger
	Metrics       *metrics.Metrics
	Log           *zap.Logger
	FeedLimit     int64
	NewStuffTitle string
}

// NewHandler constructs a news Handler backed by MongoDB.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, m *metrics.Metrics, opts Options, logger *zap.Logger) *Handler {
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = DefaultFeedLimit
	}
	if opts.NewStuffTitle == "" {
		opts.NewStuffTitle = DefaultNewStuffTitle
	}
	return &Handler{
		Posts:         newspoststore.New(db, logger),
		Users:         userstore.New(db),
		Audit:         audit,
		Metrics:       m,
		Log:           logger,
		FeedLimit:     opts.FeedLimit,
		NewStuffTitle: opts.NewStuffTitle,
	}
}
