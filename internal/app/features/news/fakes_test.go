package news_test

import (
	"context"
	"sort"
	"sync"
	"time"

	newspoststore "github.com/AlCa38/habitica/internal/app/store/newsposts"
	"github.com/AlCa38/habitica/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memPosts is an in-memory PostStore with the same pointer rules as the
// Mongo store: any save of a published post moves the pointer; delete never
// touches it.
type memPosts struct {
	mu      sync.Mutex
	posts   map[primitive.ObjectID]models.NewsPost
	latest  models.LatestNewsPointer
	now     time.Time
	creates int
	updates int

	lastIncludeDrafts bool
	lastLimit         int64
}

func newMemPosts() *memPosts {
	return &memPosts{
		posts: map[primitive.ObjectID]models.NewsPost{},
		now:   time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memPosts) List(_ context.Context, includeDrafts bool, limit int64) ([]models.NewsPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastIncludeDrafts = includeDrafts
	m.lastLimit = limit

	var out []models.NewsPost
	for _, p := range m.posts {
		if includeDrafts || p.IsVisibleAt(m.now) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishDate.After(out[j].PublishDate) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPosts) GetByID(_ context.Context, id primitive.ObjectID) (*models.NewsPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, newspoststore.ErrNotFound
	}
	return &p, nil
}

func (m *memPosts) Create(_ context.Context, p models.NewsPost) (models.NewsPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	p.ID = primitive.NewObjectID()
	p.CreatedAt = m.now
	p.UpdatedAt = m.now
	m.posts[p.ID] = p
	if p.Published {
		m.setLatest(p)
	}
	return p, nil
}

func (m *memPosts) Update(_ context.Context, p models.NewsPost) (models.NewsPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if _, ok := m.posts[p.ID]; !ok {
		return models.NewsPost{}, newspoststore.ErrNotFound
	}
	p.UpdatedAt = m.now
	m.posts[p.ID] = p
	if p.Published {
		m.setLatest(p)
	}
	return p, nil
}

func (m *memPosts) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return newspoststore.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memPosts) Latest(context.Context) (models.LatestNewsPointer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest, nil
}

func (m *memPosts) setLatest(p models.NewsPost) {
	m.latest = models.LatestNewsPointer{
		Key:         models.LatestNewsPostKey,
		PostID:      p.ID,
		PublishDate: p.PublishDate,
		UpdatedAt:   m.now,
	}
}

// seed stores p directly, without moving the pointer.
func (m *memPosts) seed(title string, published bool, publishDate time.Time) models.NewsPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := models.NewsPost{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Text:        "Body of " + title,
		Credits:     "Bailey",
		PublishDate: publishDate,
		Published:   published,
	}
	m.posts[p.ID] = p
	return p
}

// memUsers records every SaveNewsState call.
type memUsers struct {
	mu    sync.Mutex
	saves []models.User
	err   error
}

func (m *memUsers) SaveNewsState(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *u
	cp.Notifications = append(models.Notifications(nil), u.Notifications...)
	m.saves = append(m.saves, cp)
	return nil
}

func (m *memUsers) last() (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saves) == 0 {
		return models.User{}, false
	}
	return m.saves[len(m.saves)-1], true
}
