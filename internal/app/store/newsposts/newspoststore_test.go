package newspoststore_test

import (
	"errors"
	"testing"
	"time"

	newspoststore "github.com/AlCa38/habitica/internal/app/store/newsposts"
	"github.com/AlCa38/habitica/internal/domain/models"
	"github.com/AlCa38/habitica/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newPost(title string, published bool, publishDate time.Time) models.NewsPost {
	return models.NewsPost{
		Title:       title,
		Text:        "<p>" + title + "</p>",
		Credits:     "Bailey",
		PublishDate: publishDate,
		Published:   published,
	}
}

func TestStore_Create_Published_MovesPointer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newspoststore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	created, err := store.Create(ctx, newPost("Summer Splash", true, date))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	ptr, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if ptr.PostID != created.ID {
		t.Errorf("latest pointer = %s, want %s", ptr.PostIDHex(), created.ID.Hex())
	}
	if !ptr.PublishDate.Equal(date) {
		t.Errorf("latest publish date = %v, want %v", ptr.PublishDate, date)
	}
}

func TestStore_Create_Unpublished_LeavesPointer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newspoststore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Create(ctx, newPost("Published", true, time.Now().Add(-time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, newPost("Draft", false, time.Now())); err != nil {
		t.Fatalf("Create draft failed: %v", err)
	}

	ptr, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if ptr.PostID != first.ID {
		t.Errorf("draft moved the pointer to %s", ptr.PostIDHex())
	}
}

func TestStore_Latest_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newspoststore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ptr, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if !ptr.IsZero() || ptr.PostIDHex() != "" {
		t.Errorf("expected zero pointer, got %+v", ptr)
	}
}

func TestStore_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newspoststore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newPost("Lookup", false, time.Now()))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Lookup" || got.Credits != "Bailey" || got.Published {
		t.Errorf("unexpected post: %+v", got)
	}
	if !got.PublishDate.Equal(created.PublishDate) {
		t.Errorf("publish date = %v, want %v", got.PublishDate, created.PublishDate)
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, newspoststore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newspoststore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	published, err := store.Create(ctx, newPost("Live", true, time.Now().Add(-2*time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	draft, err := store.Create(ctx, newPost("Draft", false, time.Now().Add(-time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Editing the draft without publishing leaves the pointer alone.
	draft.Title = "Draft v2"
	if _, err := store.Update(ctx, draft); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	ptr, _ := store.Latest(ctx)
	if ptr.PostID != published.ID {
		t.Errorf("unpublished update moved the pointer to %s", ptr.PostIDHex())
	}

	// Publishing it moves the pointer.
	draft.Published = true
	updated, err := store.Update(ctx, draft)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	ptr, _ = store.Latest(ctx)
	if ptr.PostID != draft.ID {
		t.Errorf("latest pointer = %s, want %s", ptr.PostIDHex(), draft.ID.Hex())
	}

	got, _ := store.GetByID(ctx, draft.ID)
	if got.Title != "Draft v2" || !got.Published {
		t.Errorf("stored post not updated: %+v", got)
	}
	if !updated.UpdatedAt.After(draft.CreatedAt) && !updated.UpdatedAt.Equal(draft.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", updated.UpdatedAt, draft.CreatedAt)
	}
}

func TestStore_Update_Republish_MovesPointerBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newspoststore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	older, _ := store.Create(ctx, newPost("Older", true, time.Now().Add(-48*time.Hour)))
	if _, err := store.Create(ctx, newPost("Newer", true, time.Now().Add(-time.Hour))); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Saving any published post moves the pointer, even an older one.
	if _, err := store.Update(ctx, older); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	ptr, _ := store.Latest(ctx)
	if ptr.PostID != older.ID {
		t.Errorf("latest pointer = %s, want %s", ptr.PostIDHex(), older.ID.Hex())
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newspoststore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ghost := newPost("Ghost", true, time.Now())
	ghost.ID = primitive.NewObjectID()

	if _, err := store.Update(ctx, ghost); !errors.Is(err, newspoststore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	n, err := db.Collection("news_posts").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("update of unknown id created %d documents", n)
	}
	ptr, _ := store.Latest(ctx)
	if !ptr.IsZero() {
		t.Errorf("update of unknown id moved the pointer to %s", ptr.PostIDHex())
	}
}

func TestStore_Delete_LeavesPointerDangling(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newspoststore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newPost("Short-lived", true, time.Now().Add(-time.Minute)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, newspoststore.ErrNotFound) {
		t.Errorf("expected deleted post to be gone, got %v", err)
	}

	ptr, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if ptr.PostID != created.ID {
		t.Errorf("delete changed the latest pointer to %q", ptr.PostIDHex())
	}

	if err := store.Delete(ctx, created.ID); !errors.Is(err, newspoststore.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := newspoststore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	oldest := fixtures.CreateNewsPost(ctx, "Oldest", true, now.Add(-72*time.Hour))
	newest := fixtures.CreateNewsPost(ctx, "Newest", true, now.Add(-time.Hour))
	draft := fixtures.CreateNewsPost(ctx, "Draft", false, now.Add(-2*time.Hour))
	scheduled := fixtures.CreateNewsPost(ctx, "Scheduled", true, now.Add(48*time.Hour))

	public, err := store.List(ctx, false, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(public) != 2 || public[0].ID != newest.ID || public[1].ID != oldest.ID {
		t.Errorf("public feed = %v, want [Newest Oldest]", titles(public))
	}

	all, err := store.List(ctx, true, 10)
	if err != nil {
		t.Fatalf("List (admin) failed: %v", err)
	}
	want := []primitive.ObjectID{scheduled.ID, newest.ID, draft.ID, oldest.ID}
	if len(all) != len(want) {
		t.Fatalf("admin feed = %v, want 4 posts", titles(all))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("admin feed[%d] = %s, want %s (%v)", i, all[i].Title, id.Hex(), titles(all))
		}
	}

	limited, err := store.List(ctx, true, 2)
	if err != nil {
		t.Fatalf("List (limit) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d posts", len(limited))
	}
}

func TestStore_List_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newspoststore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	posts, err := store.List(ctx, false, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", posts)
	}
}

func titles(posts []models.NewsPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}
