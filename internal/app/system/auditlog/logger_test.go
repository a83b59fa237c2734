package auditlog_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/AlCa38/habitica/internal/app/store/audit"
	"github.com/AlCa38/habitica/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memStore struct {
	events []audit.Event
	err    error
}

func (m *memStore) Log(_ context.Context, e audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	req := httptest.NewRequest("POST", "/news", nil)

	// These should all be no-ops, not panic
	logger.Log(context.Background(), audit.Event{EventType: "test"})
	logger.NewsCreated(context.Background(), req, primitive.NewObjectID(), primitive.NewObjectID(), "t")
	logger.NewsDeleted(context.Background(), req, primitive.NewObjectID(), primitive.NewObjectID())
}

func TestLogger_Modes(t *testing.T) {
	tests := []struct {
		mode     string
		wantDB   int
		wantLogs int
	}{
		{auditlog.ModeAll, 1, 1},
		{auditlog.ModeDB, 1, 0},
		{auditlog.ModeLog, 0, 1},
		{auditlog.ModeOff, 0, 0},
		{"", 1, 1},
	}
	for _, tt := range tests {
		t.Run("mode="+tt.mode, func(t *testing.T) {
			store := &memStore{}
			core, logs := observer.New(zap.InfoLevel)
			logger := auditlog.New(store, zap.New(core), auditlog.Config{Admin: tt.mode})

			req := httptest.NewRequest("POST", "/news", nil)
			logger.NewsCreated(context.Background(), req, primitive.NewObjectID(), primitive.NewObjectID(), "Hello")

			if len(store.events) != tt.wantDB {
				t.Errorf("stored %d events, want %d", len(store.events), tt.wantDB)
			}
			if got := logs.FilterMessage("audit event").Len(); got != tt.wantLogs {
				t.Errorf("logged %d events, want %d", got, tt.wantLogs)
			}
		})
	}
}

func TestLogger_NewsEvents(t *testing.T) {
	store := &memStore{}
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: auditlog.ModeDB})

	actor := primitive.NewObjectID()
	post := primitive.NewObjectID()
	req := httptest.NewRequest("PUT", "/news/"+post.Hex(), nil)
	req.Header.Set("User-Agent", "habitica-test")

	logger.NewsCreated(context.Background(), req, actor, post, "Created")
	logger.NewsUpdated(context.Background(), req, actor, post, "Updated")
	logger.NewsDeleted(context.Background(), req, actor, post)

	want := []string{audit.EventNewsCreated, audit.EventNewsUpdated, audit.EventNewsDeleted}
	if len(store.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(store.events), len(want))
	}
	for i, ev := range store.events {
		if ev.EventType != want[i] {
			t.Errorf("event %d type = %q, want %q", i, ev.EventType, want[i])
		}
		if ev.Category != audit.CategoryAdmin || !ev.Success {
			t.Errorf("event %d: category=%q success=%v", i, ev.Category, ev.Success)
		}
		if ev.ActorID == nil || *ev.ActorID != actor || ev.TargetID == nil || *ev.TargetID != post {
			t.Errorf("event %d: actor/target not recorded", i)
		}
		if ev.UserAgent != "habitica-test" {
			t.Errorf("event %d: user agent = %q", i, ev.UserAgent)
		}
	}
	if store.events[0].Details["title"] != "Created" {
		t.Errorf("created details = %v", store.events[0].Details)
	}
}

func TestLogger_StoreFailureIsLogged(t *testing.T) {
	store := &memStore{err: errors.New("write failed")}
	core, logs := observer.New(zap.ErrorLevel)
	logger := auditlog.New(store, zap.New(core), auditlog.Config{Admin: auditlog.ModeDB})

	logger.NewsDeleted(context.Background(), httptest.NewRequest("DELETE", "/news/x", nil), primitive.NewObjectID(), primitive.NewObjectID())

	if logs.FilterMessage("failed to store audit event").Len() != 1 {
		t.Error("expected store failure to be logged")
	}
}
