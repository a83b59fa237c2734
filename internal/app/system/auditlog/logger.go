// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/AlCa38/habitica/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings for a category.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"
	ModeLog = "log"
	ModeOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Admin controls logging for news management events.
	// Values: "all", "db", "log", "off".
	Admin string
}

// EventStore is where audit events are persisted.
type EventStore interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger records admin actions to MongoDB and structured logs.
type Logger struct {
	store  EventStore
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store EventStore, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
// chi's RealIP middleware has already rewritten RemoteAddr when behind a proxy.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_id", event.TargetID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so tests can skip auditing.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := ModeAll
	if event.Category == audit.CategoryAdmin && l.config.Admin != "" {
		setting = l.config.Admin
	}
	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}

	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) newsEvent(r *http.Request, eventType string, actorID, postID primitive.ObjectID, details map[string]string) audit.Event {
	ev := audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	}
	if !actorID.IsZero() {
		ev.ActorID = &actorID
	}
	if !postID.IsZero() {
		ev.TargetID = &postID
	}
	return ev
}

// NewsCreated logs the creation of a news post.
func (l *Logger) NewsCreated(ctx context.Context, r *http.Request, actorID, postID primitive.ObjectID, title string) {
	l.Log(ctx, l.newsEvent(r, audit.EventNewsCreated, actorID, postID, map[string]string{"title": title}))
}

// NewsUpdated logs an edit of a news post.
func (l *Logger) NewsUpdated(ctx context.Context, r *http.Request, actorID, postID primitive.ObjectID, title string) {
	l.Log(ctx, l.newsEvent(r, audit.EventNewsUpdated, actorID, postID, map[string]string{"title": title}))
}

// NewsDeleted logs the removal of a news post.
func (l *Logger) NewsDeleted(ctx context.Context, r *http.Request, actorID, postID primitive.ObjectID) {
	l.Log(ctx, l.newsEvent(r, audit.EventNewsDeleted, actorID, postID, nil))
}
