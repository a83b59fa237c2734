// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/AlCa38/habitica/internal/app/features/news"
	"github.com/AlCa38/habitica/internal/app/system/auditlog"
	"github.com/AlCa38/habitica/internal/app/system/ratelimit"
	"github.com/AlCa38/habitica/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minSessionKeyLen is the shortest session_key accepted outside dev.
const minSessionKeyLen = 32

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for the service.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: HABITICA_MONGO_URI, HABITICA_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "habitica", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "habitica-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	// API-key brute force protection
	{Name: "auth_fail_ip_limit", Default: ratelimit.DefaultIPFailures, Desc: "Failed API-key attempts allowed per client IP per window"},
	{Name: "auth_fail_user_limit", Default: ratelimit.DefaultUserFailures, Desc: "Failed API-key attempts allowed per user per window"},
	{Name: "auth_fail_window", Default: ratelimit.DefaultWindow.String(), Desc: "Window for failed API-key attempts (e.g., 5m)"},

	// News
	{Name: "news_feed_limit", Default: int(news.DefaultFeedLimit), Desc: "Maximum posts returned by GET /news"},
	{Name: "new_stuff_title", Default: news.DefaultNewStuffTitle, Desc: "Title stored on the NEW_STUFF notification"},

	// Audit logging settings
	{Name: "audit_log_admin", Default: auditlog.ModeAll, Desc: "News admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Database deadlines
	{Name: "timeout_short", Default: timeouts.DefaultShort.String(), Desc: "Deadline for single-document database work"},
	{Name: "timeout_medium", Default: timeouts.DefaultMedium.String(), Desc: "Deadline for list and transactional database work"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, HABITICA_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HABITICA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		AuthFailIPLimit:   appValues.Int("auth_fail_ip_limit"),
		AuthFailUserLimit: appValues.Int("auth_fail_user_limit"),
		AuthFailWindow:    appValues.Duration("auth_fail_window", ratelimit.DefaultWindow),

		NewsFeedLimit: int64(appValues.Int("news_feed_limit")),
		NewStuffTitle: appValues.String("new_stuff_title"),

		AuditLogAdmin: appValues.String("audit_log_admin"),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked here to catch configuration errors
// before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must be set")
	}

	if len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d characters", minSessionKeyLen)
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == devSessionKey {
		return errors.New("session_key must be changed from the development default in prod")
	}

	if appCfg.NewsFeedLimit < 1 {
		return fmt.Errorf("news_feed_limit must be positive, got %d", appCfg.NewsFeedLimit)
	}

	switch appCfg.AuditLogAdmin {
	case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("audit_log_admin must be one of all, db, log, off; got %q", appCfg.AuditLogAdmin)
	}

	return nil
}
