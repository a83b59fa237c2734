// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings: ports, TLS, logging level, CORS and body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: habitica-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Failed API-key budgets per window
	AuthFailIPLimit   int
	AuthFailUserLimit int
	AuthFailWindow    time.Duration

	// News
	NewsFeedLimit int64  // Max posts returned by GET /news
	NewStuffTitle string // Title stored on the NEW_STUFF notification by tell-me-later

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAdmin string

	// Database deadlines (zero keeps the package defaults)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
