// Package auth resolves the caller of each request and guards routes that
// need a signed-in user or a contributor admin.
//
// Two credentials are accepted: the x-api-user / x-api-key header pair, and
// a session cookie carrying the user id. Requests with neither proceed
// anonymously.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AlCa38/habitica/internal/app/system/apierr"
	"github.com/AlCa38/habitica/internal/app/system/ratelimit"
	"github.com/AlCa38/habitica/internal/app/system/respond"
	"github.com/AlCa38/habitica/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Header names for API credentials.
const (
	HeaderAPIUser = "x-api-user"
	HeaderAPIKey  = "x-api-key"
)

// SessionUserIDKey is the session value holding the signed-in user's id
// hex. The account service that handles sign-in writes it into a cookie
// signed with the shared session_key; this service only reads it.
const SessionUserIDKey = "user_id"

// ErrUserNotFound is returned by a UserFetcher when the id is unknown or the
// account cannot sign in.
var ErrUserNotFound = errors.New("user not found")

// ErrBadAPIKey is returned by a UserFetcher when the key does not match.
var ErrBadAPIKey = errors.New("api key mismatch")

// UserFetcher loads users for the auth middleware.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) (*models.User, error)
	VerifyAPIKey(ctx context.Context, userID, apiKey string) (*models.User, error)
}

// SessionManager owns the cookie store and the user lookup.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	limiter *ratelimit.KeyLimiter
	log     *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
// In production (secure=true) cookies are Secure + SameSite=None; over plain
// http in development use secure=false so browsers accept them.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "habitica-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher wires the user lookup. Until it is set every request is
// treated as anonymous.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// SetKeyLimiter enables throttling of failed API-key attempts.
func (sm *SessionManager) SetKeyLimiter(kl *ratelimit.KeyLimiter) {
	sm.limiter = kl
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current user                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user resolved for this request and a found flag.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok && u != nil
}

func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects u directly, bypassing LoadUser. For tests.
func WithTestUser(r *http.Request, u *models.User) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadUser resolves the caller and stores it in the request context.
// Header credentials take precedence; if they are present but wrong the
// request is rejected with 401 instead of falling back to anonymous.
func (sm *SessionManager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sm.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		apiUser := strings.TrimSpace(r.Header.Get(HeaderAPIUser))
		apiKey := strings.TrimSpace(r.Header.Get(HeaderAPIKey))
		if apiUser != "" || apiKey != "" {
			if apiUser == "" || apiKey == "" {
				respond.Error(w, r, sm.log, apierr.NotAuthorized(apierr.KeyMissingAuth))
				return
			}
			if sm.limiter != nil && sm.limiter.Blocked(r, apiUser) {
				sm.log.Warn("api key attempts throttled",
					zap.String("user_id", apiUser),
					zap.String("ip", ratelimit.ClientIP(r)))
				respond.Error(w, r, sm.log, apierr.TooManyRequests(apierr.KeyTooManyAttempts))
				return
			}
			u, err := sm.fetcher.VerifyAPIKey(r.Context(), apiUser, apiKey)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrBadAPIKey) {
					if sm.limiter != nil {
						sm.limiter.Failed(r, apiUser)
					}
					respond.Error(w, r, sm.log, apierr.NotAuthorized(apierr.KeyInvalidCreds))
					return
				}
				respond.Error(w, r, sm.log, err)
				return
			}
			if sm.limiter != nil {
				sm.limiter.Succeeded(apiUser)
			}
			next.ServeHTTP(w, withUser(r, u))
			return
		}

		if u := sm.sessionUser(r); u != nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// sessionUser returns the user named by the session cookie, or nil.
func (sm *SessionManager) sessionUser(r *http.Request) *models.User {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		// A cookie signed with a rotated key fails to decode; treat as anonymous.
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			sm.log.Debug("ignoring undecodable session cookie", zap.Error(err))
		} else {
			sm.log.Warn("session load failed", zap.Error(err))
		}
		return nil
	}
	id, _ := sess.Values[SessionUserIDKey].(string)
	if id == "" {
		return nil
	}
	u, err := sm.fetcher.FetchUser(r.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			sm.log.Warn("session user lookup failed", zap.String("user_id", id), zap.Error(err))
		}
		return nil
	}
	return u
}

// RequireSignedIn rejects anonymous requests with 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			respond.Error(w, r, sm.log, apierr.NotAuthorized(apierr.KeyMissingAuth))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and signed-in users who
// are not contributor admins with 403.
func (sm *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			respond.Error(w, r, sm.log, apierr.NotAuthorized(apierr.KeyMissingAuth))
			return
		}
		if !u.IsContributorAdmin() {
			respond.Error(w, r, sm.log, apierr.Forbidden(apierr.KeyNoAdminAccess))
			return
		}
		next.ServeHTTP(w, r)
	})
}
