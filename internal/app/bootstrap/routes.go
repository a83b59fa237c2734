// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/AlCa38/habitica/internal/app/features/health"
	newsfeature "github.com/AlCa38/habitica/internal/app/features/news"
	auditstore "github.com/AlCa38/habitica/internal/app/store/audit"
	userstore "github.com/AlCa38/habitica/internal/app/store/users"
	"github.com/AlCa38/habitica/internal/app/system/auditlog"
	"github.com/AlCa38/habitica/internal/app/system/auth"
	"github.com/AlCa38/habitica/internal/app/system/limits"
	"github.com/AlCa38/habitica/internal/app/system/metrics"
	"github.com/AlCa38/habitica/internal/app/system/ratelimit"
	"github.com/AlCa38/habitica/internal/app/system/requestlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// keyLimiter is created by BuildHandler and stopped by Shutdown.
var keyLimiter *ratelimit.KeyLimiter

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg != nil && coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Users are fetched fresh on each request so admin changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))
	keyLimiter = ratelimit.NewKeyLimiter(appCfg.AuthFailIPLimit, appCfg.AuthFailUserLimit, appCfg.AuthFailWindow)
	sessionMgr.SetKeyLimiter(keyLimiter)

	return NewRouter(appCfg, deps, sessionMgr, metrics.New(), logger), nil
}

// NewRouter mounts every feature on a chi router. It is split from
// BuildHandler so the route table can be built without a live server, as
// cmd/routesdoc does.
func NewRouter(appCfg AppConfig, deps DBDeps, sessionMgr *auth.SessionManager, m *metrics.Metrics, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestlog.Middleware(logger))
	r.Use(m.Middleware)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", m.Handler())

	audit := auditlog.New(auditstore.New(deps.MongoDatabase), logger, auditlog.Config{Admin: appCfg.AuditLogAdmin})
	newsHandler := newsfeature.NewHandler(deps.MongoDatabase, audit, m, newsfeature.Options{
		FeedLimit:     appCfg.NewsFeedLimit,
		NewStuffTitle: appCfg.NewStuffTitle,
	}, logger)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(middleware.RequestSize(limits.MaxNewsBodySize))
		// Loads the current user from API headers or the session cookie.
		r.Use(sessionMgr.LoadUser)
		r.Mount("/news", newsfeature.Routes(newsHandler, sessionMgr))
	})

	return r
}
