// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	areasfeature "github.com/dalemusser/workhub/internal/app/features/areas"
	assignmentsfeature "github.com/dalemusser/workhub/internal/app/features/assignments"
	auditlogfeature "github.com/dalemusser/workhub/internal/app/features/auditlog"
	commentsfeature "github.com/dalemusser/workhub/internal/app/features/comments"
	functionsfeature "github.com/dalemusser/workhub/internal/app/features/functions"
	healthfeature "github.com/dalemusser/workhub/internal/app/features/health"
	linksfeature "github.com/dalemusser/workhub/internal/app/features/links"
	loginfeature "github.com/dalemusser/workhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/workhub/internal/app/features/logout"
	userinfofeature "github.com/dalemusser/workhub/internal/app/features/userinfo"
	usersfeature "github.com/dalemusser/workhub/internal/app/features/users"
	"github.com/dalemusser/workhub/internal/app/store/audit"
	"github.com/dalemusser/workhub/internal/app/store/queries/assignmentview"
	userstore "github.com/dalemusser/workhub/internal/app/store/users"
	"github.com/dalemusser/workhub/internal/app/system/auditlog"
	"github.com/dalemusser/workhub/internal/app/system/auth"
	"github.com/dalemusser/workhub/internal/app/system/localize"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. WorkHub builds the shared services
// (identity, directory, assignment view, audit log), applies session
// middleware, and mounts the JSON feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request, so position and role changes take
	// effect without signing in again.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	loc, err := localize.LoadLocation(appCfg.DisplayTimeZone)
	if err != nil {
		return nil, err
	}

	db := deps.MongoDatabase
	idp := newIdentity(appCfg, deps, logger)
	dir := newDirectory(idp, deps, logger)
	view := assignmentview.New(db, dir, loc, logger)
	auditLog := auditlog.New(audit.New(db, logger), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(idp, dir, sessionMgr, deps.AuthLimiter, auditLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	meHandler := userinfofeature.NewHandler(dir, logger)
	r.Mount("/me", userinfofeature.Routes(meHandler, sessionMgr))

	// Directory
	areasHandler := areasfeature.NewHandler(dir, auditLog, logger)
	r.Mount("/areas", areasfeature.Routes(areasHandler, sessionMgr))

	usersHandler := usersfeature.NewHandler(dir, auditLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	// Assignments, per-user links and their comments
	assignmentsHandler := assignmentsfeature.NewHandler(db, dir, deps.Events, auditLog, loc, logger)
	r.Mount("/assignments", assignmentsfeature.Routes(assignmentsHandler, sessionMgr))

	linksHandler := linksfeature.NewHandler(db, view, deps.Events, auditLog, logger)
	r.Mount("/links", linksfeature.Routes(linksHandler, sessionMgr))

	commentsHandler := commentsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/comments", commentsfeature.Routes(commentsHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	// Service-to-service operations
	functionsHandler := functionsfeature.NewHandler(dir, appCfg.FunctionsSecret, auditLog, logger)
	r.Mount("/functions", functionsfeature.Routes(functionsHandler))

	return r, nil
}
