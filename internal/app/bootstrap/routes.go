// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activitiesfeature "github.com/dalemusser/leaguehub/internal/app/features/activities"
	assistantfeature "github.com/dalemusser/leaguehub/internal/app/features/assistant"
	attendancefeature "github.com/dalemusser/leaguehub/internal/app/features/attendance"
	auditlogfeature "github.com/dalemusser/leaguehub/internal/app/features/auditlog"
	authgooglefeature "github.com/dalemusser/leaguehub/internal/app/features/authgoogle"
	dashboardfeature "github.com/dalemusser/leaguehub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/leaguehub/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/leaguehub/internal/app/features/events"
	feedfeature "github.com/dalemusser/leaguehub/internal/app/features/feed"
	healthfeature "github.com/dalemusser/leaguehub/internal/app/features/health"
	homefeature "github.com/dalemusser/leaguehub/internal/app/features/home"
	livefeature "github.com/dalemusser/leaguehub/internal/app/features/live"
	loginfeature "github.com/dalemusser/leaguehub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/leaguehub/internal/app/features/logout"
	membersfeature "github.com/dalemusser/leaguehub/internal/app/features/members"
	membershipfeature "github.com/dalemusser/leaguehub/internal/app/features/membership"
	messagesfeature "github.com/dalemusser/leaguehub/internal/app/features/messages"
	portalfeature "github.com/dalemusser/leaguehub/internal/app/features/portal"
	profilefeature "github.com/dalemusser/leaguehub/internal/app/features/profile"
	projectsfeature "github.com/dalemusser/leaguehub/internal/app/features/projects"
	userstore "github.com/dalemusser/leaguehub/internal/app/store/users"
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/certificate"
	"github.com/dalemusser/leaguehub/internal/app/system/coordinator"
	"github.com/dalemusser/leaguehub/internal/app/system/roles"
	"github.com/dalemusser/leaguehub/internal/app/system/signin"
	"github.com/dalemusser/leaguehub/internal/app/system/tutor"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so deps.Services is fully populated.
// Every feature is a JSON router mounted under its own prefix; the live
// websocket and the assistant stream sit next to them.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	svc := deps.Services

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Roles are derived on every request so an approval or a roster removal
	// takes effect at once.
	resolver := roles.New(appCfg.AdminEmail)
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db, resolver, logger))

	signinSvc := signin.New(db, resolver, sessionMgr, logger)
	league := tutor.League{Name: appCfg.LeagueName, Acronym: appCfg.LeagueAcronym, University: appCfg.LeagueUniversity}
	letterhead := certificate.Declaration{
		Institution:   appCfg.LeagueUniversity,
		LeagueName:    appCfg.LeagueName,
		LeagueAcronym: appCfg.LeagueAcronym,
		Signatories:   appCfg.Signatories,
	}

	errorsHandler := errorsfeature.NewHandler(logger)

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded files when they are kept on local disk
	if svc.Local != nil {
		r.Handle(appCfg.StorageLocalURL+"/*", svc.Local.Handler())
	}

	// Public pages
	homeHandler := homefeature.NewHandler(db, homefeature.League{
		Name:       appCfg.LeagueName,
		Acronym:    appCfg.LeagueAcronym,
		University: appCfg.LeagueUniversity,
	}, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Authentication
	googleHandler := authgooglefeature.NewHandler(db, signinSvc, svc.AuditLog, appCfg.SessionKey, secure,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	loginHandler := loginfeature.NewHandler(db, signinSvc, svc.AuditLog, svc.Limiter, googleHandler.IsConfigured(), logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/register", loginfeature.RegisterRoutes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, svc.AuditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	profileHandler := profilefeature.NewHandler(db, svc.Blobs, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	// League content
	feedHandler := feedfeature.NewHandler(db, svc.Blobs, svc.AuditLog, logger)
	r.Mount("/feed", feedfeature.Routes(feedHandler, sessionMgr))

	eventsHandler := eventsfeature.NewHandler(db, svc.Blobs, svc.AuditLog, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

	activitiesHandler := activitiesfeature.NewHandler(db, svc.AuditLog, logger)
	r.Mount("/activities", activitiesfeature.Routes(activitiesHandler, sessionMgr))

	projectsHandler := projectsfeature.NewHandler(db, svc.Blobs, svc.AuditLog, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	membersHandler := membersfeature.NewHandler(db, svc.Blobs, svc.AuditLog, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

	membershipHandler := membershipfeature.NewHandler(db, svc.Blobs, svc.AuditLog, logger)
	r.Mount("/membership", membershipfeature.Routes(membershipHandler, sessionMgr))
	r.Mount("/settings", membershipfeature.AppRoutes(membershipHandler, sessionMgr))

	// Members' area
	attendanceHandler := attendancefeature.NewHandler(db, svc.AuditLog, logger)
	r.Mount("/attendance", attendancefeature.Routes(attendanceHandler, sessionMgr))

	messagesHandler := messagesfeature.NewHandler(db, resolver, svc.Blobs, logger)
	r.Mount("/messages", messagesfeature.Routes(messagesHandler, sessionMgr))

	portalHandler := portalfeature.NewHandler(db, svc.Blobs, letterhead, svc.AuditLog, logger)
	r.Mount("/portal", portalfeature.Routes(portalHandler, sessionMgr))

	assistantHandler := assistantfeature.NewHandler(db, svc.Tutor, league, logger)
	r.Mount("/assistant", assistantfeature.Routes(assistantHandler))

	// Admin dashboard and candidate decisions
	dashboardHandler := dashboardfeature.NewHandler(db, svc.AuditLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	auditlogHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/auditlog", auditlogfeature.Routes(auditlogHandler, sessionMgr))

	// Live session state
	liveHandler := livefeature.NewHandler(sessionMgr, resolver, userstore.New(db),
		coordinator.SourcesFromHub(svc.Hub), appCfg.LiveAllowedOrigin, logger)
	r.Mount("/live", livefeature.Routes(liveHandler))

	return r, nil
}
