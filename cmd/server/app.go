package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/UTurtleDev/gcl/auth"
	"github.com/UTurtleDev/gcl/gate"
	"github.com/UTurtleDev/gcl/i18n"
	"github.com/UTurtleDev/gcl/internal/config"
	"github.com/UTurtleDev/gcl/internal/handlers"
	"github.com/UTurtleDev/gcl/internal/lookup"
	"github.com/UTurtleDev/gcl/internal/metrics"
	"github.com/UTurtleDev/gcl/internal/middleware"
	"github.com/UTurtleDev/gcl/internal/policy"
	"github.com/UTurtleDev/gcl/internal/services"
	"github.com/UTurtleDev/gcl/internal/session"
	"github.com/UTurtleDev/gcl/internal/sirene"
	"github.com/UTurtleDev/gcl/view"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const profileCacheTTL = 5 * time.Minute

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	logger  *zap.Logger

	staffGate *policy.StaffGate
	sessions  *session.Manager

	pages  *handlers.PageHandler
	api    *handlers.APIHandler
	client *handlers.ClientHandler
	collab *handlers.CollaborateurHandler
	auth   *handlers.AuthHandler
	export *handlers.ExportHandler
	health *handlers.HealthHandler
}

// NewApp wires services and handlers. rdb is nil unless a Redis backend is configured.
func NewApp(cfg *config.Config, db *gorm.DB, rdb redis.UniversalClient, log *zap.Logger) (*App, error) {
	registry := sirene.NewClient(cfg.Registry.BaseURL, cfg.Registry.APIKey, cfg.Registry.Timeout,
		sirene.WithLogger(log.Named("sirene")))

	var cache lookup.Cache
	var store session.Store
	switch cfg.Cache.Backend {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("cache backend redis needs a redis client")
		}
		cache = lookup.NewRedisCache(rdb)
	default:
		cache = lookup.NewMemoryCache()
	}
	switch cfg.Session.Backend {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("session backend redis needs a redis client")
		}
		store = session.NewRedisStore(rdb)
	default:
		store = session.NewMemoryStore()
	}
	resolver := lookup.NewService(registry, cache, cfg.Cache.TTL, lookup.WithLogger(log.Named("lookup")))

	companies := services.NewCompanyService(db)
	questionnaires := services.NewQuestionnaireService(db)
	identification := services.NewIdentificationService(resolver, companies, questionnaires)
	staff := services.NewStaffService(db)
	dashboard := services.NewDashboardService(db)
	export := services.NewExportService(db, cfg.App.Location())

	sessions := session.NewManager(store,
		session.WithTTL(cfg.Session.TTL),
		session.WithSecureCookie(cfg.Session.Secure),
		session.WithLogger(log.Named("session")),
	)
	staffGate := policy.NewStaffGate(db, profileCacheTTL)

	auth.SetSecret(cfg.Session.Secret)
	auth.SetUserVerifier(staffGate.CanAccess)

	view.SetDevMode(cfg.App.Dev)
	view.SetLocation(cfg.App.Location())
	view.SetCanProfileResolver(func(r *http.Request, resource, action string) bool {
		return staffGate.CanProfile(r.Context(), gate.Action(action), resource)
	})
	cabinet := cfg.Cabinet
	view.SetDefaultsProvider(func(r *http.Request) map[string]any {
		return map[string]any{
			"CabinetName":    cabinet.Name,
			"CabinetAddress": cabinet.Address,
			"CabinetEmail":   cabinet.Email,
			"CabinetPhone":   cabinet.Phone,
			"Flashes":        session.FromContext(r.Context()).Flashes(),
			"CurrentPath":    r.URL.Path,
		}
	})

	app := &App{
		mux:       http.NewServeMux(),
		logger:    log,
		staffGate: staffGate,
		sessions:  sessions,
		pages:     handlers.NewPageHandler(),
		api:       handlers.NewAPIHandler(resolver, staff),
		client:    handlers.NewClientHandler(identification, questionnaires, staff),
		collab:    handlers.NewCollaborateurHandler(identification, questionnaires, companies, dashboard),
		auth:      handlers.NewAuthHandler(staff, staffGate, sessions),
		export:    handlers.NewExportHandler(export),
		health:    handlers.NewHealthHandler(db, rdb),
	}
	app.setupRoutes()
	app.handler = app.middleware(app.mux)
	return app, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes (no auth required)
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.HandleFunc("GET /{$}", a.pages.Home)
	a.mux.HandleFunc("GET /mentions-legales/{$}", a.pages.MentionsLegales)
	a.mux.HandleFunc("GET /api/validate-siren/{$}", a.api.ValidateSIREN)
	a.mux.HandleFunc("GET /get-comptables/{$}", a.api.GetComptables)

	a.mux.HandleFunc("GET /client/introduction/{$}", a.pages.ClientIntroduction)
	a.mux.HandleFunc("GET /client/identification/{$}", a.client.Identification)
	a.mux.HandleFunc("POST /client/identification/{$}", a.client.Identify)
	a.mux.HandleFunc("GET /client/questionnaire/{$}", a.client.Questionnaire)
	a.mux.HandleFunc("POST /client/questionnaire/{$}", a.client.Submit)
	a.mux.HandleFunc("GET /client/recapitulatif/{$}", a.client.Recap)

	a.mux.HandleFunc("GET /collaborateur/login/{$}", a.auth.LoginPage)
	a.mux.HandleFunc("POST /collaborateur/login/{$}", a.auth.Login)
	a.mux.HandleFunc("POST /collaborateur/logout/{$}", a.auth.Logout)

	// ─────────────────────────────────────────────────────────────────────────
	// Staff routes (signed-in collaborateur with company permissions)
	// ─────────────────────────────────────────────────────────────────────────
	c := a.collab
	a.mux.Handle("GET /collaborateur/dashboard/{$}", a.staff(gate.ActionList, c.Dashboard))
	a.mux.Handle("GET /collaborateur/identification/{$}", a.staff(gate.ActionCreate, c.Identification))
	a.mux.Handle("POST /collaborateur/identification/{$}", a.staff(gate.ActionCreate, c.Identify))
	a.mux.Handle("GET /collaborateur/questionnaire/{$}", a.staff(gate.ActionCreate, c.Questionnaire))
	a.mux.Handle("POST /collaborateur/questionnaire/{$}", a.staff(gate.ActionCreate, c.Submit))
	a.mux.Handle("GET /collaborateur/recapitulatif/{$}", a.staff(gate.ActionCreate, c.Recap))
	a.mux.Handle("GET /collaborateur/voir/{siren}/{$}", a.staff(gate.ActionView, c.Voir))
	a.mux.Handle("POST /collaborateur/archiver/{siren}/{$}", a.staff(gate.ActionArchive, c.Archiver))
	a.mux.Handle("GET /collaborateur/editer/{siren}/{$}", a.staff(gate.ActionUpdate, c.Editer))
	a.mux.Handle("POST /collaborateur/editer/{siren}/{$}", a.staff(gate.ActionUpdate, c.Update))
	a.mux.Handle("GET /collaborateur/export-csv/{$}", a.staff(gate.ActionExport, a.export.CSV))

	// ─────────────────────────────────────────────────────────────────────────
	// Operational routes
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.HandleFunc("GET /health", a.health.Health)
	a.mux.HandleFunc("GET /healthz", a.health.Healthz)
	a.mux.Handle("GET /metrics", metrics.Handler())

	// ─────────────────────────────────────────────────────────────────────────
	// Static files
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// staff requires a signed-in user whose profile grants action on companies.
func (a *App) staff(action gate.Action, h http.HandlerFunc) http.Handler {
	return auth.RequireAuth(a.staffGate.RequirePermission(policy.ResourceCompany, action)(h))
}

// middleware wraps the mux, outermost first. Metrics sit right on the mux so
// that the matched pattern is visible to them.
func (a *App) middleware(mux http.Handler) http.Handler {
	h := metrics.Middleware(mux)
	h = i18n.Middleware(h)
	h = auth.Middleware(h)
	h = a.sessions.Middleware(h)
	h = middleware.Recover(h)
	h = middleware.Logging(a.logger)(h)
	return middleware.RequestID(h)
}
