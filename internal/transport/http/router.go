package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	auditapp "github.com/identity-verify-api/internal/application/audit"
	"github.com/identity-verify-api/internal/application/auth"
	listapp "github.com/identity-verify-api/internal/application/list"
	"github.com/identity-verify-api/internal/application/notify"
	"github.com/identity-verify-api/internal/application/tokenmgr"
	"github.com/identity-verify-api/internal/application/verification"
	"github.com/identity-verify-api/internal/config"
	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/transport/http/handler"
	appmiddleware "github.com/identity-verify-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, applied to the public endpoints a
	// customer (or an attacker guessing tokens) can reach.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	composer := notify.NewComposer(notify.ComposerDeps{
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
		VerifyBase:  cfg.VerifyBaseURL,
		StaffEmails: cfg.StaffAlertEmails,
		BrokerEmail: cfg.BrokerContactEmail,
	})
	tokenSvc := tokenmgr.NewService(tokenmgr.ServiceDeps{
		Entries:     deps.EntryRepo,
		TTL:         cfg.TokenTTL,
		MaxAttempts: cfg.MaxAttempts,
	})
	verifySvc := verification.NewService(verification.ServiceDeps{
		Entries:     deps.EntryRepo,
		Lists:       deps.ListRepo,
		Audits:      deps.AuditRepo,
		Vault:       deps.Vault,
		Tokens:      tokenSvc,
		Notifier:    composer,
		CACClient:   deps.CACClient,
		NINClient:   deps.NINClient,
		MaxAttempts: cfg.MaxAttempts,
	})
	listSvc := listapp.NewService(listapp.ServiceDeps{
		Lists:   deps.ListRepo,
		Entries: deps.EntryRepo,
		Vault:   deps.Vault,
		Uploads: deps.S3Store,
		Sender:  verifySvc,
	})
	auditSvc := auditapp.NewService(deps.AuditRepo)
	authSvc := auth.NewService(auth.ServiceDeps{Staff: deps.StaffRepo, JWT: deps.JWTProvider})

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(authSvc)
	verifyH := handler.NewVerifyHandler(verifySvc, tokenSvc)
	listH := handler.NewListHandler(listSvc)
	entryH := handler.NewEntryHandler(verifySvc)
	auditH := handler.NewAuditHandler(auditSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Get("/verify/{token}", verifyH.Context)
		r.With(sensitiveRL.Limit).Post("/verify/{token}", verifyH.Submit)

		// ── Staff routes ─────────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.RequireRole(domain.RoleAdmin, domain.RoleBroker))

			r.Get("/lists", listH.List)
			r.Get("/lists/{id}", listH.Get)
			r.Get("/lists/{id}/entries", listH.Entries)
			r.Post("/lists/{id}/send", listH.BulkSend)
			r.Post("/entries/{id}/send", entryH.SendLink)
			r.Post("/entries/{id}/resend", entryH.Resend)
			r.Get("/audits/entries/{id}", auditH.ForEntry)
			r.Get("/audits/lists/{id}", auditH.ForList)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/lists", listH.Create)
			})
		})
	})

	return r
}
