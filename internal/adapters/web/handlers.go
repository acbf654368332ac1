package web

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"support-console/internal/app"
	"support-console/internal/backend"
	"support-console/internal/core"
	"support-console/internal/kv"
	webui "support-console/web"

	"github.com/go-chi/chi/v5"
)

// ServiceFactory builds the backend service for one browser, reading that browser's
// token from storage on every call.
type ServiceFactory func(storage kv.Storage) app.ApplicationService

// Options configures NewHandler.
type Options struct {
	Services       ServiceFactory
	Storage        kv.Backend
	SessionSecret  string
	SecureCookies  bool
	PublicURL      string
	AllowedOrigins string
	IdleTimeout    time.Duration
	LoginRate      int
	// Scheduler drives notification expiry. Nil uses the wall clock.
	Scheduler core.Scheduler
}

// Handler holds the chi router, the per-browser workspaces and the service factory.
type Handler struct {
	services      ServiceFactory
	router        chi.Router
	sessions      *sessionCookies
	workspaces    *workspaceRegistry
	limiter       *rateLimiterStore
	continuations *continuationStore
	pages         pageSet
	fileServer    http.Handler
	publicURL     string

	stop context.CancelFunc
	once sync.Once
}

// NewHandler creates the handler and wires the chi router with all routes.
func NewHandler(opts Options) (*Handler, error) {
	if opts.Services == nil || opts.Storage == nil {
		return nil, fmt.Errorf("web: Services and Storage are required")
	}
	staticFS, err := fs.Sub(webui.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("web/static embed sub-FS failed: %w", err)
	}
	pages, err := loadPages()
	if err != nil {
		return nil, err
	}

	ctx, stop := context.WithCancel(context.Background())
	h := &Handler{
		services:      opts.Services,
		sessions:      &sessionCookies{secret: []byte(opts.SessionSecret), secure: opts.SecureCookies},
		workspaces:    newWorkspaceRegistry(opts.Storage, opts.Scheduler, opts.IdleTimeout),
		limiter:       newRateLimiterStore(opts.LoginRate),
		continuations: newContinuationStore(),
		pages:         pages,
		fileServer:    http.FileServer(http.FS(staticFS)),
		publicURL:     opts.PublicURL,
		stop:          stop,
	}

	// Start background maintenance goroutines.
	h.workspaces.startPurge(ctx)
	h.limiter.startCleanup(ctx)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(opts.AllowedOrigins))

	// ── Health and static files (public, no workspace) ───────────────────────
	r.Get("/api/health", h.health)
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		http.StripPrefix("/static", h.fileServer).ServeHTTP(w, req)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB
		r.Use(h.WithWorkspace)

		// ── Session issuance (public HTML) ───────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RateLimit)
			r.Get("/login", h.loginPage)
			r.Post("/login", h.loginSubmit)
			r.Get("/register", h.registerPage)
			r.Post("/register", h.registerSubmit)
			r.Get("/forgot-password", h.forgotPasswordPage)
			r.Post("/forgot-password", h.forgotPasswordSubmit)
			r.Get("/reset-password", h.resetPasswordPage)
			r.Post("/reset-password", h.resetPasswordSubmit)
			r.Get("/invitations/{token}", h.invitationPage)
			r.Post("/invitations/{token}/accept", h.invitationAccept)
		})
		r.Get("/auth/google", h.googleLogin)
		r.Get("/auth/callback", h.googleCallback)
		r.Post("/logout", h.logout)
		r.Get("/api/notification", h.apiNotification)

		// ── Any signed-in role ───────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRoles(anyRole...))
			r.Get("/", h.homePage)
			r.Post("/company", h.selectCompany)
			r.Post("/confirm/{id}", h.resolveConfirm)
		})

		// ── Inbox ────────────────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRoles(inboxRoles...))
			r.Get("/inbox", h.inboxPage)
			r.Get("/inbox/{threadID}", h.threadPage)
			r.Post("/inbox/{threadID}/comments", h.addComment)
			r.With(h.RequireRoles(responderRoles...)).Post("/inbox/{threadID}/reply", h.reply)
		})

		// ── Shopify orders ───────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRoles(orderRoles...))
			r.Get("/orders", h.ordersPage)
			r.Post("/orders/{orderID}/refund", h.refundOrder)
			r.Post("/orders/{orderID}/cancel", h.cancelOrder)
		})

		// ── Connected channels ───────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRoles(channelRoles...))
			r.Get("/channels", h.channelsPage)
			r.Post("/channels/phone", h.connectPhone)
			r.Post("/channels/gmail", h.connectGmail)
			r.Post("/channels/{accountID}/disconnect", h.disconnectAccount)
		})

		// ── Team ─────────────────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRoles(teamViewRoles...))
			r.Get("/team", h.teamPage)
			r.Group(func(r chi.Router) {
				r.Use(h.RequireRoles(teamAdminRoles...))
				r.Post("/team/invite", h.inviteMember)
				r.Post("/team/{memberID}/remove", h.removeMember)
				r.Post("/team/invitations/{id}/cancel", h.cancelInvitation)
			})
		})

		// ── User directory (admin) ───────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRoles(adminRoles...))
			r.Get("/admin/users", h.usersPage)
			r.Post("/admin/users/{userID}/role", h.updateUserRole)
			r.Post("/admin/users/{userID}/delete", h.deleteUser)
		})
	})

	h.router = r
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Close stops background maintenance and tears down every live workspace.
func (h *Handler) Close() {
	h.once.Do(func() {
		h.stop()
		h.workspaces.closeAll()
	})
}

// health reports service status and how many browser workspaces are live.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status     string `json:"status"`
		Workspaces int    `json:"workspaces"`
	}
	writeJSON(w, response{Status: "ok", Workspaces: h.workspaces.len()})
}

// apiNotification returns the live toast for the calling browser, or 204.
func (h *Handler) apiNotification(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	n, ok := ws.Notifier.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, n)
}

// service returns the backend service bound to the request's workspace.
func (h *Handler) service(ws *core.Workspace) app.ApplicationService {
	return h.services(ws.Storage)
}

// notifyAndRedirect shows a toast and sends the browser to location.
func notifyAndRedirect(w http.ResponseWriter, r *http.Request, ws *core.Workspace, kind core.NotificationKind, msg, location string) {
	ws.Notifier.Notify(kind, msg)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// backendFailed reports err from a backend call. A 401 means the token went stale:
// the workspace is signed out, the browser is sent to /login and true is returned
// so the caller stops. Any other error becomes an error toast and the caller
// carries on rendering with whatever data it has.
func (h *Handler) backendFailed(w http.ResponseWriter, r *http.Request, ws *core.Workspace, err error, fallback string) bool {
	if backend.IsUnauthorized(err) {
		if lerr := ws.Logout(r.Context()); lerr != nil {
			log.Printf("[%s] logout after 401: %v", requestIDFromContext(r.Context()), lerr)
		}
		notifyAndRedirect(w, r, ws, core.NotifyError, "Your session has expired. Please sign in again.", core.LoginPath)
		return true
	}
	log.Printf("[%s] %s %s: %v", requestIDFromContext(r.Context()), r.Method, r.URL.Path, err)
	ws.Notifier.Notify(core.NotifyError, backend.Message(err, fallback))
	return false
}

// requireCompany returns the selected company id. When none is selected it shows
// an info toast and returns "".
func requireCompany(ws *core.Workspace) string {
	id := ws.Companies.CurrentID()
	if id == "" {
		ws.Notifier.Notify(core.NotifyInfo, "Select a company to continue.")
	}
	return id
}
