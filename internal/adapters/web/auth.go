package web

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"net/http"
	"strings"

	"support-console/internal/app"
	"support-console/internal/backend"
	"support-console/internal/core"
	"support-console/internal/kv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const minPasswordLength = 8

// authForm is what the sign-in style pages echo back after a failed submit.
type authForm struct {
	Email       string
	Name        string
	CompanyName string
	Token       string
	Error       string
}

// signedIn reports whether the browser already holds a valid session.
func signedIn(r *http.Request, ws *core.Workspace) bool {
	decision, _ := core.CheckRoute(r.Context(), ws.Storage, nil)
	return decision == core.Allow
}

// startSession installs a freshly issued session under a new browser session id.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, res *app.SessionResult) error {
	return h.adoptSession(w, r, h.workspaces.issue(r.Context()), res)
}

// adoptSession signs fresh in and moves the browser onto it. The session id the
// browser held before sign-in is retired along with its storage. On error the
// browser keeps its old session and fresh is discarded.
func (h *Handler) adoptSession(w http.ResponseWriter, r *http.Request, fresh *core.Workspace, res *app.SessionResult) error {
	ctx := r.Context()
	if err := fresh.Login(ctx, res.Token, res.User); err != nil {
		h.workspaces.discard(ctx, fresh.ID)
		return fmt.Errorf("start session: %w", err)
	}
	if err := h.sessions.write(w, fresh.ID); err != nil {
		h.workspaces.discard(ctx, fresh.ID)
		return fmt.Errorf("start session: %w", err)
	}
	if old := workspaceFromContext(ctx); old != nil && old.ID != fresh.ID {
		h.workspaces.discard(ctx, old.ID)
	}
	fresh.Notifier.Notify(core.NotifySuccess, "Welcome, "+res.User.DisplayName()+".")
	return nil
}

// ── Login ─────────────────────────────────────────────────────────────────────

// loginPage handles GET /login. Signed-in browsers go home.
func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if signedIn(r, ws) {
		http.Redirect(w, r, core.HomePath, http.StatusSeeOther)
		return
	}
	h.renderPublic(w, r, ws, "login", "Sign in", authForm{})
}

// loginSubmit handles POST /login.
func (h *Handler) loginSubmit(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.renderPublic(w, r, ws, "login", "Sign in", authForm{Error: "Invalid form submission."})
		return
	}
	form := authForm{Email: strings.TrimSpace(r.FormValue("email"))}
	password := r.FormValue("password")
	if form.Email == "" || password == "" {
		form.Error = "Email and password are required."
		h.renderPublic(w, r, ws, "login", "Sign in", form)
		return
	}

	res, err := h.service(ws).Login(r.Context(), app.LoginRequest{Email: form.Email, Password: password})
	if err != nil {
		form.Error = backend.Message(err, "Invalid email or password.")
		h.renderPublic(w, r, ws, "login", "Sign in", form)
		return
	}
	if err := h.startSession(w, r, res); err != nil {
		log.Printf("[%s] %v", requestIDFromContext(r.Context()), err)
		form.Error = "Server error. Please try again."
		h.renderPublic(w, r, ws, "login", "Sign in", form)
		return
	}
	http.Redirect(w, r, core.HomePath, http.StatusSeeOther)
}

// ── Registration ──────────────────────────────────────────────────────────────

func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if signedIn(r, ws) {
		http.Redirect(w, r, core.HomePath, http.StatusSeeOther)
		return
	}
	h.renderPublic(w, r, ws, "register", "Create account", authForm{})
}

func (h *Handler) registerSubmit(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.renderPublic(w, r, ws, "register", "Create account", authForm{Error: "Invalid form submission."})
		return
	}
	req := app.RegisterRequest{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		Password:    r.FormValue("password"),
		CompanyName: strings.TrimSpace(r.FormValue("company_name")),
	}
	form := authForm{Email: req.Email, Name: req.Name, CompanyName: req.CompanyName}
	switch {
	case req.Name == "" || req.Email == "" || req.CompanyName == "":
		form.Error = "Name, email and company are required."
	case len(req.Password) < minPasswordLength:
		form.Error = fmt.Sprintf("Password must be at least %d characters.", minPasswordLength)
	case req.Password != r.FormValue("password_confirm"):
		form.Error = "Passwords do not match."
	}
	if form.Error != "" {
		h.renderPublic(w, r, ws, "register", "Create account", form)
		return
	}

	res, err := h.service(ws).Register(r.Context(), req)
	if err != nil {
		form.Error = backend.Message(err, "Registration failed.")
		h.renderPublic(w, r, ws, "register", "Create account", form)
		return
	}
	if err := h.startSession(w, r, res); err != nil {
		log.Printf("[%s] %v", requestIDFromContext(r.Context()), err)
		form.Error = "Server error. Please try again."
		h.renderPublic(w, r, ws, "register", "Create account", form)
		return
	}
	http.Redirect(w, r, core.HomePath, http.StatusSeeOther)
}

// ── Google sign-in ────────────────────────────────────────────────────────────

// googleLogin handles GET /auth/google by sending the browser to the backend's
// OAuth entry point with a one-time state bound to this browser.
func (h *Handler) googleLogin(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	state := uuid.NewString()
	if err := ws.Storage.Set(r.Context(), kv.KeyOAuthState, state); err != nil {
		log.Printf("[%s] google login: %v", requestIDFromContext(r.Context()), err)
		notifyAndRedirect(w, r, ws, core.NotifyError, "Google sign-in failed.", core.LoginPath)
		return
	}
	http.Redirect(w, r, h.service(ws).GoogleLoginURL(h.publicURL+"/auth/callback", state), http.StatusFound)
}

// googleCallback handles GET /auth/callback?token=...&state=.... The state must
// match the one googleLogin issued to this browser, and the user is always
// resolved with Me using the returned token.
func (h *Handler) googleCallback(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	ctx := r.Context()
	q := r.URL.Query()

	if !consumeOAuthState(ctx, ws, q.Get("state")) {
		log.Printf("[%s] google callback: state mismatch", requestIDFromContext(ctx))
		notifyAndRedirect(w, r, ws, core.NotifyError, "Google sign-in failed. Please try again.", core.LoginPath)
		return
	}
	token, err := backend.DecodeCallback(q)
	if err != nil {
		log.Printf("[%s] google callback: %v", requestIDFromContext(ctx), err)
		notifyAndRedirect(w, r, ws, core.NotifyError, backend.Message(err, "Google sign-in failed."), core.LoginPath)
		return
	}

	// Me authenticates with the token in storage, so resolve it inside the new session.
	fresh := h.workspaces.issue(ctx)
	if err := fresh.Storage.Set(ctx, kv.KeyToken, token); err != nil {
		h.workspaces.discard(ctx, fresh.ID)
		log.Printf("[%s] google callback: %v", requestIDFromContext(ctx), err)
		notifyAndRedirect(w, r, ws, core.NotifyError, "Google sign-in failed.", core.LoginPath)
		return
	}
	user, err := h.service(fresh).Me(ctx)
	if err != nil {
		h.workspaces.discard(ctx, fresh.ID)
		notifyAndRedirect(w, r, ws, core.NotifyError, backend.Message(err, "Google sign-in failed."), core.LoginPath)
		return
	}
	if err := h.adoptSession(w, r, fresh, &app.SessionResult{Token: token, User: user}); err != nil {
		log.Printf("[%s] %v", requestIDFromContext(ctx), err)
		notifyAndRedirect(w, r, ws, core.NotifyError, "Google sign-in failed.", core.LoginPath)
		return
	}
	http.Redirect(w, r, core.HomePath, http.StatusSeeOther)
}

// consumeOAuthState reports whether got matches the pending sign-in state. The
// stored state is removed either way so it cannot be replayed.
func consumeOAuthState(ctx context.Context, ws *core.Workspace, got string) bool {
	want, ok, err := ws.Storage.Get(ctx, kv.KeyOAuthState)
	if rerr := ws.Storage.Remove(ctx, kv.KeyOAuthState); rerr != nil {
		log.Printf("workspace %s: clear oauth state: %v", ws.ID, rerr)
	}
	if err != nil || !ok || want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// ── Password reset ────────────────────────────────────────────────────────────

func (h *Handler) forgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	h.renderPublic(w, r, ws, "forgot_password", "Reset password", authForm{})
}

// forgotPasswordSubmit never reveals whether the address has an account.
func (h *Handler) forgotPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		h.renderPublic(w, r, ws, "forgot_password", "Reset password", authForm{Error: "Email is required."})
		return
	}
	if err := h.service(ws).RequestPasswordReset(r.Context(), email); err != nil {
		log.Printf("[%s] password reset request: %v", requestIDFromContext(r.Context()), err)
	}
	notifyAndRedirect(w, r, ws, core.NotifySuccess, "If that address has an account, a reset link is on its way.", core.LoginPath)
}

func (h *Handler) resetPasswordPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	token := r.URL.Query().Get("token")
	if token == "" {
		notifyAndRedirect(w, r, ws, core.NotifyError, "The reset link is missing its token.", "/forgot-password")
		return
	}
	h.renderPublic(w, r, ws, "reset_password", "Choose a new password", authForm{Token: token})
}

func (h *Handler) resetPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	form := authForm{Token: r.FormValue("token")}
	password := r.FormValue("password")
	switch {
	case form.Token == "":
		form.Error = "The reset link is missing its token."
	case len(password) < minPasswordLength:
		form.Error = fmt.Sprintf("Password must be at least %d characters.", minPasswordLength)
	case password != r.FormValue("password_confirm"):
		form.Error = "Passwords do not match."
	}
	if form.Error != "" {
		h.renderPublic(w, r, ws, "reset_password", "Choose a new password", form)
		return
	}
	if err := h.service(ws).ResetPassword(r.Context(), form.Token, password); err != nil {
		form.Error = backend.Message(err, "The reset link is invalid or has expired.")
		h.renderPublic(w, r, ws, "reset_password", "Choose a new password", form)
		return
	}
	notifyAndRedirect(w, r, ws, core.NotifySuccess, "Password updated. Sign in with your new password.", core.LoginPath)
}

// ── Invitations ───────────────────────────────────────────────────────────────

type invitationView struct {
	Invitation *app.Invitation
	Form       authForm
}

func (h *Handler) invitationPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	token := chi.URLParam(r, "token")
	inv, err := h.service(ws).InvitationStatus(r.Context(), token)
	if err != nil {
		notifyAndRedirect(w, r, ws, core.NotifyError, backend.Message(err, "Invitation not found."), core.LoginPath)
		return
	}
	h.renderPublic(w, r, ws, "invitation", "Join "+inv.CompanyName, invitationView{
		Invitation: inv,
		Form:       authForm{Email: inv.Email, Token: token},
	})
}

func (h *Handler) invitationAccept(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	ctx := r.Context()
	token := chi.URLParam(r, "token")
	svc := h.service(ws)

	inv, err := svc.InvitationStatus(ctx, token)
	if err != nil {
		notifyAndRedirect(w, r, ws, core.NotifyError, backend.Message(err, "Invitation not found."), core.LoginPath)
		return
	}
	view := invitationView{Invitation: inv, Form: authForm{Email: inv.Email, Token: token, Name: strings.TrimSpace(r.FormValue("name"))}}
	if !inv.Acceptable() {
		view.Form.Error = "This invitation is no longer valid."
		h.renderPublic(w, r, ws, "invitation", "Join "+inv.CompanyName, view)
		return
	}
	password := r.FormValue("password")
	if password != "" && len(password) < minPasswordLength {
		view.Form.Error = fmt.Sprintf("Password must be at least %d characters.", minPasswordLength)
		h.renderPublic(w, r, ws, "invitation", "Join "+inv.CompanyName, view)
		return
	}

	res, err := svc.AcceptInvitation(ctx, app.AcceptInvitationRequest{Token: token, Name: view.Form.Name, Password: password})
	if err != nil {
		view.Form.Error = backend.Message(err, "Could not accept the invitation.")
		h.renderPublic(w, r, ws, "invitation", "Join "+inv.CompanyName, view)
		return
	}
	if err := h.startSession(w, r, res); err != nil {
		log.Printf("[%s] %v", requestIDFromContext(ctx), err)
		view.Form.Error = "Server error. Please try again."
		h.renderPublic(w, r, ws, "invitation", "Join "+inv.CompanyName, view)
		return
	}
	http.Redirect(w, r, core.HomePath, http.StatusSeeOther)
}

// ── Logout ────────────────────────────────────────────────────────────────────

// logout handles POST /logout: clears the session from memory and storage.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if err := ws.Logout(r.Context()); err != nil {
		log.Printf("[%s] logout: %v", requestIDFromContext(r.Context()), err)
	}
	notifyAndRedirect(w, r, ws, core.NotifyInfo, "You have been signed out.", core.LoginPath)
}
