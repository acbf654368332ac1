package web

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"support-console/internal/app"
	"support-console/internal/core"

	"github.com/go-chi/chi/v5"
)

// validPhone accepts E.164 numbers.
var validPhone = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

type channelsView struct {
	Accounts []app.Account
}

// channelsPage handles GET /channels.
func (h *Handler) channelsPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	ws.Title.SetTitle("Channels")
	var view channelsView
	if companyID := requireCompany(ws); companyID != "" {
		accounts, err := h.service(ws).ListAccounts(r.Context(), companyID)
		if err != nil && h.backendFailed(w, r, ws, err, "Failed to fetch connected accounts") {
			return
		}
		view.Accounts = accounts
	}
	h.renderApp(w, r, ws, "channels", "channels", view)
}

// connectPhone handles POST /channels/phone.
func (h *Handler) connectPhone(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	companyID := requireCompany(ws)
	if companyID == "" {
		http.Redirect(w, r, "/channels", http.StatusSeeOther)
		return
	}
	number := strings.ReplaceAll(strings.TrimSpace(r.FormValue("number")), " ", "")
	if !validPhone.MatchString(number) {
		notifyAndRedirect(w, r, ws, core.NotifyError, "Enter the number in international format, e.g. +14155550100.", "/channels")
		return
	}
	if _, err := h.service(ws).ConnectPhone(r.Context(), companyID, number); err != nil {
		if !h.backendFailed(w, r, ws, err, "Failed to connect phone number") {
			http.Redirect(w, r, "/channels", http.StatusSeeOther)
		}
		return
	}
	notifyAndRedirect(w, r, ws, core.NotifySuccess, "Phone number "+number+" connected.", "/channels")
}

// connectGmail handles POST /channels/gmail by sending the browser to Google's
// consent screen.
func (h *Handler) connectGmail(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	companyID := requireCompany(ws)
	if companyID == "" {
		http.Redirect(w, r, "/channels", http.StatusSeeOther)
		return
	}
	consent, err := h.service(ws).GmailConnectURL(r.Context(), companyID)
	if err != nil {
		if !h.backendFailed(w, r, ws, err, "Failed to start Gmail connection") {
			http.Redirect(w, r, "/channels", http.StatusSeeOther)
		}
		return
	}
	if !strings.HasPrefix(consent, "https://") {
		notifyAndRedirect(w, r, ws, core.NotifyError, "Failed to start Gmail connection", "/channels")
		return
	}
	http.Redirect(w, r, consent, http.StatusSeeOther)
}

// disconnectAccount handles POST /channels/{accountID}/disconnect behind a confirmation.
func (h *Handler) disconnectAccount(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	accountID := chi.URLParam(r, "accountID")
	address := r.FormValue("address")
	if address == "" {
		address = "this account"
	}
	svc := h.service(ws)
	h.confirmThen(w, r, ws, core.ConfirmRequest{
		Title:        "Disconnect " + address + "?",
		Message:      "Messages from this channel stop arriving in the inbox.",
		ConfirmLabel: "Disconnect",
		Danger:       true,
	}, "/channels", confirmed(ws, "Disconnected "+address+".", "Failed to disconnect account", func(ctx context.Context) error {
		return svc.DisconnectAccount(ctx, accountID)
	}))
}
