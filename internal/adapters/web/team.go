package web

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"support-console/internal/app"
	"support-console/internal/core"

	"github.com/go-chi/chi/v5"
)

// invitableRoles are the roles a company owner can hand out.
var invitableRoles = []core.Role{core.RoleCompanyOwner, core.RoleStoreOwner, core.RoleAgent, core.RoleReadonly}

type teamView struct {
	Members     []app.Member
	Invitations []app.Invitation
	Roles       []core.Role
}

// teamPage handles GET /team.
func (h *Handler) teamPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	ws.Title.SetTitle("Team")
	view := teamView{Roles: invitableRoles}

	if companyID := requireCompany(ws); companyID != "" {
		svc := h.service(ws)
		members, err := svc.ListMembers(r.Context(), companyID)
		if err != nil && h.backendFailed(w, r, ws, err, "Failed to fetch team members") {
			return
		}
		view.Members = members
		if core.Visible(ws.Role(), teamAdminRoles...) {
			invitations, err := svc.ListInvitations(r.Context(), companyID)
			if err != nil && h.backendFailed(w, r, ws, err, "Failed to fetch invitations") {
				return
			}
			view.Invitations = invitations
		}
	}
	h.renderApp(w, r, ws, "team", "team", view)
}

// inviteMember handles POST /team/invite.
func (h *Handler) inviteMember(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	companyID := requireCompany(ws)
	if companyID == "" {
		http.Redirect(w, r, "/team", http.StatusSeeOther)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	if _, err := mail.ParseAddress(email); err != nil {
		notifyAndRedirect(w, r, ws, core.NotifyError, "Enter a valid email address.", "/team")
		return
	}
	role, err := core.ParseRole(r.FormValue("role"))
	if err != nil || !core.Visible(role, invitableRoles...) {
		notifyAndRedirect(w, r, ws, core.NotifyError, "Choose a role for the new member.", "/team")
		return
	}
	if _, err := h.service(ws).InviteMember(r.Context(), app.InviteRequest{CompanyID: companyID, Email: email, Role: role}); err != nil {
		if !h.backendFailed(w, r, ws, err, "Failed to send invitation") {
			http.Redirect(w, r, "/team", http.StatusSeeOther)
		}
		return
	}
	notifyAndRedirect(w, r, ws, core.NotifySuccess, "Invitation sent to "+email+".", "/team")
}

// removeMember handles POST /team/{memberID}/remove behind a confirmation.
func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	companyID := requireCompany(ws)
	if companyID == "" {
		http.Redirect(w, r, "/team", http.StatusSeeOther)
		return
	}
	memberID := chi.URLParam(r, "memberID")
	name := r.FormValue("name")
	if name == "" {
		name = "this member"
	}
	svc := h.service(ws)
	h.confirmThen(w, r, ws, core.ConfirmRequest{
		Title:        "Remove " + name + "?",
		Message:      "They lose access to this company's inbox, orders and channels.",
		ConfirmLabel: "Remove",
		Danger:       true,
	}, "/team", confirmed(ws, "Removed "+name+".", "Failed to remove member", func(ctx context.Context) error {
		return svc.RemoveMember(ctx, companyID, memberID)
	}))
}

// cancelInvitation handles POST /team/invitations/{id}/cancel.
func (h *Handler) cancelInvitation(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	companyID := requireCompany(ws)
	if companyID == "" {
		http.Redirect(w, r, "/team", http.StatusSeeOther)
		return
	}
	if err := h.service(ws).CancelInvitation(r.Context(), companyID, chi.URLParam(r, "id")); err != nil {
		if !h.backendFailed(w, r, ws, err, "Failed to cancel invitation") {
			http.Redirect(w, r, "/team", http.StatusSeeOther)
		}
		return
	}
	notifyAndRedirect(w, r, ws, core.NotifySuccess, "Invitation cancelled.", "/team")
}
