package web

import (
	"context"
	"net/http"

	"support-console/internal/core"

	"github.com/go-chi/chi/v5"
)

type usersView struct {
	Users []core.User
	Self  string
}

// usersPage handles GET /admin/users: the whole user directory.
func (h *Handler) usersPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	ws.Title.SetTitle("Users")
	view := usersView{}
	if u := userFromContext(r.Context()); u != nil {
		view.Self = u.ID
	}
	users, err := h.service(ws).ListUsers(r.Context())
	if err != nil && h.backendFailed(w, r, ws, err, "Failed to fetch users") {
		return
	}
	view.Users = users
	h.renderApp(w, r, ws, "users", "users", view)
}

// updateUserRole handles POST /admin/users/{userID}/role.
func (h *Handler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	userID := chi.URLParam(r, "userID")
	role, err := core.ParseRole(r.FormValue("role"))
	if err != nil {
		notifyAndRedirect(w, r, ws, core.NotifyError, "Choose a valid role.", "/admin/users")
		return
	}
	if u := userFromContext(r.Context()); u != nil && u.ID == userID {
		notifyAndRedirect(w, r, ws, core.NotifyError, "You cannot change your own role.", "/admin/users")
		return
	}
	updated, err := h.service(ws).UpdateUserRole(r.Context(), userID, role)
	if err != nil {
		if !h.backendFailed(w, r, ws, err, "Failed to update role") {
			http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
		}
		return
	}
	notifyAndRedirect(w, r, ws, core.NotifySuccess, updated.DisplayName()+" is now "+updated.Role.Label()+".", "/admin/users")
}

// deleteUser handles POST /admin/users/{userID}/delete behind a confirmation.
func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	userID := chi.URLParam(r, "userID")
	if u := userFromContext(r.Context()); u != nil && u.ID == userID {
		notifyAndRedirect(w, r, ws, core.NotifyError, "You cannot delete your own account.", "/admin/users")
		return
	}
	name := r.FormValue("name")
	if name == "" {
		name = "this user"
	}
	svc := h.service(ws)
	h.confirmThen(w, r, ws, core.ConfirmRequest{
		Title:        "Delete " + name + "?",
		Message:      "The account and its company memberships are removed permanently.",
		ConfirmLabel: "Delete",
		Danger:       true,
	}, "/admin/users", confirmed(ws, "Deleted "+name+".", "Failed to delete user", func(ctx context.Context) error {
		return svc.DeleteUser(ctx, userID)
	}))
}
