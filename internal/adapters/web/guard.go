package web

import (
	"context"
	"net/http"

	"support-console/internal/core"
)

type userKey struct{}

// userFromContext returns the user admitted by RequireRoles, or nil.
func userFromContext(ctx context.Context) *core.User {
	v, _ := ctx.Value(userKey{}).(*core.User)
	return v
}

// Role sets for guarded route groups.
var (
	anyRole        []core.Role
	inboxRoles     = []core.Role{core.RoleCompanyOwner, core.RoleStoreOwner, core.RoleAgent, core.RoleReadonly}
	responderRoles = []core.Role{core.RoleCompanyOwner, core.RoleStoreOwner, core.RoleAgent}
	orderRoles     = []core.Role{core.RoleCompanyOwner, core.RoleStoreOwner, core.RoleAgent}
	channelRoles   = []core.Role{core.RoleCompanyOwner, core.RoleStoreOwner}
	teamViewRoles  = []core.Role{core.RoleCompanyOwner, core.RoleStoreOwner}
	teamAdminRoles = []core.Role{core.RoleCompanyOwner}
	adminRoles     = []core.Role{core.RoleAdmin}
)

// RequireRoles is browser middleware that re-checks the durable session on every
// request. Unauthenticated or unreadable sessions go to /login; authenticated users
// outside roles go home. An empty roles list admits any signed-in user.
func (h *Handler) RequireRoles(roles ...core.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws := workspaceFromContext(r.Context())
			if ws == nil {
				http.Redirect(w, r, core.LoginPath, http.StatusSeeOther)
				return
			}
			decision, user := core.CheckRoute(r.Context(), ws.Storage, roles)
			if decision != core.Allow {
				http.Redirect(w, r, decision.Location(), http.StatusSeeOther)
				return
			}
			ctx := context.WithValue(r.Context(), userKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
