package web

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"support-console/internal/app"
	"support-console/internal/core"
)

const recentThreadLimit = 5

type homeView struct {
	User          *core.User
	RecentThreads []app.Thread
	ShowInbox     bool
}

// homePage handles GET /. It refreshes the session user from the backend; a reply
// that arrives after a newer refresh began is discarded.
func (h *Handler) homePage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	ctx := r.Context()
	ws.Title.SetTitle("Home")
	svc := h.service(ws)

	ticket := ws.Requests.Begin("session")
	user, err := svc.Me(ctx)
	switch {
	case err != nil:
		if h.backendFailed(w, r, ws, err, "Could not refresh your profile.") {
			return
		}
	case ws.Requests.Current(ticket):
		if err := ws.UpdateUser(ctx, user); err != nil {
			log.Printf("[%s] refresh user: %v", requestIDFromContext(ctx), err)
		}
		if companies := user.Companies(); len(companies) > 0 {
			if err := ws.Companies.SetCompanies(ctx, companies); err != nil {
				log.Printf("[%s] refresh companies: %v", requestIDFromContext(ctx), err)
			}
		}
	}

	view := homeView{User: ws.Session.Current()}
	if view.User != nil && core.Visible(view.User.Role, inboxRoles...) && ws.Companies.CurrentID() != "" {
		view.ShowInbox = true
		threads, err := svc.ListThreads(ctx, ws.Companies.CurrentID(), app.ThreadFilter{})
		if err != nil {
			if h.backendFailed(w, r, ws, err, "Failed to fetch messages") {
				return
			}
		}
		if len(threads) > recentThreadLimit {
			threads = threads[:recentThreadLimit]
		}
		view.RecentThreads = threads
	}
	h.renderApp(w, r, ws, "home", "home", view)
}

// selectCompany handles POST /company. The id is stored as given; a stale id shows
// as an unknown company until the user picks another.
func (h *Handler) selectCompany(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	id := strings.TrimSpace(r.FormValue("company_id"))
	back := localPath(r.FormValue("back"))
	if err := ws.Companies.SetCurrentID(r.Context(), id); err != nil {
		log.Printf("[%s] select company: %v", requestIDFromContext(r.Context()), err)
		notifyAndRedirect(w, r, ws, core.NotifyError, "Could not switch company.", back)
		return
	}
	if c, ok := ws.Companies.Current(); ok {
		ws.Notifier.Notify(core.NotifySuccess, "Switched to "+c.Name+".")
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// localPath returns p when it is a path on this site, otherwise the home path.
func localPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return core.HomePath
	}
	u, err := url.Parse(p)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return core.HomePath
	}
	return u.RequestURI()
}
