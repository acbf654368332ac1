package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"support-console/internal/app"
	"support-console/internal/core"
	webui "support-console/web"
	"support-console/web/templates/layouts"

	"github.com/shopspring/decimal"
)

// navItems is the full side navigation; each page shows the entries its user may open.
var navItems = []layouts.NavItem{
	{Key: "home", Label: "Home", Href: "/"},
	{Key: "inbox", Label: "Inbox", Href: "/inbox", Roles: inboxRoles},
	{Key: "orders", Label: "Orders", Href: "/orders", Roles: orderRoles},
	{Key: "channels", Label: "Channels", Href: "/channels", Roles: channelRoles},
	{Key: "team", Label: "Team", Href: "/team", Roles: teamViewRoles},
	{Key: "users", Label: "Users", Href: "/admin/users", Roles: adminRoles},
}

// visibleNav filters navItems through the role visibility gate.
func visibleNav(role core.Role) []layouts.NavItem {
	out := make([]layouts.NavItem, 0, len(navItems))
	for _, item := range navItems {
		if len(item.Roles) == 0 || core.Visible(role, item.Roles...) {
			out = append(out, item)
		}
	}
	return out
}

var templateFuncs = template.FuncMap{
	"can": func(role core.Role, allowed ...string) bool {
		roles := make([]core.Role, len(allowed))
		for i, a := range allowed {
			roles[i] = core.Role(a)
		}
		return core.Visible(role, roles...)
	},
	"roles":     func() []core.Role { return core.AllRoles },
	"channels":  func() []app.Channel { return app.Channels },
	"roleLabel": func(r core.Role) string { return r.Label() },
	"money": func(d decimal.Decimal, currency string) string {
		if currency == "" {
			return d.StringFixed(2)
		}
		return d.StringFixed(2) + " " + currency
	},
	"when": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("Jan 2, 2006 15:04")
	},
	"dash": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return s
	},
}

// appView is the data every signed-in page template receives.
type appView struct {
	Layout layouts.AppLayoutData
	Data   any
}

// publicView is the data every signed-out page template receives.
type publicView struct {
	Layout layouts.PublicLayoutData
	Data   any
}

// pageSet holds one template set per page, each built over the shared shells.
type pageSet map[string]*template.Template

// loadPages parses the shells once and clones them for every file under pages/.
func loadPages() (pageSet, error) {
	base, err := template.New("base").Funcs(templateFuncs).ParseFS(webui.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse shells: %w", err)
	}
	files, err := fs.Glob(webui.Templates, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	set := make(pageSet, len(files))
	for _, f := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone shells for %s: %w", f, err)
		}
		if _, err := t.ParseFS(webui.Templates, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		set[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return set, nil
}

// execute renders shell with page content into a buffer first so a template error
// never leaves a half-written page behind.
func (h *Handler) execute(w http.ResponseWriter, r *http.Request, page, shell string, data any) {
	t, ok := h.pages[page]
	if !ok {
		log.Printf("[%s] unknown page %q", requestIDFromContext(r.Context()), page)
		writeFailure(w, r, "Page not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, shell, data); err != nil {
		log.Printf("[%s] render %s: %v", requestIDFromContext(r.Context()), page, err)
		writeFailure(w, r, "Something went wrong", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// renderApp renders page inside the signed-in shell. The title comes from the
// workspace title register, which the page handler set on entry.
func (h *Handler) renderApp(w http.ResponseWriter, r *http.Request, ws *core.Workspace, page, activeNav string, data any) {
	user := ws.Session.Current()
	if u := userFromContext(r.Context()); u != nil {
		user = u
	}
	var role core.Role
	if user != nil {
		role = user.Role
	}
	current, known := ws.Companies.Current()
	layout := layouts.AppLayoutData{
		Title:          ws.Title.Title(),
		User:           user,
		Role:           role,
		Companies:      ws.Companies.Companies(),
		CurrentCompany: current,
		CompanyKnown:   known,
		ActiveNav:      activeNav,
		Path:           r.URL.RequestURI(),
		Nav:            visibleNav(role),
		RequestID:      requestIDFromContext(r.Context()),
	}
	if n, ok := ws.Notifier.Current(); ok {
		layout.Toast = &n
	}
	if p, ok := ws.Gate.Current(); ok {
		layout.Confirm = p
	}
	h.execute(w, r, page, "app", appView{Layout: layout, Data: data})
}

// renderPublic renders page inside the signed-out shell.
func (h *Handler) renderPublic(w http.ResponseWriter, r *http.Request, ws *core.Workspace, page, title string, data any) {
	ws.Title.SetTitle(title)
	layout := layouts.PublicLayoutData{
		Title:     title,
		RequestID: requestIDFromContext(r.Context()),
	}
	if n, ok := ws.Notifier.Current(); ok {
		layout.Toast = &n
	}
	h.execute(w, r, page, "public", publicView{Layout: layout, Data: data})
}
