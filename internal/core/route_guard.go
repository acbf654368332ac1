package core

import (
	"context"

	"support-console/internal/kv"
)

// Redirect targets used by the route guard.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Decision is the outcome of a route check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

// Location returns where a redirecting decision sends the browser.
func (d Decision) Location() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectHome:
		return HomePath
	}
	return ""
}

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	}
	return "unknown"
}

// CheckRoute decides whether the session in storage may open a route restricted to
// allowed. It reads storage on every call so role changes apply at the next navigation.
// An empty allowed list admits any authenticated role. The user is returned on Allow.
func CheckRoute(ctx context.Context, storage kv.Storage, allowed []Role) (Decision, *User) {
	token, ok, err := storage.Get(ctx, kv.KeyToken)
	if err != nil || !ok || token == "" {
		return RedirectLogin, nil
	}
	raw, ok, err := storage.Get(ctx, kv.KeyUser)
	if err != nil || !ok {
		return RedirectLogin, nil
	}
	u, err := ParseUser(raw)
	if err != nil {
		return RedirectLogin, nil
	}
	if len(allowed) > 0 && !Visible(u.Role, allowed...) {
		return RedirectHome, nil
	}
	return Allow, u
}
