package core_test

import (
	"context"
	"testing"

	"support-console/internal/core"
	"support-console/internal/kv"
)

func storageWith(t *testing.T, token, user string) kv.Storage {
	t.Helper()
	ctx := context.Background()
	s := kv.NewMemoryBackend().Scope("sid")
	if token != "" {
		_ = s.Set(ctx, kv.KeyToken, token)
	}
	if user != "" {
		_ = s.Set(ctx, kv.KeyUser, user)
	}
	return s
}

func userJSON(role core.Role) string {
	return `{"id":"u-1","name":"Pat","email":"pat@example.com","role":"` + string(role) + `"}`
}

func TestCheckRoute_RoleMatrix(t *testing.T) {
	ctx := context.Background()
	allowed := []core.Role{core.RoleCompanyOwner, core.RoleStoreOwner}

	for _, role := range core.AllRoles {
		t.Run(string(role), func(t *testing.T) {
			d, u := core.CheckRoute(ctx, storageWith(t, "tok", userJSON(role)), allowed)
			inSet := core.Visible(role, allowed...)
			switch {
			case inSet && (d != core.Allow || u == nil || u.Role != role):
				t.Errorf("allowed role got %v, %+v", d, u)
			case !inSet && (d != core.RedirectHome || u != nil):
				t.Errorf("disallowed role got %v, %+v", d, u)
			}
		})
	}
}

func TestCheckRoute_MissingOrMalformedSession(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		token string
		user  string
	}{
		{name: "nothing stored"},
		{name: "token only", token: "tok"},
		{name: "user only", user: userJSON(core.RoleAdmin)},
		{name: "malformed user", token: "tok", user: "{not json"},
		{name: "unknown role", token: "tok", user: `{"id":"u","role":"root"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := core.CheckRoute(ctx, storageWith(t, tt.token, tt.user), []core.Role{core.RoleAdmin})
			if d != core.RedirectLogin {
				t.Errorf("decision = %v, want redirect_login", d)
			}
			if d.Location() != core.LoginPath {
				t.Errorf("Location = %q", d.Location())
			}
		})
	}
}

func TestCheckRoute_ReReadsStorage(t *testing.T) {
	ctx := context.Background()
	s := storageWith(t, "tok", userJSON(core.RoleCompanyOwner))
	team := []core.Role{core.RoleCompanyOwner}

	if d, _ := core.CheckRoute(ctx, s, team); d != core.Allow {
		t.Fatalf("decision = %v, want allow", d)
	}
	_ = s.Set(ctx, kv.KeyUser, userJSON(core.RoleAgent))
	if d, _ := core.CheckRoute(ctx, s, team); d != core.RedirectHome {
		t.Errorf("role change not picked up: %v", d)
	}
}

func TestCheckRoute_EmptyAllowedAdmitsAnyRole(t *testing.T) {
	d, _ := core.CheckRoute(context.Background(), storageWith(t, "tok", userJSON(core.RoleReadonly)), nil)
	if d != core.Allow {
		t.Errorf("decision = %v, want allow", d)
	}
}

func TestVisible(t *testing.T) {
	tests := []struct {
		role    core.Role
		allowed []core.Role
		want    bool
	}{
		{core.RoleCompanyOwner, []core.Role{core.RoleCompanyOwner}, true},
		{core.RoleAgent, []core.Role{core.RoleCompanyOwner}, false},
		{core.RoleAdmin, nil, false},
		{"", []core.Role{core.RoleReadonly}, false},
		{core.RoleStoreOwner, []core.Role{core.RoleCompanyOwner, core.RoleStoreOwner}, true},
	}
	for _, tt := range tests {
		if got := core.Visible(tt.role, tt.allowed...); got != tt.want {
			t.Errorf("Visible(%q, %v) = %v, want %v", tt.role, tt.allowed, got, tt.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, err := core.ParseRole("store_owner"); err != nil || r != core.RoleStoreOwner {
		t.Errorf("ParseRole(store_owner) = %q, %v", r, err)
	}
	if _, err := core.ParseRole("owner"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestGenerations_DiscardSuperseded(t *testing.T) {
	var g core.Generations
	first := g.Begin("threads")
	other := g.Begin("orders")
	second := g.Begin("threads")

	if g.Current(first) {
		t.Error("superseded ticket reported current")
	}
	if !g.Current(second) || !g.Current(other) {
		t.Error("latest tickets should be current")
	}
}
