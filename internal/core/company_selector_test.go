package core_test

import (
	"context"
	"reflect"
	"testing"

	"support-console/internal/core"
	"support-console/internal/kv"
)

func TestCompanySelector_WriteThroughRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryBackend().Scope("sid")
	sel := core.NewCompanySelector(ctx, storage)

	list := []core.Company{{ID: "c-1", Name: "Acme"}, {ID: "c-2", Name: "Globex"}}
	if err := sel.SetCompanies(ctx, list); err != nil {
		t.Fatalf("SetCompanies: %v", err)
	}
	if err := sel.SetCurrentID(ctx, "c-2"); err != nil {
		t.Fatalf("SetCurrentID: %v", err)
	}

	raw, ok, _ := storage.Get(ctx, kv.KeyCompanies)
	if !ok || raw != `[{"id":"c-1","name":"Acme"},{"id":"c-2","name":"Globex"}]` {
		t.Errorf("companies entry = %q", raw)
	}
	if id, _, _ := storage.Get(ctx, kv.KeyCurrentCompanyID); id != "c-2" {
		t.Errorf("currentCompanyId entry = %q", id)
	}

	reloaded := core.NewCompanySelector(ctx, storage)
	if !reflect.DeepEqual(reloaded.Companies(), list) {
		t.Errorf("reloaded list = %+v", reloaded.Companies())
	}
	if reloaded.CurrentID() != "c-2" {
		t.Errorf("reloaded id = %q", reloaded.CurrentID())
	}
	if co, found := reloaded.Current(); !found || co.Name != "Globex" {
		t.Errorf("Current = %+v, %v", co, found)
	}
}

func TestCompanySelector_Defaults(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryBackend().Scope("sid")
	_ = storage.Set(ctx, kv.KeyCompanies, "not-json")

	sel := core.NewCompanySelector(ctx, storage)
	if got := sel.Companies(); len(got) != 0 || got == nil {
		t.Errorf("Companies = %#v, want empty non-nil list", got)
	}
	if sel.CurrentID() != "" {
		t.Errorf("CurrentID = %q, want empty", sel.CurrentID())
	}
}

func TestCompanySelector_StaleIDIsPermitted(t *testing.T) {
	ctx := context.Background()
	sel := core.NewCompanySelector(ctx, kv.NewMemoryBackend().Scope("sid"))
	_ = sel.SetCompanies(ctx, []core.Company{{ID: "c-1", Name: "Acme"}})

	if err := sel.SetCurrentID(ctx, "gone"); err != nil {
		t.Fatalf("SetCurrentID: %v", err)
	}
	if sel.CurrentID() != "gone" {
		t.Errorf("stale id was rewritten to %q", sel.CurrentID())
	}
	if _, found := sel.Current(); found {
		t.Error("stale id should not resolve to a company")
	}
}
