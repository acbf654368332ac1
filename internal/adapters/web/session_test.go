package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"support-console/internal/kv"

	"github.com/google/uuid"
)

func TestSessionCookies_RoundTrip(t *testing.T) {
	s := &sessionCookies{secret: []byte("secret-a")}
	sid := uuid.NewString()

	rec := httptest.NewRecorder()
	if err := s.write(rec, sid); err != nil {
		t.Fatalf("write: %v", err)
	}
	cookie := rec.Result().Cookies()[0]
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie flags = %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	if got := s.read(req); got != sid {
		t.Errorf("read = %q, want %q", got, sid)
	}

	other := &sessionCookies{secret: []byte("secret-b")}
	if got := other.read(req); got != "" {
		t.Errorf("cookie signed with another secret accepted: %q", got)
	}
}

func TestSessionCookies_RejectsGarbage(t *testing.T) {
	s := &sessionCookies{secret: []byte("secret-a")}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "not-a-jwt"})
	if got := s.read(req); got != "" {
		t.Errorf("read = %q, want empty", got)
	}
}

func TestWorkspaceRegistry_PurgeIdle(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryBackend()
	reg := newWorkspaceRegistry(storage, nil, time.Minute)

	stale := reg.get(ctx, "stale")
	if err := stale.Storage.Set(ctx, kv.KeyToken, "tok"); err != nil {
		t.Fatal(err)
	}
	fresh := reg.get(ctx, "fresh")
	if reg.get(ctx, "fresh") != fresh {
		t.Fatal("get must return the live workspace")
	}

	stale.Touch()
	reg.idle = 10 * time.Millisecond
	time.Sleep(20 * time.Millisecond)
	fresh.Touch()

	if n := reg.purgeIdle(ctx); n != 1 {
		t.Fatalf("purged %d workspaces, want 1", n)
	}
	if reg.len() != 1 {
		t.Errorf("live workspaces = %d, want 1", reg.len())
	}
	if stale.Context().Err() == nil {
		t.Error("purged workspace was not closed")
	}
	if _, ok, _ := storage.Scope("stale").Get(ctx, kv.KeyToken); ok {
		t.Error("purged workspace storage was not dropped")
	}
}
