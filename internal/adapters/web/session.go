package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"support-console/internal/core"
	"support-console/internal/kv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "console_session"
	sessionCookieTTL  = 30 * 24 * time.Hour
)

type workspaceKey struct{}

// workspaceFromContext returns the browser workspace stored in ctx, or nil.
func workspaceFromContext(ctx context.Context) *core.Workspace {
	v, _ := ctx.Value(workspaceKey{}).(*core.Workspace)
	return v
}

// sessionCookies signs and verifies the browser-session cookie. The cookie carries
// only the browser session id; all state stays server-side.
type sessionCookies struct {
	secret []byte
	secure bool
}

func (s *sessionCookies) read(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return ""
	}
	return claims.Subject
}

func (s *sessionCookies) write(w http.ResponseWriter, sid string) error {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionCookieTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionCookieTTL.Seconds()),
	})
	return nil
}

// workspaceRegistry keeps one live Workspace per browser session and evicts
// workspaces idle for longer than idle, dropping their storage.
type workspaceRegistry struct {
	storage kv.Backend
	sched   core.Scheduler
	idle    time.Duration

	mu    sync.Mutex
	items map[string]*core.Workspace
}

func newWorkspaceRegistry(storage kv.Backend, sched core.Scheduler, idle time.Duration) *workspaceRegistry {
	return &workspaceRegistry{
		storage: storage,
		sched:   sched,
		idle:    idle,
		items:   make(map[string]*core.Workspace),
	}
}

// get returns the workspace for sid, rehydrating it from storage when it is not live.
func (reg *workspaceRegistry) get(ctx context.Context, sid string) *core.Workspace {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if ws, ok := reg.items[sid]; ok {
		return ws
	}
	ws := core.NewWorkspace(ctx, sid, reg.storage.Scope(sid), reg.sched)
	reg.items[sid] = ws
	return ws
}

// issue starts a workspace under a brand-new browser session id.
func (reg *workspaceRegistry) issue(ctx context.Context) *core.Workspace {
	return reg.get(ctx, uuid.NewString())
}

// discard tears down the workspace for sid, if live, and drops its storage.
func (reg *workspaceRegistry) discard(ctx context.Context, sid string) {
	reg.mu.Lock()
	ws, ok := reg.items[sid]
	delete(reg.items, sid)
	reg.mu.Unlock()
	if ok {
		ws.Close()
	}
	if err := reg.storage.Drop(ctx, sid); err != nil {
		log.Printf("workspace %s: drop storage: %v", sid, err)
	}
}

func (reg *workspaceRegistry) len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.items)
}

// purgeIdle evicts every workspace idle longer than the timeout and returns how many.
func (reg *workspaceRegistry) purgeIdle(ctx context.Context) int {
	if reg.idle <= 0 {
		return 0
	}
	var expired []*core.Workspace
	reg.mu.Lock()
	for sid, ws := range reg.items {
		if time.Since(ws.LastSeen()) > reg.idle {
			expired = append(expired, ws)
			delete(reg.items, sid)
		}
	}
	reg.mu.Unlock()

	for _, ws := range expired {
		ws.Close()
		if err := reg.storage.Drop(ctx, ws.ID); err != nil {
			log.Printf("workspace %s: drop storage: %v", ws.ID, err)
		}
	}
	return len(expired)
}

// closeAll tears every live workspace down without touching storage.
func (reg *workspaceRegistry) closeAll() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for sid, ws := range reg.items {
		ws.Close()
		delete(reg.items, sid)
	}
}

// startPurge starts a background goroutine that evicts idle workspaces every 5 minutes.
func (reg *workspaceRegistry) startPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := reg.purgeIdle(ctx); n > 0 {
					log.Printf("evicted %d idle workspaces", n)
				}
			}
		}
	}()
}

// WithWorkspace resolves the browser session cookie (issuing one on first visit) and
// injects that browser's Workspace into the request context.
func (h *Handler) WithWorkspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := h.sessions.read(r)
		if sid == "" {
			sid = uuid.NewString()
			if err := h.sessions.write(w, sid); err != nil {
				writeError(w, r, "session setup failed", "INTERNAL_ERROR", http.StatusInternalServerError)
				return
			}
		}
		ws := h.workspaces.get(r.Context(), sid)
		ws.Touch()
		ctx := context.WithValue(r.Context(), workspaceKey{}, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
