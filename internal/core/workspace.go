package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"support-console/internal/kv"
)

// Workspace is the client state of one browser session: storage plus the stores
// composed over it. Handlers receive it explicitly; there are no package globals.
type Workspace struct {
	ID        string
	Storage   kv.Storage
	Notifier  *Broadcaster
	Session   *SessionStore
	Companies *CompanySelector
	Title     *TitleRegister
	Gate      *Gate
	Requests  *Generations

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	lastSeen time.Time
}

// NewWorkspace composes the stores for browser session id, rehydrating the session
// and company selection from storage. sched may be nil.
func NewWorkspace(ctx context.Context, id string, storage kv.Storage, sched Scheduler) *Workspace {
	w := &Workspace{
		ID:       id,
		Storage:  storage,
		Notifier: NewBroadcaster(sched),
		Title:    &TitleRegister{},
		Gate:     NewGate(),
		Requests: &Generations{},
		lastSeen: time.Now(),
	}
	w.Session = NewSessionStore(ctx, storage)
	w.Companies = NewCompanySelector(ctx, storage)
	w.ctx, w.cancel = context.WithCancel(context.Background())
	return w
}

// Context is cancelled when the workspace logs out or is torn down. Work that
// outlives a single HTTP request binds to it.
func (w *Workspace) Context() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ctx
}

// Touch records activity for idle expiry.
func (w *Workspace) Touch() {
	w.mu.Lock()
	w.lastSeen = time.Now()
	w.mu.Unlock()
}

// LastSeen returns the time of the last Touch.
func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Role returns the session role, or "" when unauthenticated.
func (w *Workspace) Role() Role {
	return w.Session.Role()
}

// Login installs a freshly issued session, replacing any prior one, and mirrors the
// token, user, company list and current company to storage.
func (w *Workspace) Login(ctx context.Context, token string, u *User) error {
	if u == nil || !u.Role.Valid() {
		return errInvalidUser
	}
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := w.Storage.Set(ctx, kv.KeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := w.Storage.Set(ctx, kv.KeyUser, string(b)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	w.Session.Set(u)

	companies := u.Companies()
	if err := w.Companies.SetCompanies(ctx, companies); err != nil {
		return err
	}
	current := u.CompanyID
	if current == "" && len(companies) > 0 {
		current = companies[0].ID
	}
	return w.Companies.SetCurrentID(ctx, current)
}

// UpdateUser replaces the session user and its durable snapshot, keeping the token.
func (w *Workspace) UpdateUser(ctx context.Context, u *User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := w.Storage.Set(ctx, kv.KeyUser, string(b)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	w.Session.Set(u)
	return nil
}

// Logout clears the session from memory and storage, declines pending confirmations
// and cancels work bound to the old session.
func (w *Workspace) Logout(ctx context.Context) error {
	w.Session.Set(nil)
	w.Gate.CancelAll()

	w.mu.Lock()
	w.cancel()
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.mu.Unlock()

	if err := w.Storage.Remove(ctx, kv.KeyToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := w.Storage.Remove(ctx, kv.KeyUser); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	if err := w.Companies.clear(ctx); err != nil {
		return fmt.Errorf("clear companies: %w", err)
	}
	return nil
}

// Close tears the workspace down for good. Storage is left to its backend.
func (w *Workspace) Close() {
	w.Gate.Close()
	w.Notifier.Dismiss()
	w.mu.Lock()
	w.cancel()
	w.mu.Unlock()
}
