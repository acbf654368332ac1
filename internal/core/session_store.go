package core

import (
	"context"
	"sync"

	"support-console/internal/kv"
)

// SessionStore holds the current user in memory. It reads the durable snapshot once
// at construction; Set never writes through, so callers persist explicitly.
type SessionStore struct {
	mu   sync.RWMutex
	user *User
}

// NewSessionStore builds a store from the durable user snapshot in storage.
// A missing, unreadable or malformed snapshot yields an empty session.
func NewSessionStore(ctx context.Context, storage kv.Storage) *SessionStore {
	s := &SessionStore{}
	raw, ok, err := storage.Get(ctx, kv.KeyUser)
	if err != nil || !ok {
		return s
	}
	if u, err := ParseUser(raw); err == nil {
		s.user = u
	}
	return s
}

// Current returns a copy of the session user, or nil when unauthenticated.
func (s *SessionStore) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	return s.user.clone()
}

// Set replaces the session user. nil means unauthenticated.
func (s *SessionStore) Set(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	s.user = u.clone()
}

// Role returns the current user's role, or "" when unauthenticated.
func (s *SessionStore) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}
