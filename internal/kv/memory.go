package kv

import (
	"context"
	"sync"
)

// MemoryBackend keeps all scopes in process memory. State is lost on restart.
type MemoryBackend struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{scopes: make(map[string]map[string]string)}
}

func (b *MemoryBackend) Scope(sid string) Storage {
	return &memoryStorage{backend: b, sid: sid}
}

func (b *MemoryBackend) Drop(_ context.Context, sid string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.scopes, sid)
	return nil
}

func (b *MemoryBackend) Close() error { return nil }

type memoryStorage struct {
	backend *MemoryBackend
	sid     string
}

func (s *memoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	v, ok := s.backend.scopes[s.sid][key]
	return v, ok, nil
}

func (s *memoryStorage) Set(_ context.Context, key, value string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	scope, ok := s.backend.scopes[s.sid]
	if !ok {
		scope = make(map[string]string)
		s.backend.scopes[s.sid] = scope
	}
	scope[key] = value
	return nil
}

func (s *memoryStorage) Remove(_ context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	delete(s.backend.scopes[s.sid], key)
	return nil
}
