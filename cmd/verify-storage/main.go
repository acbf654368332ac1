// Command verify-storage checks that the configured durable storage backend accepts
// writes, reads them back and removes them, using a throwaway browser scope.
package main

import (
	"context"
	"log"
	"time"

	"support-console/internal/config"
	"support-console/internal/kv"

	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backend, err := kv.Open(ctx, cfg.Storage, time.Minute)
	if err != nil {
		log.Fatalf("[CONNECT] %s: %v", cfg.Storage.Driver, err)
	}
	defer backend.Close()
	log.Printf("[CONNECT] %s: success", cfg.Storage.Driver)

	sid := "verify-" + uuid.NewString()
	scope := backend.Scope(sid)
	defer func() {
		if err := backend.Drop(context.Background(), sid); err != nil {
			log.Printf("[CLEANUP] drop %s: %v", sid, err)
		}
	}()

	const want = `{"id":"verify","role":"readonly"}`
	if err := scope.Set(ctx, kv.KeyUser, want); err != nil {
		log.Fatalf("[WRITE] %v", err)
	}
	got, ok, err := scope.Get(ctx, kv.KeyUser)
	if err != nil {
		log.Fatalf("[READ] %v", err)
	}
	if !ok || got != want {
		log.Fatalf("[READ] got %q (present=%v), want %q", got, ok, want)
	}
	if err := scope.Remove(ctx, kv.KeyUser); err != nil {
		log.Fatalf("[REMOVE] %v", err)
	}
	if _, ok, err := scope.Get(ctx, kv.KeyUser); err != nil || ok {
		log.Fatalf("[REMOVE] key still present (err=%v)", err)
	}

	log.Println("[DONE] storage round trip succeeded.")
}
