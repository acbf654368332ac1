// Package kv is the durable per-browser storage the console mirrors client state into.
//
// A Backend holds many browser sessions; Scope hands out a Storage limited to one of
// them. Every logical entity (token, user, companies, current company) lives under its
// own key so each can be read, written and removed independently.
package kv

import "context"

// Well-known keys written by the console core.
const (
	KeyToken            = "token"
	KeyUser             = "user"
	KeyCompanies        = "companies"
	KeyCurrentCompanyID = "currentCompanyId"
	// KeyOAuthState holds the one-time state of a Google sign-in in flight.
	KeyOAuthState = "oauthState"
)

// Storage is the key-value view of a single browser session.
type Storage interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Backend partitions storage by browser session id.
type Backend interface {
	Scope(sid string) Storage
	// Drop removes every key stored for sid.
	Drop(ctx context.Context, sid string) error
	Close() error
}
