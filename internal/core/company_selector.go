package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"support-console/internal/kv"
)

// CompanySelector holds the user's companies and which one is current. Both values
// write through to storage on every change. The current id is not checked
// against the list.
type CompanySelector struct {
	storage kv.Storage

	mu        sync.RWMutex
	companies []Company
	currentID string
}

// NewCompanySelector rehydrates both values from storage independently.
func NewCompanySelector(ctx context.Context, storage kv.Storage) *CompanySelector {
	c := &CompanySelector{storage: storage, companies: []Company{}}
	if raw, ok, err := storage.Get(ctx, kv.KeyCompanies); err == nil && ok {
		var list []Company
		if json.Unmarshal([]byte(raw), &list) == nil && list != nil {
			c.companies = list
		}
	}
	if id, ok, err := storage.Get(ctx, kv.KeyCurrentCompanyID); err == nil && ok {
		c.currentID = id
	}
	return c
}

// Companies returns a copy of the company list.
func (c *CompanySelector) Companies() []Company {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Company, len(c.companies))
	copy(out, c.companies)
	return out
}

// SetCompanies replaces the list and mirrors it to storage.
func (c *CompanySelector) SetCompanies(ctx context.Context, companies []Company) error {
	if companies == nil {
		companies = []Company{}
	}
	b, err := json.Marshal(companies)
	if err != nil {
		return fmt.Errorf("encode companies: %w", err)
	}

	c.mu.Lock()
	c.companies = append([]Company(nil), companies...)
	c.mu.Unlock()

	if err := c.storage.Set(ctx, kv.KeyCompanies, string(b)); err != nil {
		return fmt.Errorf("persist companies: %w", err)
	}
	return nil
}

// CurrentID returns the selected company id, or "".
func (c *CompanySelector) CurrentID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentID
}

// SetCurrentID selects a company and mirrors the id to storage.
func (c *CompanySelector) SetCurrentID(ctx context.Context, id string) error {
	c.mu.Lock()
	c.currentID = id
	c.mu.Unlock()

	if err := c.storage.Set(ctx, kv.KeyCurrentCompanyID, id); err != nil {
		return fmt.Errorf("persist current company: %w", err)
	}
	return nil
}

// Current resolves the selected id against the list. found is false for an empty
// or stale id.
func (c *CompanySelector) Current() (company Company, found bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, co := range c.companies {
		if co.ID == c.currentID && c.currentID != "" {
			return co, true
		}
	}
	return Company{ID: c.currentID}, false
}

// clear empties memory and removes both durable entries.
func (c *CompanySelector) clear(ctx context.Context) error {
	c.mu.Lock()
	c.companies = []Company{}
	c.currentID = ""
	c.mu.Unlock()

	if err := c.storage.Remove(ctx, kv.KeyCompanies); err != nil {
		return err
	}
	return c.storage.Remove(ctx, kv.KeyCurrentCompanyID)
}
