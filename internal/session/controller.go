package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/domain"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/storage"
)

// Controller owns the live "current user" value. All reads of "is someone
// logged in" go through it, and every mutation persists durably before the
// call returns, so the in-memory and durable views are never observably out
// of sync to a subsequent reader.
//
// Mutations from concurrent processes sharing one durable store are
// last-write-wins; the store backends keep individual writes atomic, so a
// race drops the earlier write but never corrupts the record.
type Controller struct {
	mu      sync.RWMutex
	adapter *storage.Adapter
	current *domain.Profile
	token   string
	subs    map[int]func(*domain.Profile)
	nextSub int
}

// NewController initializes the session from durable storage. The token and
// record are coupled 1:1: if exactly one of the two survived (a crashed
// half-written login, for instance) both are cleared and the session starts
// logged out.
func NewController(ctx context.Context, adapter *storage.Adapter) (*Controller, error) {
	c := &Controller{
		adapter: adapter,
		subs:    make(map[int]func(*domain.Profile)),
	}

	profile, err := adapter.ReadProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	token, err := adapter.ReadToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	if (profile == nil) != (token == "") {
		log.Printf("session: record/token mismatch in durable store, clearing both")
		if err := adapter.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to repair session state: %w", err)
		}
		profile, token = nil, ""
	}

	c.current = profile
	c.token = token
	return c, nil
}

// Current returns a copy of the current profile, or nil when logged out.
func (c *Controller) Current() *domain.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Clone()
}

// Token returns the bearer token for the current session, or "".
func (c *Controller) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// LoggedIn reports whether a user is present.
func (c *Controller) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current != nil
}

// Adopt replaces the current profile and persists it durably before
// returning. On a persistence failure the in-memory value is left
// untouched.
func (c *Controller) Adopt(ctx context.Context, p *domain.Profile) error {
	if p == nil {
		return domain.ErrInvalidInput
	}
	stored := p.Clone()
	stored.Normalize()

	c.mu.Lock()
	if err := c.adapter.WriteProfile(ctx, stored); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	c.current = stored
	c.mu.Unlock()

	c.notify(stored)
	return nil
}

// AdoptWithToken installs a profile and its bearer token together, keeping
// the both-or-neither coupling. Used on every successful authentication.
func (c *Controller) AdoptWithToken(ctx context.Context, p *domain.Profile, token string) error {
	if p == nil || token == "" {
		return domain.ErrInvalidInput
	}
	stored := p.Clone()
	stored.Normalize()

	c.mu.Lock()
	if err := c.adapter.WriteProfile(ctx, stored); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	if err := c.adapter.WriteToken(ctx, token); err != nil {
		// Roll the record back rather than leave a record without a token.
		if clearErr := c.adapter.ClearProfile(ctx); clearErr != nil {
			log.Printf("session: failed to roll back profile after token write error: %v", clearErr)
		}
		c.mu.Unlock()
		return fmt.Errorf("failed to persist token: %w", err)
	}
	c.current = stored
	c.token = token
	c.mu.Unlock()

	c.notify(stored)
	return nil
}

// Clear tears the session down: in-memory value, durable record and token,
// and any pending handoff snapshot.
func (c *Controller) Clear(ctx context.Context) error {
	c.mu.Lock()
	err := c.adapter.ClearAll(ctx)
	c.current = nil
	c.token = ""
	c.mu.Unlock()

	c.notify(nil)
	if err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}
	return nil
}

// Subscribe registers a callback invoked after every session change with
// the new profile (nil on logout). The returned function unsubscribes.
func (c *Controller) Subscribe(fn func(*domain.Profile)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Controller) notify(p *domain.Profile) {
	c.mu.RLock()
	fns := make([]func(*domain.Profile), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(p.Clone())
	}
}
