package storage

import (
	"context"
	"encoding/json"
	"log"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/domain"
)

// Keys under which client state is persisted. The layout matches the
// backend-facing contract: the record under "user", the bearer token under
// "token", and the edit-screen handoff snapshot under "editUserData".
const (
	KeyUser        = "user"
	KeyToken       = "token"
	KeyEditProfile = "editUserData"
)

// Adapter is the only component that encodes or decodes persisted state.
// A record that fails to decode is logged and treated exactly like a
// missing record; callers never see a decode error.
type Adapter struct {
	durable Store
	session Store
}

func NewAdapter(durable, session Store) *Adapter {
	return &Adapter{durable: durable, session: session}
}

func (a *Adapter) ReadProfile(ctx context.Context) (*domain.Profile, error) {
	return readProfile(ctx, a.durable, KeyUser)
}

func (a *Adapter) WriteProfile(ctx context.Context, p *domain.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return a.durable.Set(ctx, KeyUser, data)
}

func (a *Adapter) ClearProfile(ctx context.Context) error {
	return a.durable.Delete(ctx, KeyUser)
}

// ReadToken returns the stored bearer token, or "" when absent.
func (a *Adapter) ReadToken(ctx context.Context) (string, error) {
	data, ok, err := a.durable.Get(ctx, KeyToken)
	if err != nil || !ok {
		return "", err
	}
	return string(data), nil
}

func (a *Adapter) WriteToken(ctx context.Context, token string) error {
	return a.durable.Set(ctx, KeyToken, []byte(token))
}

func (a *Adapter) ClearToken(ctx context.Context) error {
	return a.durable.Delete(ctx, KeyToken)
}

// StashEditProfile parks a snapshot in the session store for the next
// screen to pick up.
func (a *Adapter) StashEditProfile(ctx context.Context, p *domain.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return a.session.Set(ctx, KeyEditProfile, data)
}

// TakeEditProfile reads the handoff snapshot and clears it immediately,
// so a stale snapshot can never leak into a later edit.
func (a *Adapter) TakeEditProfile(ctx context.Context) (*domain.Profile, error) {
	p, err := readProfile(ctx, a.session, KeyEditProfile)
	if err != nil {
		return nil, err
	}
	if clearErr := a.session.Delete(ctx, KeyEditProfile); clearErr != nil {
		log.Printf("storage: failed to clear edit snapshot: %v", clearErr)
	}
	return p, nil
}

// ClearAll wipes every piece of persisted client state, durable and
// session-scoped.
func (a *Adapter) ClearAll(ctx context.Context) error {
	var firstErr error
	for _, clear := range []func(context.Context) error{
		a.ClearProfile,
		a.ClearToken,
		func(ctx context.Context) error { return a.session.Delete(ctx, KeyEditProfile) },
	} {
		if err := clear(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func readProfile(ctx context.Context, store Store, key string) (*domain.Profile, error) {
	data, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("storage: discarding malformed record under %q: %v", key, err)
		return nil, nil
	}
	return &p, nil
}
