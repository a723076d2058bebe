package account

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/api"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/domain"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/session"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/storage"
)

// ErrRemoteDeleteFailed reports that the backend account could not be
// removed. Local state is already gone when this is returned; callers show
// it as a warning, not a failure.
var ErrRemoteDeleteFailed = errors.New("account removed locally, but the server could not delete it")

// Manager bundles the settings-screen operations: logout, account
// deletion, profile editing via the session-store handoff, the interest
// screen, and saved itineraries.
type Manager struct {
	sessions *session.Controller
	api      *api.Client
	adapter  *storage.Adapter
	validate *validator.Validate
}

func NewManager(sessions *session.Controller, apiClient *api.Client, adapter *storage.Adapter) *Manager {
	return &Manager{
		sessions: sessions,
		api:      apiClient,
		adapter:  adapter,
		validate: validator.New(),
	}
}

// Logout tears down local session state. It makes no remote call and
// always succeeds.
func (m *Manager) Logout(ctx context.Context) error {
	return m.sessions.Clear(ctx)
}

// DeleteAccount removes the remote account, then unconditionally clears
// all local state. The local teardown happens regardless of the remote
// outcome; a remote failure comes back as ErrRemoteDeleteFailed.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	current := m.sessions.Current()
	if current == nil {
		return domain.ErrNotLoggedIn
	}

	var remoteErr error
	if current.ID != "" {
		if err := m.api.DeleteUser(ctx, current.ID); err != nil {
			log.Printf("account: remote deletion of %s failed, clearing local state anyway: %v", current.ID, err)
			remoteErr = fmt.Errorf("%w: %v", ErrRemoteDeleteFailed, err)
		}
	}

	if err := m.sessions.Clear(ctx); err != nil {
		return err
	}
	return remoteErr
}

// BeginProfileEdit stashes a snapshot of the current profile for the edit
// screen to pick up.
func (m *Manager) BeginProfileEdit(ctx context.Context) error {
	current := m.sessions.Current()
	if current == nil {
		return domain.ErrNotLoggedIn
	}
	return m.adapter.StashEditProfile(ctx, current)
}

// LoadProfileEdit returns the record the edit screen should pre-fill from:
// the stashed snapshot when one is pending (consumed on read), otherwise
// the live session value.
func (m *Manager) LoadProfileEdit(ctx context.Context) (*domain.Profile, error) {
	stashed, err := m.adapter.TakeEditProfile(ctx)
	if err != nil {
		return nil, err
	}
	if stashed != nil {
		return stashed, nil
	}
	current := m.sessions.Current()
	if current == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return current, nil
}

// EditInput is the single-step edit form. Email is deliberately absent:
// it cannot be changed.
type EditInput struct {
	Name      string   `validate:"required,min=3,max=20"`
	Age       *int     `validate:"omitempty,min=1,max=120"`
	Country   *string  `validate:"omitempty"`
	ZipCode   *string  `validate:"omitempty"`
	Currency  *string  `validate:"omitempty,oneof=USD EUR GBP JPY CAD AUD CNY"`
	Interests []string `validate:"omitempty"`
}

// SubmitProfileEdit merges the edit form into the current profile, adopts
// the result and pushes the update to the backend best-effort.
func (m *Manager) SubmitProfileEdit(ctx context.Context, in EditInput) (*domain.Profile, error) {
	if err := m.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	patch := domain.Patch{Name: &in.Name}
	if in.Age != nil {
		patch.Age = in.Age
	}
	if in.Country != nil {
		patch.Country = in.Country
	}
	if in.ZipCode != nil {
		patch.ZipCode = in.ZipCode
	}
	if in.Currency != nil {
		patch.PreferredCurrency = in.Currency
	}
	if in.Interests != nil {
		interests := append([]string(nil), in.Interests...)
		patch.Interests = &interests
	}

	return m.applyPatch(ctx, patch)
}

// SaveInterests replaces the interest set wholesale, the way the interest
// screen submits it.
func (m *Manager) SaveInterests(ctx context.Context, interests []string) (*domain.Profile, error) {
	tags := append([]string(nil), interests...)
	return m.applyPatch(ctx, domain.Patch{Interests: &tags})
}

// SavedItineraries lists the current user's saved itineraries.
func (m *Manager) SavedItineraries(ctx context.Context) ([]api.ItinerarySummary, error) {
	current := m.sessions.Current()
	if current == nil {
		return nil, domain.ErrNotLoggedIn
	}
	if current.ID == "" {
		return nil, domain.ErrNoAccountID
	}
	return m.api.ListItineraries(ctx, current.ID)
}

// DeleteItinerary removes one saved itinerary. Unlike profile pushes this
// is not fire-and-forget: the screen refreshes from the result.
func (m *Manager) DeleteItinerary(ctx context.Context, id string) error {
	if !m.sessions.LoggedIn() {
		return domain.ErrNotLoggedIn
	}
	return m.api.DeleteItinerary(ctx, id)
}

// applyPatch is the shared local-commit-then-best-effort-sync path: one
// merge, durable adoption, and a PUT whose failure is logged but never
// undoes the local commit.
func (m *Manager) applyPatch(ctx context.Context, patch domain.Patch) (*domain.Profile, error) {
	current := m.sessions.Current()
	if current == nil {
		return nil, domain.ErrNotLoggedIn
	}

	merged := domain.Merge(current, patch)
	merged.IsNewUser = current.IsNewUser
	if err := m.sessions.Adopt(ctx, &merged); err != nil {
		return nil, err
	}

	if merged.ID != "" {
		if err := m.api.UpdateUser(ctx, merged.ID, domain.WireUpdate(patch, &merged)); err != nil {
			log.Printf("account: backend update failed, local profile is committed: %v", err)
		}
	}
	return m.sessions.Current(), nil
}
