package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/api"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/domain"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/session"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/storage"
)

type fixture struct {
	manager  *Manager
	sessions *session.Controller
	adapter  *storage.Adapter
}

func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()
	var url string
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		url = srv.URL
	} else {
		// Unreachable backend.
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		url = srv.URL
	}

	durable, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	adapter := storage.NewAdapter(durable, storage.NewMemoryStore())
	sessions, err := session.NewController(context.Background(), adapter)
	require.NoError(t, err)

	client := api.NewClient(url, 2*time.Second, sessions.Token)
	return &fixture{
		manager:  NewManager(sessions, client, adapter),
		sessions: sessions,
		adapter:  adapter,
	}
}

func loginAnn(t *testing.T, sessions *session.Controller) {
	t.Helper()
	age := 30
	p := &domain.Profile{
		ID: "u-1", Name: "Ann", Email: "a@x.com", Age: &age,
		Interests: []string{"Hiking"},
	}
	require.NoError(t, sessions.AdoptWithToken(context.Background(), p, "tok"))
}

func TestLogoutClearsEverythingWithoutRemoteCall(t *testing.T) {
	called := false
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	loginAnn(t, f.sessions)

	require.NoError(t, f.manager.Logout(context.Background()))

	require.False(t, called)
	require.False(t, f.sessions.LoggedIn())
	p, err := f.adapter.ReadProfile(context.Background())
	require.NoError(t, err)
	require.Nil(t, p)
	tok, err := f.adapter.ReadToken(context.Background())
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestDeleteAccountRemoteSuccess(t *testing.T) {
	var deleted string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	loginAnn(t, f.sessions)

	require.NoError(t, f.manager.DeleteAccount(context.Background()))
	require.Equal(t, "/users/u-1", deleted)
	require.False(t, f.sessions.LoggedIn())
}

func TestDeleteAccountClearsLocallyOnNetworkFailure(t *testing.T) {
	f := newFixture(t, nil) // unreachable backend
	loginAnn(t, f.sessions)

	err := f.manager.DeleteAccount(context.Background())
	require.ErrorIs(t, err, ErrRemoteDeleteFailed)

	// Local teardown is unconditional.
	require.Nil(t, f.sessions.Current())
	p, readErr := f.adapter.ReadProfile(context.Background())
	require.NoError(t, readErr)
	require.Nil(t, p)
	tok, readErr := f.adapter.ReadToken(context.Background())
	require.NoError(t, readErr)
	require.Empty(t, tok)
}

func TestDeleteAccountClearsLocallyOnRejection(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
	}))
	loginAnn(t, f.sessions)

	err := f.manager.DeleteAccount(context.Background())
	require.ErrorIs(t, err, ErrRemoteDeleteFailed)
	require.False(t, f.sessions.LoggedIn())
}

func TestProfileEditHandoff(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	loginAnn(t, f.sessions)
	ctx := context.Background()

	require.NoError(t, f.manager.BeginProfileEdit(ctx))

	first, err := f.manager.LoadProfileEdit(ctx)
	require.NoError(t, err)
	require.Equal(t, "Ann", first.Name)

	// The snapshot is consumed; the next load falls back to the live value.
	second, err := f.manager.LoadProfileEdit(ctx)
	require.NoError(t, err)
	require.Equal(t, "Ann", second.Name)
	stashed, err := f.adapter.TakeEditProfile(ctx)
	require.NoError(t, err)
	require.Nil(t, stashed)
}

func TestSubmitProfileEditMergesAndKeepsEmail(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	loginAnn(t, f.sessions)

	age := 31
	country := "Spain"
	updated, err := f.manager.SubmitProfileEdit(context.Background(), EditInput{
		Name:      "Annie",
		Age:       &age,
		Country:   &country,
		Interests: []string{"Hiking", "Jazz", "Jazz"},
	})
	require.NoError(t, err)

	require.Equal(t, "Annie", updated.Name)
	require.Equal(t, "a@x.com", updated.Email)
	require.Equal(t, 31, *updated.Age)
	require.Equal(t, []string{"Hiking", "Jazz"}, updated.Interests)
	require.Equal(t, "u-1", updated.ID)

	// Durable store already has the merged record.
	stored, err := f.adapter.ReadProfile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Annie", stored.Name)
}

func TestSubmitProfileEditValidation(t *testing.T) {
	f := newFixture(t, nil)
	loginAnn(t, f.sessions)

	_, err := f.manager.SubmitProfileEdit(context.Background(), EditInput{Name: "An"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := "BTC"
	_, err = f.manager.SubmitProfileEdit(context.Background(), EditInput{Name: "Annie", Currency: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmitProfileEditLocalCommitSurvivesBackendFailure(t *testing.T) {
	f := newFixture(t, nil) // unreachable backend
	loginAnn(t, f.sessions)

	updated, err := f.manager.SubmitProfileEdit(context.Background(), EditInput{Name: "Annie"})
	require.NoError(t, err)
	require.Equal(t, "Annie", updated.Name)
	require.Equal(t, "Annie", f.sessions.Current().Name)
}

func TestSaveInterestsReplacesSet(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	loginAnn(t, f.sessions)

	updated, err := f.manager.SaveInterests(context.Background(), []string{"Rock", "Camping"})
	require.NoError(t, err)
	require.Equal(t, []string{"Rock", "Camping"}, updated.Interests)
}

func TestSavedItineraries(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/itineraries/user/u-1", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]string{{"id": "it-1", "title": "Lisbon"}})
	}))
	loginAnn(t, f.sessions)

	list, err := f.manager.SavedItineraries(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.manager.Logout(context.Background()))
	_, err = f.manager.SavedItineraries(context.Background())
	require.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestOperationsRequireLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.ErrorIs(t, f.manager.DeleteAccount(ctx), domain.ErrNotLoggedIn)
	require.ErrorIs(t, f.manager.BeginProfileEdit(ctx), domain.ErrNotLoggedIn)
	_, err := f.manager.LoadProfileEdit(ctx)
	require.ErrorIs(t, err, domain.ErrNotLoggedIn)
	_, err = f.manager.SubmitProfileEdit(ctx, EditInput{Name: "Annie"})
	require.ErrorIs(t, err, domain.ErrNotLoggedIn)
	require.ErrorIs(t, f.manager.DeleteItinerary(ctx, "it-1"), domain.ErrNotLoggedIn)
}
