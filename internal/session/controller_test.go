package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/domain"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/storage"
)

func newAdapter(t *testing.T) *storage.Adapter {
	t.Helper()
	durable, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return storage.NewAdapter(durable, storage.NewMemoryStore())
}

func profileAnn() *domain.Profile {
	p := &domain.Profile{ID: "u-1", Name: "Ann", Email: "a@x.com"}
	p.Normalize()
	return p
}

func TestControllerStartsLoggedOut(t *testing.T) {
	c, err := NewController(context.Background(), newAdapter(t))
	require.NoError(t, err)
	require.Nil(t, c.Current())
	require.False(t, c.LoggedIn())
	require.Empty(t, c.Token())
}

func TestAdoptWithTokenPersistsBeforeReturn(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t)
	c, err := NewController(ctx, adapter)
	require.NoError(t, err)

	require.NoError(t, c.AdoptWithToken(ctx, profileAnn(), "tok-1"))

	// A fresh reader of the durable store sees the committed state already.
	stored, err := adapter.ReadProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, "Ann", stored.Name)
	tok, err := adapter.ReadToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-1", tok)

	require.True(t, c.LoggedIn())
	require.Equal(t, "u-1", c.Current().ID)
}

func TestControllerRestoresSessionAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t)

	first, err := NewController(ctx, adapter)
	require.NoError(t, err)
	require.NoError(t, first.AdoptWithToken(ctx, profileAnn(), "tok-1"))

	second, err := NewController(ctx, adapter)
	require.NoError(t, err)
	require.True(t, second.LoggedIn())
	require.Equal(t, "a@x.com", second.Current().Email)
	require.Equal(t, "tok-1", second.Token())
}

func TestControllerRepairsOrphanedToken(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t)
	require.NoError(t, adapter.WriteToken(ctx, "orphan"))

	c, err := NewController(ctx, adapter)
	require.NoError(t, err)
	require.False(t, c.LoggedIn())

	tok, err := adapter.ReadToken(ctx)
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestControllerRepairsOrphanedRecord(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t)
	require.NoError(t, adapter.WriteProfile(ctx, profileAnn()))

	c, err := NewController(ctx, adapter)
	require.NoError(t, err)
	require.False(t, c.LoggedIn())

	p, err := adapter.ReadProfile(ctx)
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestClearRemovesMemoryAndStores(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t)
	c, err := NewController(ctx, adapter)
	require.NoError(t, err)
	require.NoError(t, c.AdoptWithToken(ctx, profileAnn(), "tok-1"))

	require.NoError(t, c.Clear(ctx))

	require.Nil(t, c.Current())
	require.Empty(t, c.Token())
	p, err := adapter.ReadProfile(ctx)
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestCurrentReturnsACopy(t *testing.T) {
	ctx := context.Background()
	c, err := NewController(ctx, newAdapter(t))
	require.NoError(t, err)
	require.NoError(t, c.AdoptWithToken(ctx, profileAnn(), "tok-1"))

	snapshot := c.Current()
	snapshot.Name = "Mallory"
	snapshot.Interests = append(snapshot.Interests, "x")

	require.Equal(t, "Ann", c.Current().Name)
	require.Empty(t, c.Current().Interests)
}

func TestSubscribeSeesAdoptAndClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewController(ctx, newAdapter(t))
	require.NoError(t, err)

	var events []*domain.Profile
	unsubscribe := c.Subscribe(func(p *domain.Profile) {
		events = append(events, p)
	})

	require.NoError(t, c.AdoptWithToken(ctx, profileAnn(), "tok-1"))
	require.NoError(t, c.Clear(ctx))

	require.Len(t, events, 2)
	require.Equal(t, "Ann", events[0].Name)
	require.Nil(t, events[1])

	unsubscribe()
	require.NoError(t, c.Adopt(ctx, profileAnn()))
	require.Len(t, events, 2)
}
