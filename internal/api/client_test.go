package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, func() string { return "tok-1" })
}

func TestLoginDecodesUserAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users/login", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("X-Device-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@x.com", body["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"id": "u-1", "name": "Ann", "email": "a@x.com"},
			"token": "jwt-123",
		})
	})

	resp, err := c.Login(context.Background(), "a@x.com", "Aa1!aaaa")
	require.NoError(t, err)
	require.Equal(t, "jwt-123", resp.Token)
	require.Equal(t, "u-1", resp.User.ID)
}

func TestRejectionCarriesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "wrong password"})
	})

	_, err := c.Login(context.Background(), "a@x.com", "nope")
	require.Error(t, err)
	require.True(t, IsRejected(err))
	require.False(t, IsUnreachable(err))
	require.EqualError(t, err, "wrong password")
}

func TestUnreachableBackendIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	c := NewClient(srv.URL, time.Second, nil)

	_, err := c.Login(context.Background(), "a@x.com", "pw")
	require.Error(t, err)
	require.True(t, IsUnreachable(err))
	require.False(t, IsRejected(err))
}

func TestGoogleAuthForwardsRawCredential(t *testing.T) {
	var got GoogleAuthRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/google", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user":    map[string]any{"id": "u-2", "name": "Ann", "email": "a@x.com"},
			"token":   "jwt-456",
		})
	})

	resp, err := c.GoogleAuth(context.Background(), GoogleAuthRequest{
		Credential: "raw.jwt.credential",
		Name:       "Ann",
		Email:      "a@x.com",
		Sub:        "sub-1",
	})
	require.NoError(t, err)
	require.Equal(t, "raw.jwt.credential", got.Credential)
	require.Equal(t, "jwt-456", resp.Token)
	require.Nil(t, resp.IsNewUser)
}

func TestGoogleAuthUnsuccessfulBodyIsRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "bad credential"})
	})

	_, err := c.GoogleAuth(context.Background(), GoogleAuthRequest{Credential: "x"})
	require.True(t, IsRejected(err))
	require.EqualError(t, err, "bad credential")
}

func TestCheckEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/check-email", r.URL.Path)
		require.Equal(t, "a@x.com", r.URL.Query().Get("email"))
		json.NewEncoder(w).Encode(map[string]bool{"exists": true})
	})

	exists, err := c.CheckEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestUpdateUserSendsOnlyMentionedFields(t *testing.T) {
	var raw map[string]json.RawMessage
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/users/u-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusOK)
	})

	age := 31
	err := c.UpdateUser(context.Background(), "u-1", domain.Patch{Age: &age})
	require.NoError(t, err)
	require.Contains(t, raw, "age")
	require.NotContains(t, raw, "name")
	require.NotContains(t, raw, "interests")
}

func TestDeleteUserAccepts204(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.DeleteUser(context.Background(), "u-1"))
}

func TestListItineraries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/itineraries/user/u-1", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]string{
			{"id": "it-1", "title": "Lisbon weekend", "destination": "Lisbon"},
		})
	})

	list, err := c.ListItineraries(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Lisbon weekend", list[0].Title)
}
