package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/domain"
)

// TokenFunc supplies the current bearer token, or "" when logged out.
type TokenFunc func() string

// Client talks to the Voyage backend. It is a dumb contract client: it
// never touches local state, and it reports failures as either a
// StatusError (rejected) or a wrapped transport error (unreachable).
type Client struct {
	baseURL  string
	http     *http.Client
	deviceID string
	token    TokenFunc
}

func NewClient(baseURL string, timeout time.Duration, token TokenFunc) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		deviceID: uuid.NewString(),
		token:    token,
	}
}

// LoginResponse is returned by the password login endpoint.
type LoginResponse struct {
	User  domain.Profile `json:"user"`
	Token string         `json:"token"`
}

// Login exchanges credentials for a profile and token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterResponse is returned by the registration endpoint. The presence
// of this response at all means the account was just created.
type RegisterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Register creates a new password-based account.
func (c *Client) Register(ctx context.Context, name, email, password string) (*RegisterResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/users", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoogleAuthRequest carries both the raw credential, which the backend
// verifies server-side, and the locally decoded claims for backends that
// still consume the legacy shape.
type GoogleAuthRequest struct {
	Credential string `json:"credential"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Sub        string `json:"sub"`
}

// GoogleAuthResponse is returned by the Google credential exchange.
// IsNewUser is optional; older backends omit it.
type GoogleAuthResponse struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	User      domain.Profile `json:"user"`
	Token     string         `json:"token"`
	IsNewUser *bool          `json:"is_new_user,omitempty"`
}

// GoogleAuth exchanges a Google identity credential for a profile and token.
func (c *Client) GoogleAuth(ctx context.Context, req GoogleAuthRequest) (*GoogleAuthResponse, error) {
	var out GoogleAuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/google", req, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &StatusError{Code: http.StatusUnauthorized, Message: out.Message}
	}
	return &out, nil
}

// CheckEmail asks whether an account exists for the address.
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	path := "/users/check-email?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

// UpdateUser pushes a partial profile update. Callers treat this as
// fire-and-forget: a failure is logged upstream, never surfaced.
func (c *Client) UpdateUser(ctx context.Context, id string, patch domain.Patch) error {
	return c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), patch, nil)
}

// DeleteUser removes the remote account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

// ItinerarySummary is one saved itinerary as listed by the backend.
type ItinerarySummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// ListItineraries returns the user's saved itineraries.
func (c *Client) ListItineraries(ctx context.Context, userID string) ([]ItinerarySummary, error) {
	var out []ItinerarySummary
	if err := c.do(ctx, http.MethodGet, "/itineraries/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteItinerary removes one saved itinerary.
func (c *Client) DeleteItinerary(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/itineraries/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Device-ID", c.deviceID)
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// errorMessage digs the server's message out of an error body; the backend
// uses both {"error": ...} and {"message": ...}.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
