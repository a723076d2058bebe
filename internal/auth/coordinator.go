package auth

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/api"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/domain"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/session"
)

// State of the coordinator. A failed attempt records a reason and returns
// to StateAnonymous; failure is never an implicit logout of an existing
// session.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

// Screen identifies which credential screen the user is on; the email
// pre-check redirects between the two.
type Screen string

const (
	ScreenLogin    Screen = "login"
	ScreenRegister Screen = "register"
)

// redirectDelay is how long a redirect hint asks the UI to wait before
// switching screens, giving the user time to read the notice.
const redirectDelay = 2 * time.Second

// RedirectHint is advisory UX produced by the email pre-check: "this email
// belongs on the other screen". It is not a security decision and never
// blocks submission.
type RedirectHint struct {
	Target Screen
	After  time.Duration
}

// Result is a completed authentication.
type Result struct {
	Profile   *domain.Profile
	IsNewUser bool
}

// RegisterInput is the password registration form.
type RegisterInput struct {
	Name            string `validate:"required,min=3,max=20"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// Coordinator drives credential exchange and hands successful results to
// the session controller. Adoption is decoupled from screen lifetime: a
// login that completes after the user navigated away still updates the
// session, the stale screen just must not render it.
type Coordinator struct {
	api      *api.Client
	sessions *session.Controller
	validate *validator.Validate

	mu       sync.Mutex
	state    State
	lastFail error
}

func NewCoordinator(apiClient *api.Client, sessions *session.Controller) *Coordinator {
	state := StateAnonymous
	if sessions.LoggedIn() {
		state = StateAuthenticated
	}
	return &Coordinator{
		api:      apiClient,
		sessions: sessions,
		validate: validator.New(),
		state:    state,
	}
}

// State returns the coordinator's current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastFailure returns the reason for the most recent failed attempt, or nil.
func (c *Coordinator) LastFailure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFail
}

// Login runs the password flow. On any failure the prior session state is
// left untouched.
func (c *Coordinator) Login(ctx context.Context, email, password string) (*Result, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	c.begin()
	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		return nil, c.fail(err)
	}

	profile := resp.User
	profile.AuthProvider = domain.ProviderPassword
	if err := c.sessions.AdoptWithToken(ctx, &profile, resp.Token); err != nil {
		return nil, c.fail(err)
	}

	c.succeed()
	return &Result{Profile: c.sessions.Current()}, nil
}

// Register creates a password-based account. A successful registration is
// always a new user.
func (c *Coordinator) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	if err := c.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := checkPasswordPolicy(in.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	c.begin()
	resp, err := c.api.Register(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		return nil, c.fail(err)
	}

	profile := &domain.Profile{
		ID:           resp.ID,
		Name:         resp.Name,
		Email:        resp.Email,
		AuthProvider: domain.ProviderPassword,
		IsNewUser:    true,
	}
	if err := c.sessions.AdoptWithToken(ctx, profile, resp.Token); err != nil {
		return nil, c.fail(err)
	}

	c.succeed()
	result := c.sessions.Current()
	result.IsNewUser = true
	return &Result{Profile: result, IsNewUser: true}, nil
}

// GoogleSignIn exchanges a Google credential for a session. The credential
// is decoded locally only to fill the legacy claim fields; the raw string
// is what the backend verifies. New-user detection prefers the backend's
// explicit flag and falls back to the absence of profile attributes.
func (c *Coordinator) GoogleSignIn(ctx context.Context, credential string) (*Result, error) {
	if credential == "" {
		return nil, fmt.Errorf("%w: missing credential", domain.ErrInvalidInput)
	}

	claims, err := DecodeGoogleClaims(credential)
	if err != nil {
		// Decode failure only costs the optimistic claims; the backend
		// still gets the raw credential.
		log.Printf("auth: could not decode google credential claims: %v", err)
	}

	c.begin()
	resp, err := c.api.GoogleAuth(ctx, api.GoogleAuthRequest{
		Credential: credential,
		Name:       claims.Name,
		Email:      claims.Email,
		Sub:        claims.Sub,
	})
	if err != nil {
		return nil, c.fail(err)
	}

	profile := resp.User
	profile.AuthProvider = domain.ProviderGoogle

	isNew := !profile.HasProfileData()
	if resp.IsNewUser != nil {
		isNew = *resp.IsNewUser
	}
	profile.IsNewUser = isNew

	if err := c.sessions.AdoptWithToken(ctx, &profile, resp.Token); err != nil {
		return nil, c.fail(err)
	}

	c.succeed()
	result := c.sessions.Current()
	result.IsNewUser = isNew
	return &Result{Profile: result, IsNewUser: isNew}, nil
}

// CheckEmailRedirect runs the advisory existence pre-check. It returns a
// hint only for the mismatched cases: login screen + unknown email, or
// register screen + known email. Check errors fail open (no hint, no
// blocked submission).
func (c *Coordinator) CheckEmailRedirect(ctx context.Context, screen Screen, email string) *RedirectHint {
	if !strings.Contains(email, "@") {
		return nil
	}

	exists, err := c.api.CheckEmail(ctx, email)
	if err != nil {
		log.Printf("auth: email pre-check failed, continuing without hint: %v", err)
		return nil
	}

	switch {
	case screen == ScreenLogin && !exists:
		return &RedirectHint{Target: ScreenRegister, After: redirectDelay}
	case screen == ScreenRegister && exists:
		return &RedirectHint{Target: ScreenLogin, After: redirectDelay}
	}
	return nil
}

func (c *Coordinator) begin() {
	c.mu.Lock()
	c.state = StateAuthenticating
	c.lastFail = nil
	c.mu.Unlock()
}

func (c *Coordinator) fail(err error) error {
	c.mu.Lock()
	c.lastFail = err
	if c.sessions.LoggedIn() {
		c.state = StateAuthenticated
	} else {
		c.state = StateAnonymous
	}
	c.mu.Unlock()

	if api.IsRejected(err) {
		return err
	}
	return fmt.Errorf("authentication failed, please try again: %w", err)
}

func (c *Coordinator) succeed() {
	c.mu.Lock()
	c.state = StateAuthenticated
	c.lastFail = nil
	c.mu.Unlock()
}

// checkPasswordPolicy mirrors the backend's password rule: at least 8
// characters with one lowercase, one uppercase, one digit and one special
// character from the allowed set.
func checkPasswordPolicy(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		default:
			return fmt.Errorf("password contains an unsupported character %q", r)
		}
	}
	if !lower || !upper || !digit || !special {
		return fmt.Errorf("password must contain an uppercase letter, a lowercase letter, a number and a special character")
	}
	return nil
}
