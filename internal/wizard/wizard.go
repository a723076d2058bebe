package wizard

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/api"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/domain"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/session"
)

// PersonalInfo is step one of the profile-creation wizard.
type PersonalInfo struct {
	Name     string `validate:"required,min=3"`
	Age      int    `validate:"required,min=1,max=120"`
	Country  string `validate:"required"`
	ZipCode  string `validate:"required"`
	Currency string `validate:"required,oneof=USD EUR GBP JPY CAD AUD CNY"`
}

// TravelPrefs is step two.
type TravelPrefs struct {
	TravelGroup   domain.TravelGroup `validate:"required,oneof=solo couple family friends business"`
	Accommodation []string           `validate:"required,min=1"`
	Transport     []string           `validate:"required,min=1"`
	Activities    []string           `validate:"required,min=1"`
	Budget        domain.BudgetRange `validate:"required,oneof=economy moderate luxury"`
	SpecialNeeds  string
}

type companionDraft struct {
	age       *int
	interests []string
}

// Accumulator holds the wizard's not-yet-committed answers. Nothing it
// stores touches the committed profile until Commit, which performs exactly
// one merge; abandoning the wizard at any step leaves the profile exactly
// as it was.
type Accumulator struct {
	id       string
	sessions *session.Controller
	api      *api.Client
	validate *validator.Validate

	mu         sync.Mutex
	personal   *PersonalInfo
	prefs      *TravelPrefs
	groupSize  *int
	companions []companionDraft
}

func NewAccumulator(sessions *session.Controller, apiClient *api.Client) *Accumulator {
	return &Accumulator{
		id:       uuid.NewString(),
		sessions: sessions,
		api:      apiClient,
		validate: validator.New(),
	}
}

// ID identifies this draft, e.g. for logging.
func (a *Accumulator) ID() string { return a.id }

// SetPersonalInfo records step one.
func (a *Accumulator) SetPersonalInfo(in PersonalInfo) error {
	if err := a.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	a.mu.Lock()
	a.personal = &in
	a.mu.Unlock()
	return nil
}

// SetTravelPrefs records step two.
func (a *Accumulator) SetTravelPrefs(in TravelPrefs) error {
	if err := a.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	a.mu.Lock()
	a.prefs = &in
	a.mu.Unlock()
	return nil
}

// SetGroupSize sets the typical travel group size and resizes the
// companion draft list: already-entered data for retained positions is
// kept, extra positions are dropped from the end, new positions start
// empty.
func (a *Accumulator) SetGroupSize(n int) error {
	if n < 1 || n > 10 {
		return fmt.Errorf("%w: group size must be between 1 and 10", domain.ErrInvalidInput)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.groupSize = &n

	want := n - 1
	for len(a.companions) < want {
		a.companions = append(a.companions, companionDraft{})
	}
	if len(a.companions) > want {
		a.companions = a.companions[:want]
	}
	return nil
}

// SetCompanionAge records a companion's age by position.
func (a *Accumulator) SetCompanionAge(index, age int) error {
	if age < 0 || age > 120 {
		return fmt.Errorf("%w: invalid companion age", domain.ErrInvalidInput)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 || index >= len(a.companions) {
		return fmt.Errorf("%w: no companion at position %d", domain.ErrInvalidInput, index)
	}
	a.companions[index].age = &age
	return nil
}

// SetCompanionInterests records a companion's interests by position.
func (a *Accumulator) SetCompanionInterests(index int, interests []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 || index >= len(a.companions) {
		return fmt.Errorf("%w: no companion at position %d", domain.ErrInvalidInput, index)
	}
	a.companions[index].interests = append([]string(nil), interests...)
	return nil
}

// Commit folds every recorded step into one merge against the current
// profile, adopts the result, and pushes the update to the backend on a
// best-effort basis (a failed push is logged, the local commit stands).
func (a *Accumulator) Commit(ctx context.Context) (*domain.Profile, error) {
	current := a.sessions.Current()
	if current == nil {
		return nil, domain.ErrNotLoggedIn
	}

	a.mu.Lock()
	patch := a.buildPatch()
	a.mu.Unlock()

	merged := domain.Merge(current, patch)
	merged.IsNewUser = current.IsNewUser
	if err := a.sessions.Adopt(ctx, &merged); err != nil {
		return nil, err
	}

	if merged.ID != "" {
		if err := a.api.UpdateUser(ctx, merged.ID, domain.WireUpdate(patch, &merged)); err != nil {
			log.Printf("wizard %s: backend update failed, local profile is committed: %v", a.id, err)
		}
	}

	a.Abandon()
	return a.sessions.Current(), nil
}

// Abandon discards all drafts. The committed profile is untouched.
func (a *Accumulator) Abandon() {
	a.mu.Lock()
	a.personal = nil
	a.prefs = nil
	a.groupSize = nil
	a.companions = nil
	a.mu.Unlock()
}

func (a *Accumulator) buildPatch() domain.Patch {
	var patch domain.Patch

	if a.personal != nil {
		p := *a.personal
		patch.Name = &p.Name
		patch.Age = &p.Age
		patch.Country = &p.Country
		patch.ZipCode = &p.ZipCode
		patch.PreferredCurrency = &p.Currency
	}
	if a.prefs != nil {
		p := *a.prefs
		patch.TravelGroup = &p.TravelGroup
		acc := append([]string(nil), p.Accommodation...)
		patch.Accommodation = &acc
		tr := append([]string(nil), p.Transport...)
		patch.Transport = &tr
		act := append([]string(nil), p.Activities...)
		patch.Activities = &act
		patch.Budget = &p.Budget
		patch.SpecialNeeds = &p.SpecialNeeds
	}
	if a.groupSize != nil {
		patch.GroupSize = a.groupSize
	}
	for i, c := range a.companions {
		if c.age == nil && c.interests == nil {
			continue
		}
		cp := domain.CompanionPatch{Index: i}
		if c.age != nil {
			cp.Age = c.age
		}
		if c.interests != nil {
			in := append([]string(nil), c.interests...)
			cp.Interests = &in
		}
		patch.Companions = append(patch.Companions, cp)
	}
	return patch
}
