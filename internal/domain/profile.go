package domain

import "encoding/json"

type AuthProvider string

const (
	ProviderPassword AuthProvider = "password"
	ProviderGoogle   AuthProvider = "google"
)

type TravelGroup string

const (
	GroupSolo     TravelGroup = "solo"
	GroupCouple   TravelGroup = "couple"
	GroupFamily   TravelGroup = "family"
	GroupFriends  TravelGroup = "friends"
	GroupBusiness TravelGroup = "business"
)

func (g TravelGroup) Valid() bool {
	switch g {
	case GroupSolo, GroupCouple, GroupFamily, GroupFriends, GroupBusiness:
		return true
	}
	return false
}

type BudgetRange string

const (
	BudgetEconomy  BudgetRange = "economy"
	BudgetModerate BudgetRange = "moderate"
	BudgetLuxury   BudgetRange = "luxury"
)

func (b BudgetRange) Valid() bool {
	switch b {
	case BudgetEconomy, BudgetModerate, BudgetLuxury:
		return true
	}
	return false
}

// SupportedCurrencies lists the currency codes the backend accepts.
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CNY"}

// Companion describes one travel companion slot. Slots are positional:
// the list always has exactly max(GroupSize-1, 0) entries.
type Companion struct {
	Age       *int     `json:"age,omitempty"`
	Interests []string `json:"interests"`
}

// Profile is the canonical per-user record, shared between the in-memory
// session, the local stores and the backend contract.
//
// IsNewUser is transient: it is set right after first registration and is
// never written to any store. Extra holds fields the backend added that this
// client version does not model; they survive every decode/encode and merge.
type Profile struct {
	ID                string       `json:"id,omitempty"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	AuthProvider      AuthProvider `json:"auth_provider,omitempty"`
	Age               *int         `json:"age,omitempty"`
	Country           *string      `json:"country,omitempty"`
	ZipCode           *string      `json:"zip_code,omitempty"`
	PreferredCurrency *string      `json:"preferred_currency,omitempty"`
	Interests         []string     `json:"interests"`
	TravelGroup       *TravelGroup `json:"preferred_travel_group,omitempty"`
	Accommodation     []string     `json:"preferred_accommodation"`
	Transport         []string     `json:"preferred_transport"`
	Activities        []string     `json:"preferred_activities"`
	Budget            *BudgetRange `json:"preferred_budget,omitempty"`
	GroupSize         int          `json:"typical_travel_group_size"`
	Companions        []Companion  `json:"companion_profiles"`
	SpecialNeeds      *string      `json:"special_needs,omitempty"`

	IsNewUser bool                       `json:"-"`
	Extra     map[string]json.RawMessage `json:"-"`
}

// knownProfileKeys are the JSON keys owned by this struct; anything else in
// a decoded record is kept in Extra.
var knownProfileKeys = map[string]struct{}{
	"id":                        {},
	"name":                      {},
	"email":                     {},
	"auth_provider":             {},
	"age":                       {},
	"country":                   {},
	"zip_code":                  {},
	"preferred_currency":        {},
	"interests":                 {},
	"preferred_travel_group":    {},
	"preferred_accommodation":   {},
	"preferred_transport":       {},
	"preferred_activities":      {},
	"preferred_budget":          {},
	"typical_travel_group_size": {},
	"companion_profiles":        {},
	"special_needs":             {},
}

// profileAlias avoids recursing into the custom marshalers.
type profileAlias Profile

func (p Profile) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(profileAlias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return known, nil
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(known, &out); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, owned := knownProfileKeys[k]; !owned {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var alias profileAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if _, owned := knownProfileKeys[k]; owned {
			delete(raw, k)
		}
	}
	if len(raw) == 0 {
		raw = nil
	}
	*p = Profile(alias)
	p.Extra = raw
	return nil
}

// Clone returns a deep copy; mutating the copy never aliases the original.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.Age = cloneIntPtr(p.Age)
	out.Country = cloneStrPtr(p.Country)
	out.ZipCode = cloneStrPtr(p.ZipCode)
	out.PreferredCurrency = cloneStrPtr(p.PreferredCurrency)
	out.SpecialNeeds = cloneStrPtr(p.SpecialNeeds)
	if p.TravelGroup != nil {
		g := *p.TravelGroup
		out.TravelGroup = &g
	}
	if p.Budget != nil {
		b := *p.Budget
		out.Budget = &b
	}
	out.Interests = cloneTags(p.Interests)
	out.Accommodation = cloneTags(p.Accommodation)
	out.Transport = cloneTags(p.Transport)
	out.Activities = cloneTags(p.Activities)
	out.Companions = make([]Companion, len(p.Companions))
	for i, c := range p.Companions {
		out.Companions[i] = Companion{
			Age:       cloneIntPtr(c.Age),
			Interests: cloneTags(c.Interests),
		}
	}
	if p.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &out
}

// Normalize enforces the record invariants in place: group size at least 1,
// duplicate-free tag sets, and a companion list sized exactly GroupSize-1
// (growing appends empty slots, shrinking truncates from the end).
func (p *Profile) Normalize() {
	if p.GroupSize < 1 {
		p.GroupSize = 1
	}
	p.Interests = dedupeTags(p.Interests)
	p.Accommodation = dedupeTags(p.Accommodation)
	p.Transport = dedupeTags(p.Transport)
	p.Activities = dedupeTags(p.Activities)

	want := p.GroupSize - 1
	for len(p.Companions) < want {
		p.Companions = append(p.Companions, Companion{Interests: []string{}})
	}
	if len(p.Companions) > want {
		p.Companions = p.Companions[:want]
	}
	if p.Companions == nil {
		p.Companions = []Companion{}
	}
	for i := range p.Companions {
		p.Companions[i].Interests = dedupeTags(p.Companions[i].Interests)
	}
}

// HasProfileData reports whether any onboarding attribute has been filled
// in. Google responses without an explicit new-user flag fall back to this.
func (p *Profile) HasProfileData() bool {
	return p.Age != nil || p.Country != nil || p.ZipCode != nil
}

// dedupeTags removes duplicates keeping the first occurrence. Always
// returns a non-nil slice so an empty set round-trips as [].
func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// cloneTags keeps nilness and emptiness: an empty set stays [] so it
// round-trips as [] and not null.
func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func cloneStrPtr(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}
