package domain

// Patch is a partial profile update. A nil field means "not mentioned":
// the base profile's value is kept. A non-nil slice pointer replaces the
// whole set. Validation happens upstream (see validator tags); Merge itself
// accepts any Patch.
type Patch struct {
	ID                *string      `json:"id,omitempty"`
	Name              *string      `json:"name,omitempty" validate:"omitempty,min=3,max=20"`
	Email             *string      `json:"email,omitempty" validate:"omitempty,email"`
	AuthProvider      *AuthProvider `json:"auth_provider,omitempty" validate:"omitempty,oneof=password google"`
	Age               *int         `json:"age,omitempty" validate:"omitempty,min=1,max=120"`
	Country           *string      `json:"country,omitempty"`
	ZipCode           *string      `json:"zip_code,omitempty"`
	PreferredCurrency *string      `json:"preferred_currency,omitempty" validate:"omitempty,oneof=USD EUR GBP JPY CAD AUD CNY"`
	Interests         *[]string    `json:"interests,omitempty"`
	TravelGroup       *TravelGroup `json:"preferred_travel_group,omitempty" validate:"omitempty,oneof=solo couple family friends business"`
	Accommodation     *[]string    `json:"preferred_accommodation,omitempty"`
	Transport         *[]string    `json:"preferred_transport,omitempty"`
	Activities        *[]string    `json:"preferred_activities,omitempty"`
	Budget            *BudgetRange `json:"preferred_budget,omitempty" validate:"omitempty,oneof=economy moderate luxury"`
	GroupSize         *int         `json:"typical_travel_group_size,omitempty" validate:"omitempty,min=1,max=10"`
	Companions        []CompanionPatch `json:"-" validate:"dive"`
	CompanionProfiles *[]Companion `json:"companion_profiles,omitempty"`
	SpecialNeeds      *string      `json:"special_needs,omitempty"`
}

// CompanionPatch updates one companion slot by ordinal position. Positions
// outside the (post-resize) companion list are ignored. Positional patches
// are an in-process representation only; they never serialize. The wire
// shape for companions is CompanionProfiles, the dense list.
type CompanionPatch struct {
	Index     int       `json:"-" validate:"min=0"`
	Age       *int      `json:"-" validate:"omitempty,min=0,max=120"`
	Interests *[]string `json:"-"`
}

// WireUpdate converts a patch that has already been merged into final into
// the body for the backend update. Scalar and set fields pass through; any
// companion or group-size change is rewritten as the merged record's dense
// companion list, which is the shape the contract defines.
func WireUpdate(patch Patch, merged *Profile) Patch {
	out := patch
	out.Companions = nil
	if patch.GroupSize == nil && len(patch.Companions) == 0 && patch.CompanionProfiles == nil {
		return out
	}

	size := merged.GroupSize
	out.GroupSize = &size
	comps := make([]Companion, len(merged.Companions))
	for i, c := range merged.Companions {
		comps[i] = Companion{
			Age:       cloneIntPtr(c.Age),
			Interests: cloneTags(c.Interests),
		}
	}
	out.CompanionProfiles = &comps
	return out
}

// IsZero reports whether the patch mentions nothing at all.
func (p Patch) IsZero() bool {
	return p.ID == nil && p.Name == nil && p.Email == nil && p.AuthProvider == nil &&
		p.Age == nil && p.Country == nil && p.ZipCode == nil && p.PreferredCurrency == nil &&
		p.Interests == nil && p.TravelGroup == nil && p.Accommodation == nil &&
		p.Transport == nil && p.Activities == nil && p.Budget == nil &&
		p.GroupSize == nil && len(p.Companions) == 0 && p.CompanionProfiles == nil &&
		p.SpecialNeeds == nil
}
