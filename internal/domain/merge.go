package domain

// Merge combines a base profile with a partial update and returns the
// resulting record. It is total: any base (including nil) and any patch
// produce a well-formed profile.
//
// Rules, in order:
//   - nil base: the patch is coerced to the full shape with defaults
//     (group size 1, empty tag sets).
//   - present scalar fields overwrite, absent fields keep the base value.
//   - email is write-once: a patch email is ignored when the base has one.
//   - id is never cleared and never overwritten once assigned.
//   - a present set field replaces the whole set, deduplicated.
//   - a present dense companion list replaces the whole list.
//   - a group-size change resizes the companion list before positional
//     companion patches apply.
//   - unknown fields carried by the base survive untouched.
func Merge(base *Profile, patch Patch) Profile {
	var out *Profile
	if base == nil {
		out = &Profile{}
	} else {
		out = base.Clone()
	}

	if out.ID == "" && patch.ID != nil {
		out.ID = *patch.ID
	}
	if out.Email == "" && patch.Email != nil {
		out.Email = *patch.Email
	}
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.AuthProvider != nil {
		out.AuthProvider = *patch.AuthProvider
	}
	if patch.Age != nil {
		out.Age = cloneIntPtr(patch.Age)
	}
	if patch.Country != nil {
		out.Country = cloneStrPtr(patch.Country)
	}
	if patch.ZipCode != nil {
		out.ZipCode = cloneStrPtr(patch.ZipCode)
	}
	if patch.PreferredCurrency != nil {
		out.PreferredCurrency = cloneStrPtr(patch.PreferredCurrency)
	}
	if patch.TravelGroup != nil {
		g := *patch.TravelGroup
		out.TravelGroup = &g
	}
	if patch.Budget != nil {
		b := *patch.Budget
		out.Budget = &b
	}
	if patch.SpecialNeeds != nil {
		out.SpecialNeeds = cloneStrPtr(patch.SpecialNeeds)
	}

	if patch.Interests != nil {
		out.Interests = dedupeTags(*patch.Interests)
	}
	if patch.Accommodation != nil {
		out.Accommodation = dedupeTags(*patch.Accommodation)
	}
	if patch.Transport != nil {
		out.Transport = dedupeTags(*patch.Transport)
	}
	if patch.Activities != nil {
		out.Activities = dedupeTags(*patch.Activities)
	}

	if patch.CompanionProfiles != nil {
		comps := make([]Companion, len(*patch.CompanionProfiles))
		for i, c := range *patch.CompanionProfiles {
			comps[i] = Companion{
				Age:       cloneIntPtr(c.Age),
				Interests: cloneTags(c.Interests),
			}
		}
		out.Companions = comps
	}

	if patch.GroupSize != nil {
		out.GroupSize = *patch.GroupSize
	}

	// Resize first so companion patches address the final slot layout.
	out.Normalize()

	for _, cp := range patch.Companions {
		if cp.Index < 0 || cp.Index >= len(out.Companions) {
			continue
		}
		slot := &out.Companions[cp.Index]
		if cp.Age != nil {
			slot.Age = cloneIntPtr(cp.Age)
		}
		if cp.Interests != nil {
			slot.Interests = dedupeTags(*cp.Interests)
		}
	}

	return *out
}
