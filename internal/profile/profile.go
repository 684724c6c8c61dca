// Package profile holds persistent per-user profiles (primary diet,
// allergens, lifestyle flags) and the mapping from a profile to the
// restriction ids the compliance engine evaluates against.
package profile

import "strings"

// Profile is one user's dietary settings. DietaryPreference covers both
// dietary and religious choices ("Jain", "Halal", "Vegan") in a single
// field, matching how the onboarding flow collects it.
type Profile struct {
	UserID            string   `json:"user_id"`
	DietaryPreference string   `json:"dietary_preference"`
	Allergens         []string `json:"allergens"`
	Lifestyle         []string `json:"lifestyle"`
}

const defaultDietaryPreference = "No rules"

// New returns an empty profile for userID with defaults applied.
func New(userID string) Profile {
	return Profile{UserID: userID, DietaryPreference: defaultDietaryPreference}
}

// IsEmpty reports whether the profile carries no meaningful restriction
// (first-time user with nothing configured yet).
func (p Profile) IsEmpty() bool {
	pref := strings.TrimSpace(p.DietaryPreference)
	return (pref == "" || pref == defaultDietaryPreference) && len(p.Allergens) == 0 && len(p.Lifestyle) == 0
}

// Update is a partial-update request: a nil DietaryPreference is left
// unchanged, and Allergens/Lifestyle replace the existing slice entirely
// only when HasAllergens/HasLifestyle is set (the slice itself may then
// be empty). This mirrors the merge semantics the profile store
// enforces — a caller wanting to clear allergens sets HasAllergens with
// an empty slice.
type Update struct {
	DietaryPreference *string
	Allergens         []string
	HasAllergens      bool
	Lifestyle         []string
	HasLifestyle      bool
}

// ApplyMerge merges u onto p in place, matching the reference merge
// semantics: only fields explicitly present in the update are
// overwritten, and an empty (but present) dietary preference resets to
// the "No rules" default rather than being stored as blank.
func (p *Profile) ApplyMerge(u Update) {
	if u.DietaryPreference != nil {
		pref := strings.TrimSpace(*u.DietaryPreference)
		if pref == "" {
			pref = defaultDietaryPreference
		}
		p.DietaryPreference = pref
	}
	if u.HasAllergens {
		p.Allergens = append([]string{}, u.Allergens...)
	}
	if u.HasLifestyle {
		p.Lifestyle = append([]string{}, u.Lifestyle...)
	}
}
