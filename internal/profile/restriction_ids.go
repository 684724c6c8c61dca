package profile

import "strings"

// dietaryPreferenceToRestrictionID maps a profile's primary diet to the
// restriction id that enforces it. "no rules" deliberately has no
// entry: a profile with nothing configured evaluates against no
// dietary restriction (only whatever allergens/lifestyle flags add).
var dietaryPreferenceToRestrictionID = map[string]string{
	"jain":                  "jain",
	"vegan":                 "vegan",
	"vegetarian":            "vegetarian",
	"hindu veg":             "hindu_vegetarian",
	"hindu vegetarian":      "hindu_vegetarian",
	"hindu non vegetarian":  "hindu_non_vegetarian",
	"hindu non veg":         "hindu_non_vegetarian",
	"halal":                 "halal",
	"kosher":                "kosher",
	"lacto vegetarian":      "lacto_vegetarian",
	"ovo vegetarian":        "ovo_vegetarian",
	"pescatarian":           "pescatarian",
	"gluten-free":           "gluten_free",
	"dairy-free":            "dairy_free",
	"egg-free":              "egg_free",
}

// dietaryReligiousLifestyleToID covers the underscored forms used by
// lifestyle flags and by dietary preferences that don't match the
// display-name table above.
var dietaryReligiousLifestyleToID = map[string]string{
	"vegan": "vegan", "vegetarian": "vegetarian", "jain": "jain",
	"halal": "halal", "kosher": "kosher",
	"hindu_veg": "hindu_vegetarian", "hindu_vegetarian": "hindu_vegetarian",
	"hindu_non_veg": "hindu_non_vegetarian", "hindu_non_vegetarian": "hindu_non_vegetarian",
	"lacto_vegetarian": "lacto_vegetarian", "ovo_vegetarian": "ovo_vegetarian",
	"pescatarian": "pescatarian", "gluten_free": "gluten_free",
	"dairy_free": "dairy_free", "egg_free": "egg_free",
	"no_onion": "no_onion", "no_garlic": "no_garlic", "no_alcohol": "no_alcohol",
	"no_insect_derived": "no_insect_derived", "no_palm_oil": "no_palm_oil",
	"no_artificial_colors": "no_artificial_colors", "no_gmos": "no_gmos",
	"no_seed_oils": "no_seed_oils", "keto": "keto", "paleo": "paleo",
}

// allergenToRestrictionID maps a free-text allergen entry to the
// restriction id that enforces avoiding it.
var allergenToRestrictionID = map[string]string{
	"peanut": "peanut_allergy", "peanuts": "peanut_allergy",
	"nut": "tree_nut_allergy", "nuts": "tree_nut_allergy", "tree_nut": "tree_nut_allergy",
	"soy": "soy_allergy", "shellfish": "shellfish_allergy", "fish": "fish_allergy",
	"sesame": "sesame_allergy", "onion": "onion_allergy", "garlic": "garlic_allergy",
	"gluten": "gluten_free", "wheat": "gluten_free",
	"milk": "dairy_free", "dairy": "dairy_free",
	"egg": "egg_free", "eggs": "egg_free",
	"mustard": "mustard_allergy", "celery": "celery_allergy",
}

func normalizeRestrictionKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// RestrictionIDs builds the ordered, deduplicated restriction id list
// the compliance engine should evaluate for this profile: the primary
// diet first, then one id per recognized allergen, then one id per
// recognized lifestyle flag.
func (p Profile) RestrictionIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(rid string) {
		if rid != "" && !seen[rid] {
			seen[rid] = true
			ids = append(ids, rid)
		}
	}

	pref := strings.ToLower(strings.TrimSpace(p.DietaryPreference))
	if pref != "" && pref != "no rules" {
		if rid, ok := dietaryPreferenceToRestrictionID[pref]; ok {
			add(rid)
		} else if rid, ok := dietaryReligiousLifestyleToID[normalizeRestrictionKey(pref)]; ok {
			add(rid)
		}
	}

	for _, a := range p.Allergens {
		key := normalizeRestrictionKey(a)
		if rid, ok := allergenToRestrictionID[key]; ok {
			add(rid)
		} else if rid, ok := dietaryReligiousLifestyleToID[key]; ok {
			add(rid)
		}
	}

	for _, l := range p.Lifestyle {
		key := normalizeRestrictionKey(l)
		if rid, ok := dietaryReligiousLifestyleToID[key]; ok {
			add(rid)
		}
	}

	return ids
}
