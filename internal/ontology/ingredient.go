// Package ontology holds the canonical ingredient contract and the
// registries (static + dynamic) that resolve a normalized ingredient
// key to its structured flags.
package ontology

// Ingredient is the canonical, structured representation of a single
// food ingredient. There is no free-text metadata: every field a
// restriction rule can test is a typed flag so that evaluation stays
// deterministic.
type Ingredient struct {
	ID            string   `json:"id"`
	CanonicalName string   `json:"canonical_name"`
	Aliases       []string `json:"aliases,omitempty"`
	DerivedFrom   []string `json:"derived_from,omitempty"`
	Contains      []string `json:"contains,omitempty"`
	MayContain    []string `json:"may_contain,omitempty"`

	// Origin flags.
	AnimalOrigin  bool `json:"animal_origin"`
	PlantOrigin   bool `json:"plant_origin"`
	Synthetic     bool `json:"synthetic"`
	Fungal        bool `json:"fungal"`
	InsectDerived bool `json:"insect_derived"`

	// Species, populated only when AnimalOrigin is true: cow, goat, pig,
	// chicken, fish, shellfish, etc.
	AnimalSpecies string `json:"animal_species,omitempty"`

	// Allergen / dietary source flags.
	EggSource    bool    `json:"egg_source"`
	DairySource  bool    `json:"dairy_source"`
	GlutenSource bool    `json:"gluten_source"`
	NutSource    string  `json:"nut_source,omitempty"` // tree_nut, peanut, coconut
	SoySource    bool    `json:"soy_source"`
	SesameSource bool    `json:"sesame_source"`
	AlcoholPct   *float64 `json:"alcohol_content,omitempty"`

	// Jain / no-onion-no-garlic flags.
	RootVegetable bool `json:"root_vegetable"`
	OnionSource   bool `json:"onion_source"`
	GarlicSource  bool `json:"garlic_source"`
	Fermented     bool `json:"fermented"`

	// Uncertainty markers, e.g. "natural_flavor", "mono_diglycerides".
	UncertaintyFlags []string `json:"uncertainty_flags,omitempty"`
	Regions          []string `json:"regions,omitempty"`
}

// MeatFishDerived reports whether the ingredient is animal-derived but
// not dairy, egg, or insect in origin (meat, fish, shellfish, gelatin).
// Insect-derived items (honey, carmine, shellac) are tracked separately
// via InsectDerived.
func (i Ingredient) MeatFishDerived() bool {
	return i.AnimalOrigin && !i.DairySource && !i.EggSource && !i.InsectDerived
}
