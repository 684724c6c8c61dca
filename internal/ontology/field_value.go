package ontology

// FieldValue looks up a named field (or computed property) on the
// ingredient by the same names used in restrictions.json rules. It is
// the Go stand-in for the original's attribute-reflection lookup:
// restriction rules are data, so the set of fields they can test is
// fixed here rather than discovered at runtime.
func (i Ingredient) FieldValue(field string) (interface{}, bool) {
	switch field {
	case "id":
		return i.ID, true
	case "canonical_name":
		return i.CanonicalName, true
	case "aliases":
		return i.Aliases, true
	case "derived_from":
		return i.DerivedFrom, true
	case "contains":
		return i.Contains, true
	case "may_contain":
		return i.MayContain, true
	case "animal_origin":
		return i.AnimalOrigin, true
	case "plant_origin":
		return i.PlantOrigin, true
	case "synthetic":
		return i.Synthetic, true
	case "fungal":
		return i.Fungal, true
	case "insect_derived":
		return i.InsectDerived, true
	case "animal_species":
		return i.AnimalSpecies, true
	case "egg_source":
		return i.EggSource, true
	case "dairy_source":
		return i.DairySource, true
	case "gluten_source":
		return i.GlutenSource, true
	case "nut_source":
		return i.NutSource, true
	case "soy_source":
		return i.SoySource, true
	case "sesame_source":
		return i.SesameSource, true
	case "alcohol_content":
		if i.AlcoholPct == nil {
			return nil, true
		}
		return *i.AlcoholPct, true
	case "root_vegetable":
		return i.RootVegetable, true
	case "onion_source":
		return i.OnionSource, true
	case "garlic_source":
		return i.GarlicSource, true
	case "fermented":
		return i.Fermented, true
	case "uncertainty_flags":
		return i.UncertaintyFlags, true
	case "regions":
		return i.Regions, true
	case "meat_fish_derived":
		return i.MeatFishDerived(), true
	default:
		return nil, false
	}
}
