// Package externalapi fetches ingredient data from USDA FoodData Central
// and Open Food Facts when an ingredient resolves in neither the static
// nor the dynamic ontology. Results are never authoritative by
// themselves: the caller decides whether to promote them into the
// dynamic ontology based on the returned confidence level.
package externalapi

import "github.com/pageza/dietary-compliance-engine/internal/ontology"

// Confidence describes how reliable an enrichment result is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Result is what a connector returns for one lookup. Ingredient is nil
// when nothing usable was found.
type Result struct {
	Ingredient *ontology.Ingredient
	Confidence Confidence
	Source     string
	Summary    string
}
