package externalapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/dietary-compliance-engine/internal/ontology"
)

const usdaSearchURL = "https://api.nal.usda.gov/fdc/v1/foods/search"

var animalMeatCategories = []string{
	"beef products", "pork products", "poultry products",
	"lamb, veal, and game products", "sausages and luncheon meats",
	"finfish and shellfish products",
}
var dairyEggCategories = []string{"dairy and egg products"}
var plantCategories = []string{
	"vegetables and vegetable products", "fruits and fruit juices",
	"legumes and legume products", "nut and seed products",
	"cereal grains and pasta", "spices and herbs", "baby foods", "baked products",
}

type usdaFood struct {
	Description  string      `json:"description"`
	FdcID        int         `json:"fdcId"`
	FoodCategory interface{} `json:"foodCategory"`
}

type usdaSearchResponse struct {
	Foods []usdaFood `json:"foods"`
}

func (f usdaFood) category() string {
	switch c := f.FoodCategory.(type) {
	case string:
		return c
	case map[string]interface{}:
		if d, ok := c["description"].(string); ok {
			return d
		}
	}
	return ""
}

func anyContains(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// USDAConnector queries USDA FoodData Central's food search endpoint.
type USDAConnector struct {
	APIKey  string
	Client  *http.Client
	Log     *zap.Logger
	baseURL string // overridable in tests; defaults to usdaSearchURL
}

func NewUSDAConnector(apiKey string, client *http.Client, log *zap.Logger) *USDAConnector {
	return &USDAConnector{APIKey: apiKey, Client: client, Log: log, baseURL: usdaSearchURL}
}

// Fetch searches USDA FDC for query and returns the first result mapped
// to an ontology.Ingredient. Confidence is high when the description
// closely matches the query, medium otherwise, low when the API key is
// unset, the query is empty, or nothing came back.
func (c *USDAConnector) Fetch(ctx context.Context, query string) Result {
	if c.APIKey == "" || strings.TrimSpace(query) == "" {
		return Result{Confidence: ConfidenceLow, Source: "usda_fdc", Summary: "no_key_or_query"}
	}
	q := strings.TrimSpace(query)
	if len(q) > 200 {
		q = q[:200]
	}
	params := url.Values{"api_key": {c.APIKey}, "query": {q}, "pageSize": {"5"}}

	resp, err := getWithRetries(ctx, c.Client, c.baseURL, params, c.Log)
	if err != nil {
		if c.Log != nil {
			c.Log.Warn("usda_fdc fetch failed", zap.String("query", q), zap.Error(err))
		}
		return Result{Confidence: ConfidenceLow, Source: "usda_fdc", Summary: "error:" + err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{Confidence: ConfidenceLow, Source: "usda_fdc", Summary: "http_status"}
	}

	var parsed usdaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{Confidence: ConfidenceLow, Source: "usda_fdc", Summary: "decode_error"}
	}
	if len(parsed.Foods) == 0 {
		return Result{Confidence: ConfidenceLow, Source: "usda_fdc", Summary: "no_results"}
	}

	best := parsed.Foods[0]
	desc := strings.ToLower(strings.TrimSpace(best.Description))
	qLower := strings.ToLower(q)
	confidence := ConfidenceMedium
	firstWord := qLower
	if fields := strings.Fields(qLower); len(fields) > 0 {
		firstWord = fields[0]
	}
	if strings.Contains(qLower, desc) || strings.Contains(desc, qLower) || strings.Contains(desc, firstWord) {
		confidence = ConfidenceHigh
	}

	ing := usdaFoodToIngredient(best, q)
	return Result{
		Ingredient: ing,
		Confidence: confidence,
		Source:     "usda_fdc",
		Summary:    "description=" + truncate(best.Description, 80),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func usdaFoodToIngredient(food usdaFood, query string) *ontology.Ingredient {
	desc := strings.TrimSpace(food.Description)
	category := strings.TrimSpace(food.category())
	combined := desc + " " + category
	catLower := strings.ToLower(category)

	flags := classifyByCategory(catLower, combined)

	canonical := desc
	if canonical == "" {
		canonical = query
	}
	if canonical == "" {
		canonical = "unknown"
	}
	id := "usda_" + truncate(normalizeID(canonical), 60)

	var aliases []string
	if query != "" && query != canonical {
		aliases = []string{query}
	}

	var species string
	if flags.AnimalOrigin {
		combinedLower := strings.ToLower(combined)
		species = classifyAnimalSpecies(catLower, combinedLower)
	}

	var uncertainty []string
	if desc == "" {
		uncertainty = []string{"usda_fdc_inferred"}
	}

	return &ontology.Ingredient{
		ID:               id,
		CanonicalName:    canonical,
		Aliases:          aliases,
		AnimalOrigin:     flags.AnimalOrigin,
		PlantOrigin:      flags.PlantOrigin,
		AnimalSpecies:    species,
		EggSource:        flags.EggSource,
		DairySource:      flags.DairySource,
		GlutenSource:     flags.GlutenSource,
		NutSource:        flags.NutSource,
		SoySource:        flags.SoySource,
		SesameSource:     flags.SesameSource,
		AlcoholPct:       flags.AlcoholPct,
		RootVegetable:    flags.RootVegetable,
		OnionSource:      flags.OnionSource,
		GarlicSource:     flags.GarlicSource,
		UncertaintyFlags: uncertainty,
	}
}

// classifyByCategory prefers USDA FDC's structured foodCategory and
// only falls back to classifyFromText when the category is one of the
// ambiguous catch-alls ("Snacks", "Meals").
func classifyByCategory(catLower, combined string) classifiedFlags {
	isAnimalMeat := anyContains(catLower, animalMeatCategories)
	isDairyEgg := anyContains(catLower, dairyEggCategories)
	isPlant := anyContains(catLower, plantCategories)
	override := isPlantOverride(combined)

	if isAnimalMeat && !override {
		flags := classifyFromText(combined)
		flags.AnimalOrigin = true
		flags.PlantOrigin = isPlant && !isAnimalMeat && !isDairyEgg
		return flags
	}
	if isDairyEgg && !override {
		flags := classifyFromText(combined)
		flags.AnimalOrigin = true
		flags.DairySource = true
		flags.EggSource = strings.Contains(catLower, "egg")
		return flags
	}
	if isPlant || override {
		flags := classifyFromText(combined)
		flags.AnimalOrigin = false
		flags.PlantOrigin = true
		flags.DairySource = false
		flags.EggSource = false
		return flags
	}
	return classifyFromText(combined)
}

func classifyAnimalSpecies(catLower, combinedLower string) string {
	switch {
	case strings.Contains(catLower, "pork") || wordMatch(combinedLower, "pork") || wordMatch(combinedLower, "bacon") || wordMatch(combinedLower, "ham"):
		return "pig"
	case strings.Contains(catLower, "beef") || wordMatch(combinedLower, "beef") || wordMatch(combinedLower, "veal"):
		return "cow"
	case strings.Contains(catLower, "poultry") || wordMatch(combinedLower, "chicken") || wordMatch(combinedLower, "turkey") || wordMatch(combinedLower, "duck"):
		return "chicken"
	case strings.Contains(catLower, "lamb") || wordMatch(combinedLower, "lamb") || wordMatch(combinedLower, "mutton") || wordMatch(combinedLower, "goat"):
		return "lamb"
	case strings.Contains(catLower, "finfish") || strings.Contains(catLower, "shellfish"):
		if anyWordMatch(combinedLower, []string{"shrimp", "crab", "lobster", "prawn", "clam", "mussel", "oyster", "scallop"}) {
			return "shellfish"
		}
		return "fish"
	case wordMatch(combinedLower, "fish") || wordMatch(combinedLower, "salmon") || wordMatch(combinedLower, "tuna") || wordMatch(combinedLower, "cod"):
		return "fish"
	}
	return ""
}
