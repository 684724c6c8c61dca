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

const offSearchURL = "https://world.openfoodfacts.org/cgi/search.pl"

type offProduct struct {
	ProductName     string   `json:"product_name"`
	ProductNameEn   string   `json:"product_name_en"`
	IngredientsText string   `json:"ingredients_text"`
	Allergens       string   `json:"allergens"`
	LabelsTags      []string `json:"labels_tags"`
	AllergensTags   []string `json:"allergens_tags"`
	CategoriesTags  []string `json:"categories_tags"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}

func (p offProduct) name() string {
	if p.ProductName != "" {
		return p.ProductName
	}
	return p.ProductNameEn
}

func tagsContain(tags []string, substr string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), substr) {
			return true
		}
	}
	return false
}

// OpenFoodFactsConnector queries Open Food Facts, which requires no API key.
type OpenFoodFactsConnector struct {
	Client  *http.Client
	Log     *zap.Logger
	baseURL string // overridable in tests; defaults to offSearchURL
}

func NewOpenFoodFactsConnector(client *http.Client, log *zap.Logger) *OpenFoodFactsConnector {
	return &OpenFoodFactsConnector{Client: client, Log: log, baseURL: offSearchURL}
}

func (c *OpenFoodFactsConnector) Fetch(ctx context.Context, query string) Result {
	q := strings.TrimSpace(query)
	if q == "" {
		return Result{Confidence: ConfidenceLow, Source: "open_food_facts", Summary: "empty_query"}
	}
	if len(q) > 200 {
		q = q[:200]
	}
	params := url.Values{
		"search_terms": {q},
		"search_simple": {"1"},
		"action":        {"process"},
		"json":          {"1"},
		"page_size":     {"5"},
	}

	resp, err := getWithRetries(ctx, c.Client, c.baseURL, params, c.Log)
	if err != nil {
		if c.Log != nil {
			c.Log.Warn("open_food_facts fetch failed", zap.String("query", q), zap.Error(err))
		}
		return Result{Confidence: ConfidenceLow, Source: "open_food_facts", Summary: "error:" + err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{Confidence: ConfidenceLow, Source: "open_food_facts", Summary: "http_status"}
	}

	var parsed offSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{Confidence: ConfidenceLow, Source: "open_food_facts", Summary: "decode_error"}
	}
	if len(parsed.Products) == 0 {
		return Result{Confidence: ConfidenceLow, Source: "open_food_facts", Summary: "no_results"}
	}

	best := parsed.Products[0]
	name := strings.ToLower(strings.TrimSpace(best.name()))
	qLower := strings.ToLower(q)
	confidence := ConfidenceMedium
	firstWord := qLower
	if fields := strings.Fields(qLower); len(fields) > 0 {
		firstWord = fields[0]
	}
	if name != "" && (strings.Contains(qLower, name) || strings.Contains(name, qLower) || strings.Contains(name, firstWord)) {
		confidence = ConfidenceHigh
	}

	ing := offProductToIngredient(best, q)
	return Result{
		Ingredient: ing,
		Confidence: confidence,
		Source:     "open_food_facts",
		Summary:    "product_name=" + truncate(best.name(), 80),
	}
}

func offProductToIngredient(p offProduct, query string) *ontology.Ingredient {
	name := p.name()
	if name == "" {
		name = query
	}
	if name == "" {
		name = "unknown"
	}
	combined := name + " " + p.IngredientsText + " " + p.Allergens
	flags := classifyOFF(p, combined)

	id := "off_" + truncate(normalizeID(name), 60)
	var aliases []string
	if query != "" && query != name {
		aliases = []string{query}
	}

	return &ontology.Ingredient{
		ID:               id,
		CanonicalName:    name,
		Aliases:          aliases,
		AnimalOrigin:     flags.AnimalOrigin,
		PlantOrigin:      flags.PlantOrigin,
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
		UncertaintyFlags: []string{"open_food_facts_inferred"},
	}
}

// classifyOFF prefers Open Food Facts' structured labels/allergens/category
// tags over keyword text inference.
func classifyOFF(p offProduct, combined string) classifiedFlags {
	t := strings.ToLower(combined)
	override := isPlantOverride(t)

	isVegan := tagsContain(p.LabelsTags, "vegan")
	isVegetarian := tagsContain(p.LabelsTags, "vegetarian")
	hasMilkAllergen := tagsContain(p.AllergensTags, "milk")
	hasEggAllergen := tagsContain(p.AllergensTags, "egg")
	hasGlutenAllergen := tagsContain(p.AllergensTags, "gluten")
	hasSoyAllergen := tagsContain(p.AllergensTags, "soy") || tagsContain(p.AllergensTags, "soja")

	var animalOrigin, dairySource, eggSource bool
	switch {
	case isVegan || override:
		animalOrigin, dairySource, eggSource = false, false, false
	case isVegetarian:
		animalOrigin = anyWordMatch(t, animalKeywords)
		dairySource = hasMilkAllergen || (anyWordMatch(t, dairyKeywords) && !override)
		eggSource = hasEggAllergen || (wordMatch(t, "egg") && !strings.Contains(t, "eggplant"))
	default:
		animalOrigin = !override && anyWordMatch(t, animalKeywords)
		dairySource = hasMilkAllergen || (anyWordMatch(t, dairyKeywords) && !override)
		eggSource = hasEggAllergen || (wordMatch(t, "egg") && !strings.Contains(t, "eggplant") && !override)
	}
	plantOrigin := !animalOrigin

	var nutSource string
	switch {
	case wordMatch(t, "peanut") || tagsContain(p.AllergensTags, "peanut"):
		nutSource = "peanut"
	case anyWordMatch(t, treeNutKeywords) || tagsContain(p.AllergensTags, "nut"):
		nutSource = "tree_nut"
	}

	var alcoholPct *float64
	if anyWordMatch(t, []string{"alcohol", "wine", "beer", "spirit"}) {
		v := 1.0
		alcoholPct = &v
	}

	return classifiedFlags{
		AnimalOrigin:  animalOrigin,
		PlantOrigin:   plantOrigin,
		DairySource:   dairySource,
		EggSource:     eggSource,
		GlutenSource:  hasGlutenAllergen || anyWordMatch(t, glutenKeywords),
		SoySource:     hasSoyAllergen || wordMatch(t, "soy") || wordMatch(t, "soybean") || wordMatch(t, "tofu"),
		NutSource:     nutSource,
		SesameSource:  wordMatch(t, "sesame") || tagsContain(p.AllergensTags, "sesame"),
		AlcoholPct:    alcoholPct,
		OnionSource:   wordMatch(t, "onion") && !override,
		GarlicSource:  wordMatch(t, "garlic") && !override,
		RootVegetable: anyWordMatch(t, append(append([]string{}, rootVegKeywords...), "onion", "garlic", "shallot", "leek")),
	}
}
