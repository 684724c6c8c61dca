// Package composer converts a compliance verdict and the context
// around it into a conversational reply built from fixed phrase
// templates (composer.go), optionally rewritten by an LLM (llm.go).
package composer

// restrictionDisplay maps a restriction id to its human-readable diet
// label, used when the verdict gives no specific triggered ingredient
// to name.
var restrictionDisplay = map[string]string{
	"jain": "Jain", "vegan": "vegan", "vegetarian": "vegetarian",
	"halal": "Halal", "kosher": "Kosher",
	"hindu_vegetarian": "Hindu vegetarian", "hindu_non_vegetarian": "Hindu non-vegetarian",
	"lacto_vegetarian": "lacto-vegetarian", "ovo_vegetarian": "ovo-vegetarian",
	"pescatarian": "pescatarian", "dairy_free": "dairy-free", "egg_free": "egg-free",
	"gluten_free": "gluten-free", "peanut_allergy": "peanut allergy",
	"tree_nut_allergy": "tree-nut allergy", "soy_allergy": "soy allergy",
	"shellfish_allergy": "shellfish allergy", "fish_allergy": "fish allergy",
	"sesame_allergy": "sesame allergy", "no_alcohol": "no-alcohol",
	"no_onion": "no-onion", "no_garlic": "no-garlic",
}

// ingredientReasons gives a short human reason an ingredient fails a
// typical restriction, used to explain a NOT_SAFE verdict.
var ingredientReasons = map[string]string{
	"egg": "animal-derived", "eggs": "animal-derived",
	"cheese": "dairy product", "milk": "dairy product", "butter": "dairy product",
	"cream": "dairy product", "yogurt": "dairy product",
	"ghee":    "dairy product (clarified butter)",
	"gelatin": "derived from animal bones/skin",
	"honey":   "produced by insects",
	"beef":    "meat (cow)", "chicken": "meat (poultry)", "pork": "meat (pig)",
	"lamb": "meat", "fish": "seafood", "tuna": "fish (seafood)", "salmon": "fish (seafood)",
	"shrimp": "shellfish", "prawn": "shellfish",
	"onion": "root vegetable (restricted)", "garlic": "root vegetable (restricted)",
	"potato": "root vegetable (restricted)", "carrot": "root vegetable (restricted)",
	"beet": "root vegetable (restricted)", "beetroot": "root vegetable (restricted)",
	"radish": "root vegetable (restricted)", "turnip": "root vegetable (restricted)",
	"sweet potato": "root vegetable (restricted)", "yam": "root vegetable (restricted)",
	"shallot": "root vegetable, onion family (restricted)",
	"leek":    "root vegetable, onion family (restricted)",
	"ginger":  "root vegetable (restricted)",
	"mushroom": "fungal (restricted in strict Jain diet)",
	"alcohol":  "contains alcohol", "wine": "contains alcohol", "beer": "contains alcohol",
	"vodka": "contains alcohol",
	"collagen": "derived from animal tissue", "lard": "animal fat (pig)",
	"rennet": "animal-derived", "isinglass": "derived from fish bladders",
	"castoreum": "animal secretion", "shellac": "insect-derived", "carmine": "insect-derived",
	"l-cysteine": "can be derived from animal hair/feathers",
	"bacon":      "meat (pork-derived)", "ham": "meat (pork-derived)",
	"turkey": "meat (poultry)", "duck": "meat (poultry)",
	"veal": "meat (calf)", "mutton": "meat (sheep)", "goat": "meat", "venison": "meat (deer)",
	"anchovy": "fish (seafood)", "sardine": "fish (seafood)",
	"squid": "seafood", "octopus": "seafood", "crab": "shellfish", "lobster": "shellfish",
	"whey": "dairy-derived", "paneer": "dairy product (cheese)", "curd": "dairy product",
	"tofu":    "soy-derived",
	"truffle": "fungal (restricted in strict Jain diet)",
	"peanut":  "nut (common allergen)", "almond": "tree nut", "walnut": "tree nut",
	"cashew": "tree nut", "hazelnut": "tree nut", "pecan": "tree nut",
	"soy": "soy-derived (allergen)",
}

// productWords are containers/products rather than real ingredients,
// excluded from the "safe" ingredient list in a reply.
var productWords = map[string]bool{
	"burger": true, "bar": true, "protein bar": true, "protin bar": true, "energy bar": true,
	"cake": true, "bread": true, "sandwich": true, "wrap": true, "pizza": true, "pie": true,
	"cookie": true, "cookies": true, "biscuit": true, "biscuits": true,
	"cracker": true, "crackers": true, "chip": true, "chips": true, "crisp": true, "crisps": true,
	"noodle": true, "noodles": true, "pasta": true, "ramen": true,
	"soup": true, "salad": true, "stew": true, "curry": true,
	"juice": true, "drink": true, "smoothie": true, "shake": true, "milkshake": true,
	"cereal": true, "granola": true, "muesli": true,
	"muffin": true, "bagel": true, "pancake": true, "waffle": true, "toast": true,
	"roll": true, "bun": true, "doughnut": true, "donut": true, "pastry": true, "croissant": true,
	"ice cream": true, "gelato": true, "sorbet": true, "pudding": true, "custard": true,
	"candy": true, "chocolate bar": true, "snack": true, "snacks": true,
	"sausage": true, "hotdog": true, "hot dog": true, "kebab": true,
}

var alwaysPlural = map[string]bool{
	"eggs": true, "oats": true, "lentils": true, "beans": true, "peas": true,
	"fries": true, "noodles": true, "nuts": true, "seeds": true,
}

var singularSWords = map[string]bool{
	"asparagus": true, "hummus": true, "couscous": true, "molasses": true,
	"floss": true, "bass": true, "grass": true, "glass": true, "gas": true,
	"bus": true, "lens": true, "is": true,
}
