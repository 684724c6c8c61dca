package intent

// productContainerWords are product/container nouns that keep an "X
// with Y" phrase intact as a single compound ingredient ("burger with
// chicken") instead of splitting "with" as a conjunction the way
// "bread and eggs" would split on "and".
var productContainerWords = map[string]bool{
	"burger": true, "burgers": true, "bar": true, "bars": true,
	"protein bar": true, "protin bar": true, "energy bar": true,
	"cake": true, "cakes": true, "sandwich": true, "sandwiches": true,
	"wrap": true, "wraps": true, "pizza": true, "pizzas": true,
	"pie": true, "pies": true,
	"cookie": true, "cookies": true, "biscuit": true, "biscuits": true,
	"cracker": true, "crackers": true,
	"chip": true, "chips": true, "crisp": true, "crisps": true,
	"noodle": true, "noodles": true, "pasta": true, "ramen": true,
	"soup": true, "soups": true, "salad": true, "salads": true,
	"stew": true, "curry": true,
	"juice": true, "drink": true, "smoothie": true, "shake": true, "milkshake": true,
	"cereal": true, "granola": true, "muesli": true,
	"muffin": true, "muffins": true, "bagel": true, "pancake": true,
	"waffle": true, "toast": true, "roll": true, "bun": true,
	"doughnut": true, "donut": true, "pastry": true, "croissant": true,
	"ice cream": true, "gelato": true, "sorbet": true, "pudding": true, "custard": true,
	"candy": true, "chocolate bar": true, "snack": true, "snacks": true,
	"sausage": true, "hotdog": true, "hot dog": true, "kebab": true,
	"taco": true, "tacos": true,
	"bread": true, "roti": true, "naan": true, "paratha": true, "chapati": true,
}
