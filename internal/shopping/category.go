package shopping

import (
	"regexp"
	"strings"
)

// CategoryOther is returned when no keyword matches.
const CategoryOther = "Other"

// Categories is the canonical category order. Classification priority and
// grouped display both follow it.
var Categories = []string{
	"Produce",
	"Dairy & Eggs",
	"Meat & Seafood",
	"Bakery",
	"Pantry Staples",
	"Snacks",
	"Frozen Foods",
	"Beverages",
	"Household",
	"Personal Care",
	"Baby",
	"Pets",
	CategoryOther,
}

var categoryKeywords = map[string][]string{
	"Produce": {
		"apple", "banana", "orange", "lettuce", "tomato", "potato", "onion", "broccoli", "spinach",
		"carrot", "pepper", "grape", "strawberry", "berry", "melon", "salad", "vegetable", "fruit",
		"garlic", "ginger", "lemon", "lime", "cabbage", "celery", "cucumber", "avocado", "corn",
	},
	"Dairy & Eggs": {"milk", "cheese", "yogurt", "butter", "cream", "egg", "sour cream", "cottage cheese"},
	"Meat & Seafood": {
		"chicken", "beef", "pork", "turkey", "fish", "salmon", "tuna", "shrimp", "sausage", "bacon",
		"steak", "lamb", "ground meat", "deli meat",
	},
	"Bakery": {"bread", "bagel", "croissant", "muffin", "cake", "pie", "cookies", "pastry", "tortilla", "buns", "rolls"},
	"Pantry Staples": {
		"rice", "pasta", "flour", "sugar", "salt", "oil", "vinegar", "cereal", "oats", "beans",
		"lentils", "soup", "canned tomatoes", "canned vegetables", "canned fruit", "broth", "stock",
		"spice", "herb", "condiment", "sauce", "ketchup", "mustard", "mayonnaise", "mayo", "jam",
		"jelly", "honey", "syrup", "coffee", "tea", "baking powder", "baking soda", "yeast",
		"chocolate chips", "vanilla extract", "soy sauce", "hot sauce", "dressing",
	},
	"Snacks": {"chips", "crackers", "pretzels", "popcorn", "nuts", "seeds", "trail mix", "granola bars", "fruit snacks", "candy"},
	"Frozen Foods": {
		"frozen vegetables", "frozen fruit", "ice cream", "frozen pizza", "frozen meal", "waffles",
		"fries", "frozen potatoes",
	},
	"Beverages": {"water", "juice", "soda", "pop", "beverage", "energy drink", "sports drink", "iced tea", "sparkling water"},
	"Household": {
		"detergent", "soap", "cleaner", "paper towel", "toilet paper", "trash bag", "dish soap",
		"sponge", "foil", "plastic wrap", "napkins",
	},
	"Personal Care": {"shampoo", "conditioner", "body wash", "toothpaste", "deodorant", "razor", "feminine hygiene"},
	"Baby":          {"diapers", "wipes", "baby food", "formula"},
	"Pets":          {"dog food", "cat food", "pet treats", "cat litter"},
}

type keyword struct {
	category string
	text     string
	phrase   bool
	re       *regexp.Regexp
}

// keywords holds the table flattened in category priority order.
var keywords = compileKeywords()

func compileKeywords() []keyword {
	var out []keyword
	for _, cat := range Categories {
		for _, kw := range categoryKeywords[cat] {
			out = append(out, keyword{
				category: cat,
				text:     kw,
				phrase:   strings.Contains(kw, " "),
				re:       regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`),
			})
		}
	}
	return out
}

// Classify maps a free-text item name to a category. Phrase keywords are
// tried first, then single words, both as whole-word matches; a plain
// substring pass catches plurals and variants.
func Classify(itemName string) string {
	name := strings.ToLower(itemName)

	for _, kw := range keywords {
		if kw.phrase && kw.re.MatchString(name) {
			return kw.category
		}
	}
	for _, kw := range keywords {
		if !kw.phrase && kw.re.MatchString(name) {
			return kw.category
		}
	}
	for _, kw := range keywords {
		if strings.Contains(name, kw.text) {
			return kw.category
		}
	}
	return CategoryOther
}

// IsCategory reports whether c is one of the fixed categories.
func IsCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}
