package recipe

import (
	"sort"
	"strings"
)

// Cuisine is the cuisine tag attached to a recipe or a profile preference.
type Cuisine string

const (
	CuisineItalian       Cuisine = "Italian"
	CuisineMexican       Cuisine = "Mexican"
	CuisineIndian        Cuisine = "Indian"
	CuisineChinese       Cuisine = "Chinese"
	CuisineJapanese      Cuisine = "Japanese"
	CuisineThai          Cuisine = "Thai"
	CuisineFrench        Cuisine = "French"
	CuisineSpanish       Cuisine = "Spanish"
	CuisineGreek         Cuisine = "Greek"
	CuisineAmerican      Cuisine = "American"
	CuisineMediterranean Cuisine = "Mediterranean"
)

// Cuisines lists every known cuisine in display order.
var Cuisines = []Cuisine{
	CuisineItalian, CuisineMexican, CuisineIndian, CuisineChinese, CuisineJapanese, CuisineThai,
	CuisineFrench, CuisineSpanish, CuisineGreek, CuisineAmerican, CuisineMediterranean,
}

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// Recipe is either a generated suggestion or a saved library entry.
type Recipe struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Servings        int          `json:"servings"`
	PrepTime        string       `json:"prepTime"`
	CookTime        string       `json:"cookTime"`
	Ingredients     []Ingredient `json:"ingredients"`
	Instructions    []string     `json:"instructions"`
	Notes           string       `json:"notes,omitempty"`
	EquipmentNeeded []string     `json:"equipmentNeeded"`
	CuisineType     Cuisine      `json:"cuisineType,omitempty"`
	IsFavorite      bool         `json:"isFavorite,omitempty"`
	ImageURL        string       `json:"imageUrl,omitempty"`
}

// Query narrows a recipe library down for display.
type Query struct {
	Term          string
	Cuisines      []Cuisine
	FavoritesOnly bool
}

// Filter returns the recipes matching q, favourites first and then by name.
// The input slice is never modified.
func Filter(recipes []Recipe, q Query) []Recipe {
	term := strings.ToLower(strings.TrimSpace(q.Term))

	var out []Recipe
	for _, r := range recipes {
		if q.FavoritesOnly && !r.IsFavorite {
			continue
		}
		if len(q.Cuisines) > 0 && !containsCuisine(q.Cuisines, r.CuisineType) {
			continue
		}
		if term != "" && !r.matches(term) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsFavorite != out[j].IsFavorite {
			return out[i].IsFavorite
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Favorites returns the favourite recipes in library order.
func Favorites(recipes []Recipe) []Recipe {
	var out []Recipe
	for _, r := range recipes {
		if r.IsFavorite {
			out = append(out, r)
		}
	}
	return out
}

// IndexOf returns the position of the recipe with the given id, or -1.
func IndexOf(recipes []Recipe, id string) int {
	for i, r := range recipes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (r Recipe) matches(term string) bool {
	if strings.Contains(strings.ToLower(r.Name), term) ||
		strings.Contains(strings.ToLower(r.Description), term) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), term) {
			return true
		}
	}
	return false
}

func containsCuisine(set []Cuisine, c Cuisine) bool {
	if c == "" {
		return false
	}
	for _, s := range set {
		if s == c {
			return true
		}
	}
	return false
}
