package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrMalformedBatch is returned when a generated response is not a usable recipe batch.
// A batch is accepted or rejected as a whole.
var ErrMalformedBatch = errors.New("malformed recipe batch")

var fenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?\\s*```$")

// rawRecipe mirrors the loosely typed JSON a generator returns.
type rawRecipe struct {
	ID              any             `json:"id"`
	Name            any             `json:"name"`
	Description     string          `json:"description"`
	Servings        any             `json:"servings"`
	PrepTime        string          `json:"prepTime"`
	CookTime        string          `json:"cookTime"`
	Ingredients     json.RawMessage `json:"ingredients"`
	Instructions    json.RawMessage `json:"instructions"`
	Notes           string          `json:"notes"`
	EquipmentNeeded json.RawMessage `json:"equipmentNeeded"`
	CuisineType     string          `json:"cuisineType"`
	ImageURL        string          `json:"imageUrl"`
}

type rawIngredient struct {
	Name     string `json:"name"`
	Quantity any    `json:"quantity"`
	Unit     string `json:"unit"`
}

// StripFence removes a surrounding markdown code fence, if any.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil && m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	return s
}

// ParseBatch turns a generator response into a list of recipes.
// Every entry needs a name, an ingredient array and an instruction array;
// if any entry lacks one the whole batch is rejected. Ids are unique within
// the returned batch.
func ParseBatch(raw string) ([]Recipe, error) {
	body := []byte(unwrap(StripFence(raw)))

	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
	}

	recipes := make([]Recipe, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		r, err := parseEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedBatch, i, err)
		}
		if _, dup := seen[r.ID]; dup || r.ID == "" {
			r.ID = newID()
		}
		seen[r.ID] = struct{}{}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

// ParseOne parses a single recipe, given either as an object or a one-element array.
func ParseOne(raw string) (Recipe, error) {
	body := StripFence(raw)
	if strings.HasPrefix(body, "[") {
		batch, err := ParseBatch(body)
		if err != nil {
			return Recipe{}, err
		}
		if len(batch) == 0 {
			return Recipe{}, fmt.Errorf("%w: empty array", ErrMalformedBatch)
		}
		return batch[0], nil
	}

	r, err := parseEntry(json.RawMessage(body))
	if err != nil {
		return Recipe{}, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
	}
	if r.ID == "" {
		r.ID = newID()
	}
	return r, nil
}

// unwrap returns the array held by a {"recipes": [...]} envelope, which
// providers restricted to JSON objects produce. Anything else is returned as is.
func unwrap(body string) string {
	if !strings.HasPrefix(body, "{") {
		return body
	}
	var env struct {
		Recipes json.RawMessage `json:"recipes"`
	}
	if json.Unmarshal([]byte(body), &env) == nil && isArray(env.Recipes) {
		return string(env.Recipes)
	}
	return body
}

func parseEntry(entry json.RawMessage) (Recipe, error) {
	var rr rawRecipe
	if err := json.Unmarshal(entry, &rr); err != nil {
		return Recipe{}, err
	}

	name, _ := rr.Name.(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return Recipe{}, errors.New("missing name")
	}

	var ingredients []json.RawMessage
	if !isArray(rr.Ingredients) || json.Unmarshal(rr.Ingredients, &ingredients) != nil {
		return Recipe{}, errors.New("missing ingredients")
	}
	if !isArray(rr.Instructions) {
		return Recipe{}, errors.New("missing instructions")
	}

	r := Recipe{
		ID:              idString(rr.ID),
		Name:            name,
		Description:     orDefault(rr.Description, "No description available."),
		Servings:        servings(rr.Servings),
		PrepTime:        orDefault(rr.PrepTime, "N/A"),
		CookTime:        orDefault(rr.CookTime, "N/A"),
		Ingredients:     make([]Ingredient, 0, len(ingredients)),
		Instructions:    stringsOnly(rr.Instructions),
		Notes:           rr.Notes,
		EquipmentNeeded: stringsOnly(rr.EquipmentNeeded),
		CuisineType:     Cuisine(rr.CuisineType),
		ImageURL:        rr.ImageURL,
	}

	for _, ing := range ingredients {
		var ri rawIngredient
		if err := json.Unmarshal(ing, &ri); err != nil {
			// Bare strings are tolerated as ingredient names.
			var s string
			if json.Unmarshal(ing, &s) != nil {
				return Recipe{}, fmt.Errorf("invalid ingredient: %s", string(ing))
			}
			ri.Name = s
		}
		r.Ingredients = append(r.Ingredients, Ingredient{
			Name:     orDefault(strings.TrimSpace(ri.Name), "Unknown Ingredient"),
			Quantity: quantity(ri.Quantity),
			Unit:     ri.Unit,
		})
	}
	return r, nil
}

func newID() string {
	return "gen-" + uuid.NewString()
}

func isArray(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return strings.HasPrefix(s, "[")
}

func stringsOnly(raw json.RawMessage) []string {
	var items []any
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func idString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func servings(v any) int {
	if f, ok := v.(float64); ok && f >= 1 {
		return int(f)
	}
	return 2
}

func quantity(v any) string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) != "" {
			return strings.TrimSpace(t)
		}
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return "1"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
