package input

import (
	"fmt"
	"strings"

	"ai-cookbook/internal/profile"
	"ai-cookbook/internal/recipe"
)

// ProfileKeys lists the keys accepted by Profile, in help order.
var ProfileKeys = []string{"name", "email", "diet", "allergies", "cuisines", "avoid", "skill", "equipment"}

// Profile parses "key=value; key=value" text into a patch. List values are
// comma separated and an empty value clears the list. Enum values match
// case-insensitively.
func Profile(text string) (profile.Patch, error) {
	var patch profile.Patch
	for _, pair := range strings.Split(text, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return profile.Patch{}, &ValidationError{Field: pair, Message: fmt.Sprintf("Expected key=value, got %q.", pair)}
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "name":
			if value == "" {
				return profile.Patch{}, &ValidationError{Field: "Name", Message: "Name cannot be empty."}
			}
			patch.Name = &value
		case "email":
			patch.Email = &value
		case "diet":
			patch.DietaryRequirements, err = options(key, value, profile.DietaryRequirements)
		case "allergies":
			patch.Allergies = splitList(value)
		case "cuisines":
			patch.CuisinePreferences, err = options(key, value, recipe.Cuisines)
		case "avoid":
			patch.DislikedCuisines, err = options(key, value, recipe.Cuisines)
		case "skill":
			var levels []profile.SkillLevel
			levels, err = options(key, value, profile.SkillLevels)
			if err == nil && len(levels) != 1 {
				err = &ValidationError{Field: key, Message: "Skill takes exactly one value."}
			}
			if err == nil {
				patch.SkillLevel = &levels[0]
			}
		case "equipment":
			patch.KitchenEquipment, err = options(key, value, profile.Equipment)
		default:
			err = &ValidationError{Field: key, Message: fmt.Sprintf("Unknown profile field %q. Use one of: %s.", key, strings.Join(ProfileKeys, ", "))}
		}
		if err != nil {
			return profile.Patch{}, err
		}
	}
	return patch, nil
}

func splitList(value string) []string {
	out := []string{}
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func options[T ~string](key, value string, known []T) ([]T, error) {
	out := []T{}
	for _, v := range splitList(value) {
		match, ok := matchOption(known, v)
		if !ok {
			names := make([]string, len(known))
			for i, k := range known {
				names[i] = string(k)
			}
			return nil, &ValidationError{Field: key, Message: fmt.Sprintf("Unknown %s %q. Choose from: %s.", key, v, strings.Join(names, ", "))}
		}
		out = append(out, match)
	}
	return out, nil
}

func matchOption[T ~string](known []T, v string) (T, bool) {
	for _, k := range known {
		if strings.EqualFold(string(k), v) {
			return k, true
		}
	}
	var zero T
	return zero, false
}
