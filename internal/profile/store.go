package profile

import (
	"ai-cookbook/internal/recipe"
)

// State holds the profile and the recipe library. A nil Profile means no
// one is signed in. Methods return the next state and never modify the
// receiver or the slices it shares.
type State struct {
	Profile *UserProfile
	Library []recipe.Recipe
}

// withProfile returns a copy of s whose profile has been passed through fn.
// It is a no-op when there is no profile.
func (s State) withProfile(fn func(*UserProfile)) State {
	if s.Profile == nil {
		return s
	}
	p := *s.Profile
	fn(&p)
	s.Profile = &p
	return s
}

// SaveProfile merges the patch onto the current profile, or an empty one,
// and marks setup as complete.
func (s State) SaveProfile(patch Patch) State {
	var base UserProfile
	if s.Profile != nil {
		base = *s.Profile
	}
	p := patch.Apply(base)
	p.SetupComplete = true
	p.InitialChoiceMade = true
	s.Profile = &p
	return s
}

// MarkInitialChoice records that the user picked create or join.
func (s State) MarkInitialChoice() State {
	return s.withProfile(func(p *UserProfile) { p.InitialChoiceMade = true })
}

// JoinFamily attaches the profile to a family and completes setup.
func (s State) JoinFamily(id, name string) State {
	return s.withProfile(func(p *UserProfile) {
		p.FamilyID = id
		p.FamilyName = name
		p.SetupComplete = true
	})
}

// Recipe looks up a library entry.
func (s State) Recipe(id string) (recipe.Recipe, bool) {
	if i := recipe.IndexOf(s.Library, id); i >= 0 {
		return s.Library[i], true
	}
	return recipe.Recipe{}, false
}

// AddOrUpdateRecipe replaces the entry with the same id in place, or appends.
func (s State) AddOrUpdateRecipe(r recipe.Recipe) State {
	lib := make([]recipe.Recipe, len(s.Library), len(s.Library)+1)
	copy(lib, s.Library)
	if i := recipe.IndexOf(lib, r.ID); i >= 0 {
		lib[i] = r
	} else {
		lib = append(lib, r)
	}
	s.Library = lib
	return s
}

func (s State) ToggleFavorite(id string) State {
	i := recipe.IndexOf(s.Library, id)
	if i < 0 {
		return s
	}
	lib := make([]recipe.Recipe, len(s.Library))
	copy(lib, s.Library)
	lib[i].IsFavorite = !lib[i].IsFavorite
	s.Library = lib
	return s
}

// DeleteRecipe removes the recipe from the library and purges its id from
// the dislike set and the weekly plan.
func (s State) DeleteRecipe(id string) State {
	lib := make([]recipe.Recipe, 0, len(s.Library))
	for _, r := range s.Library {
		if r.ID != id {
			lib = append(lib, r)
		}
	}
	s.Library = lib

	return s.withProfile(func(p *UserProfile) {
		p.DislikedRecipes = withoutRecipe(p.DislikedRecipes, id)
		p.WeeklyPlanRecipeIDs = withoutID(p.WeeklyPlanRecipeIDs, id)
	})
}

// SetGenerationPreferences stores the last used party size and budget.
// numPeople is validated by the caller.
func (s State) SetGenerationPreferences(numPeople int, budget string) State {
	return s.withProfile(func(p *UserProfile) {
		p.LastNumPeople = numPeople
		p.LastBudget = budget
	})
}

// DislikeRecipe adds r to the dislike set unless its id is already there.
func (s State) DislikeRecipe(r recipe.Recipe) State {
	if s.Profile == nil || recipe.IndexOf(s.Profile.DislikedRecipes, r.ID) >= 0 {
		return s
	}
	return s.withProfile(func(p *UserProfile) {
		disliked := make([]recipe.Recipe, len(p.DislikedRecipes), len(p.DislikedRecipes)+1)
		copy(disliked, p.DislikedRecipes)
		p.DislikedRecipes = append(disliked, r)
	})
}

func (s State) UndislikeRecipe(id string) State {
	if s.Profile == nil || recipe.IndexOf(s.Profile.DislikedRecipes, id) < 0 {
		return s
	}
	return s.withProfile(func(p *UserProfile) {
		p.DislikedRecipes = withoutRecipe(p.DislikedRecipes, id)
	})
}

// SetWeeklyPlan replaces the plan. Ids are not checked against the library,
// so a plan may reference recipes that are saved later.
func (s State) SetWeeklyPlan(ids []string) State {
	return s.withProfile(func(p *UserProfile) {
		p.WeeklyPlanRecipeIDs = append([]string{}, ids...)
	})
}

// WeeklyPlanRecipes resolves the plan in plan order, skipping ids that are
// not in the library.
func (s State) WeeklyPlanRecipes() []recipe.Recipe {
	if s.Profile == nil {
		return nil
	}
	var out []recipe.Recipe
	for _, id := range s.Profile.WeeklyPlanRecipeIDs {
		if r, ok := s.Recipe(id); ok {
			out = append(out, r)
		}
	}
	return out
}

func (s State) Favorites() []recipe.Recipe {
	return recipe.Favorites(s.Library)
}

func withoutRecipe(recipes []recipe.Recipe, id string) []recipe.Recipe {
	out := make([]recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
