package profile

import (
	"testing"

	"ai-cookbook/internal/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn() State {
	return State{Profile: New(AuthIdentity{UID: "u1", DisplayName: "Ana", Provider: "telegram"})}
}

func TestNew(t *testing.T) {
	p := New(AuthIdentity{UID: "u1", Email: "a@b.c", Provider: "google"})
	assert.Equal(t, DefaultName, p.Name)
	assert.Equal(t, SkillBeginner, p.SkillLevel)
	assert.Equal(t, 2, p.LastNumPeople)
	assert.Empty(t, p.LastBudget)
	assert.False(t, p.SetupComplete)
	assert.False(t, p.InitialChoiceMade)
	assert.True(t, p.BelongsTo(AuthIdentity{UID: "u1"}))
	assert.False(t, p.BelongsTo(AuthIdentity{UID: "u2"}))
}

func TestSaveProfile(t *testing.T) {
	t.Run("MergesOntoExisting", func(t *testing.T) {
		s := signedIn()
		skill := SkillAdvanced
		next := s.SaveProfile(Patch{
			SkillLevel:         &skill,
			Allergies:          []string{"peanuts"},
			CuisinePreferences: []recipe.Cuisine{recipe.CuisineThai},
		})

		assert.Equal(t, "Ana", next.Profile.Name)
		assert.Equal(t, SkillAdvanced, next.Profile.SkillLevel)
		assert.Equal(t, []string{"peanuts"}, next.Profile.Allergies)
		assert.True(t, next.Profile.SetupComplete)
		assert.True(t, next.Profile.InitialChoiceMade)
		assert.Equal(t, "u1", next.Profile.AuthUID)

		assert.False(t, s.Profile.SetupComplete, "receiver must not change")
		assert.Equal(t, SkillBeginner, s.Profile.SkillLevel)
	})

	t.Run("EmptyBase", func(t *testing.T) {
		name := "Solo"
		next := State{}.SaveProfile(Patch{Name: &name})
		require.NotNil(t, next.Profile)
		assert.Equal(t, "Solo", next.Profile.Name)
		assert.True(t, next.Profile.SetupComplete)
	})

	t.Run("EmptySliceClears", func(t *testing.T) {
		s := signedIn().SaveProfile(Patch{Allergies: []string{"nuts"}})
		s = s.SaveProfile(Patch{Allergies: []string{}})
		assert.Empty(t, s.Profile.Allergies)
		s = s.SaveProfile(Patch{})
		assert.NotNil(t, s.Profile.Allergies)
	})
}

func TestLibrary(t *testing.T) {
	a := recipe.Recipe{ID: "a", Name: "A"}
	b := recipe.Recipe{ID: "b", Name: "B"}

	t.Run("AddOrUpdatePreservesPosition", func(t *testing.T) {
		s := signedIn().AddOrUpdateRecipe(a).AddOrUpdateRecipe(b)
		s = s.AddOrUpdateRecipe(recipe.Recipe{ID: "a", Name: "A2"})
		require.Len(t, s.Library, 2)
		assert.Equal(t, "A2", s.Library[0].Name)
	})

	t.Run("ToggleFavorite", func(t *testing.T) {
		s := signedIn().AddOrUpdateRecipe(a)
		next := s.ToggleFavorite("a")
		assert.True(t, next.Library[0].IsFavorite)
		assert.False(t, s.Library[0].IsFavorite)
		assert.Len(t, next.Favorites(), 1)
		assert.Equal(t, next, next.ToggleFavorite("missing"))
	})

	t.Run("DeleteCascades", func(t *testing.T) {
		s := signedIn().AddOrUpdateRecipe(a).AddOrUpdateRecipe(b)
		s = s.DislikeRecipe(a).SetWeeklyPlan([]string{"a", "b"})

		s = s.DeleteRecipe("a")
		assert.Len(t, s.Library, 1)
		assert.Empty(t, s.Profile.DislikedRecipes)
		assert.Equal(t, []string{"b"}, s.Profile.WeeklyPlanRecipeIDs)
	})

	t.Run("DeleteMissingLeavesLibrary", func(t *testing.T) {
		s := signedIn().AddOrUpdateRecipe(a)
		assert.Len(t, s.DeleteRecipe("zzz").Library, 1)
	})
}

func TestDislikes(t *testing.T) {
	r := recipe.Recipe{ID: "x", Name: "X"}

	s := signedIn().DislikeRecipe(r).DislikeRecipe(r)
	assert.Len(t, s.Profile.DislikedRecipes, 1)

	s = s.UndislikeRecipe("x")
	assert.Empty(t, s.Profile.DislikedRecipes)
	assert.Equal(t, s, s.UndislikeRecipe("x"))

	assert.Nil(t, State{}.DislikeRecipe(r).Profile)
}

func TestPreferencesAndPlan(t *testing.T) {
	s := signedIn().SetGenerationPreferences(4, "$50")
	assert.Equal(t, 4, s.Profile.LastNumPeople)
	assert.Equal(t, "$50", s.Profile.LastBudget)

	s = s.AddOrUpdateRecipe(recipe.Recipe{ID: "r1", Name: "One"})
	ids := []string{"later", "r1"}
	s = s.SetWeeklyPlan(ids)
	ids[0] = "mutated"
	assert.Equal(t, []string{"later", "r1"}, s.Profile.WeeklyPlanRecipeIDs)

	plan := s.WeeklyPlanRecipes()
	require.Len(t, plan, 1)
	assert.Equal(t, "One", plan[0].Name)
}

func TestStageFlags(t *testing.T) {
	s := signedIn().MarkInitialChoice()
	assert.True(t, s.Profile.InitialChoiceMade)
	assert.False(t, s.Profile.SetupComplete)

	s = s.JoinFamily("abc", "Family abc")
	assert.True(t, s.Profile.SetupComplete)
	assert.Equal(t, "Family abc", s.Profile.FamilyName)
}
