package session

import "errors"

// Stage is the session's onboarding progress.
type Stage string

const (
	StageAuth          Stage = "Auth"
	StageInitialChoice Stage = "InitialChoice"
	StageJoinFamily    Stage = "JoinFamily"
	StageOnboarding    Stage = "OnboardingProfile"
	StageMainApp       Stage = "MainApp"
)

// Tab is the main-app section the user last had open.
type Tab string

const (
	TabHome        Tab = "Home"
	TabProfile     Tab = "Profile"
	TabDiscover    Tab = "Discover Recipes"
	TabShopping    Tab = "Shopping"
	TabSettings    Tab = "Settings"
	TabFavorites   Tab = "Favorites"
	TabRecipePrefs Tab = "Recipe Prefs"
	TabDisliked    Tab = "Disliked"
	TabWeeklyPicks Tab = "Weekly Picks"
	TabDesserts    Tab = "Desserts"
)

// Tabs lists every tab in menu order.
var Tabs = []Tab{
	TabHome, TabProfile, TabDiscover, TabShopping, TabSettings,
	TabFavorites, TabRecipePrefs, TabDisliked, TabWeeklyPicks, TabDesserts,
}

var (
	// ErrStageNotReady is returned by store operations outside the main app.
	ErrStageNotReady = errors.New("finish signing in and setting up your profile first")
	// ErrInvalidTransition is returned when a stage change is not allowed
	// from the current stage.
	ErrInvalidTransition = errors.New("action not available at this stage")
)

func validStage(st Stage) bool {
	switch st {
	case StageAuth, StageInitialChoice, StageJoinFamily, StageOnboarding, StageMainApp:
		return true
	}
	return false
}

func validTab(t Tab) bool {
	for _, x := range Tabs {
		if x == t {
			return true
		}
	}
	return false
}
