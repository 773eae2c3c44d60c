package profile

import (
	"ai-cookbook/internal/recipe"
)

// DefaultName is used when the identity carries no display name.
const DefaultName = "Foodie"

type DietaryRequirement string

const (
	DietNone        DietaryRequirement = "None"
	DietVegetarian  DietaryRequirement = "Vegetarian"
	DietVegan       DietaryRequirement = "Vegan"
	DietKeto        DietaryRequirement = "Keto"
	DietGlutenFree  DietaryRequirement = "Gluten-Free"
	DietPaleo       DietaryRequirement = "Paleo"
	DietPescatarian DietaryRequirement = "Pescatarian"
)

var DietaryRequirements = []DietaryRequirement{
	DietNone, DietVegetarian, DietVegan, DietKeto, DietGlutenFree, DietPaleo, DietPescatarian,
}

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
)

var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced}

type KitchenEquipment string

const (
	EquipmentOven          KitchenEquipment = "Oven"
	EquipmentStovetop      KitchenEquipment = "Stovetop"
	EquipmentMicrowave     KitchenEquipment = "Microwave"
	EquipmentAirFryer      KitchenEquipment = "Air Fryer"
	EquipmentSlowCooker    KitchenEquipment = "Slow Cooker"
	EquipmentInstantPot    KitchenEquipment = "Instant Pot"
	EquipmentBlender       KitchenEquipment = "Blender"
	EquipmentFoodProcessor KitchenEquipment = "Food Processor"
	EquipmentStandMixer    KitchenEquipment = "Stand Mixer"
)

// Equipment lists every known appliance in display order.
var Equipment = []KitchenEquipment{
	EquipmentOven, EquipmentStovetop, EquipmentMicrowave, EquipmentAirFryer, EquipmentSlowCooker,
	EquipmentInstantPot, EquipmentBlender, EquipmentFoodProcessor, EquipmentStandMixer,
}

// AuthIdentity is what the authentication collaborator hands over after
// sign-in. Credentials are never verified here; UID is only used as a key.
type AuthIdentity struct {
	UID         string
	Email       string
	DisplayName string
	Provider    string
}

// UserProfile is the durable profile of the signed-in user.
type UserProfile struct {
	Name                string               `json:"name"`
	Email               string               `json:"email,omitempty"`
	DietaryRequirements []DietaryRequirement `json:"dietaryRequirements"`
	Allergies           []string             `json:"allergies"`
	CuisinePreferences  []recipe.Cuisine     `json:"cuisinePreferences"`
	DislikedCuisines    []recipe.Cuisine     `json:"dislikedCuisines"`
	SkillLevel          SkillLevel           `json:"skillLevel"`
	KitchenEquipment    []KitchenEquipment   `json:"kitchenEquipment"`
	SetupComplete       bool                 `json:"setupComplete"`
	InitialChoiceMade   bool                 `json:"initialChoiceMade"`
	AuthUID             string               `json:"authUid,omitempty"`
	AuthProvider        string               `json:"authProvider,omitempty"`
	FamilyID            string               `json:"familyId,omitempty"`
	FamilyName          string               `json:"familyName,omitempty"`
	LastNumPeople       int                  `json:"lastNumPeople"`
	LastBudget          string               `json:"lastBudget"`
	DislikedRecipes     []recipe.Recipe      `json:"dislikedRecipes"`
	WeeklyPlanRecipeIDs []string             `json:"weeklyPlanRecipeIds"`
}

// New builds the default profile for a first-time identity.
func New(user AuthIdentity) *UserProfile {
	name := user.DisplayName
	if name == "" {
		name = DefaultName
	}
	return &UserProfile{
		Name:                name,
		Email:               user.Email,
		AuthUID:             user.UID,
		AuthProvider:        user.Provider,
		DietaryRequirements: []DietaryRequirement{},
		Allergies:           []string{},
		CuisinePreferences:  []recipe.Cuisine{},
		DislikedCuisines:    []recipe.Cuisine{},
		SkillLevel:          SkillBeginner,
		KitchenEquipment:    []KitchenEquipment{},
		LastNumPeople:       2,
		DislikedRecipes:     []recipe.Recipe{},
		WeeklyPlanRecipeIDs: []string{},
	}
}

// BelongsTo reports whether the profile was created for the given identity.
func (p *UserProfile) BelongsTo(user AuthIdentity) bool {
	return p != nil && user.UID != "" && p.AuthUID == user.UID
}

// Patch is a partial profile update. Nil fields are left untouched; a
// non-nil empty slice clears the collection.
type Patch struct {
	Name                *string
	Email               *string
	DietaryRequirements []DietaryRequirement
	Allergies           []string
	CuisinePreferences  []recipe.Cuisine
	DislikedCuisines    []recipe.Cuisine
	SkillLevel          *SkillLevel
	KitchenEquipment    []KitchenEquipment
}

// Apply merges the patch onto a copy of p.
func (pt Patch) Apply(p UserProfile) UserProfile {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Email != nil {
		p.Email = *pt.Email
	}
	if pt.DietaryRequirements != nil {
		p.DietaryRequirements = append([]DietaryRequirement{}, pt.DietaryRequirements...)
	}
	if pt.Allergies != nil {
		p.Allergies = append([]string{}, pt.Allergies...)
	}
	if pt.CuisinePreferences != nil {
		p.CuisinePreferences = append([]recipe.Cuisine{}, pt.CuisinePreferences...)
	}
	if pt.DislikedCuisines != nil {
		p.DislikedCuisines = append([]recipe.Cuisine{}, pt.DislikedCuisines...)
	}
	if pt.SkillLevel != nil {
		p.SkillLevel = *pt.SkillLevel
	}
	if pt.KitchenEquipment != nil {
		p.KitchenEquipment = append([]KitchenEquipment{}, pt.KitchenEquipment...)
	}
	return p
}
