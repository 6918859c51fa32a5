// Package domain defines the payloads and ports for the recipe guide client.
// All other packages depend on domain; domain depends on nothing.
package domain

import "strings"

// RecipeStatus is the cooking-session snapshot served by /current_status.
type RecipeStatus struct {
	Step          string `json:"step"`
	TimeRemaining int    `json:"time_remaining"`
	Ingredient    string `json:"ingredient"` // empty when no ingredient is active
}

// HasIngredient reports whether the status names an active ingredient.
// An empty or blank ingredient means "none" and must not trigger a lookup.
func (s *RecipeStatus) HasIngredient() bool {
	return strings.TrimSpace(s.Ingredient) != ""
}

// NutritionInfo is the /nutrition response for a single ingredient.
type NutritionInfo struct {
	NutritionInfo string `json:"nutrition_info"`
}

// TimerStatus is the /timer response. Polled independently of RecipeStatus.
type TimerStatus struct {
	TimeRemaining int `json:"time_remaining"`
}

// IngredientRoster is the full ingredient list served by /recipe.
type IngredientRoster struct {
	Ingredients []string `json:"ingredients"`
}

// ProgressStatus is the /progress response: a coarse description of what
// the kitchen is doing and how far along it is.
type ProgressStatus struct {
	CurrentState       string `json:"current_state"`
	ProgressPercentage int    `json:"progress_percentage"`
}

// RequiredFields lists the JSON keys a response must carry to count as a
// RecipeStatus. "ingredient" may be absent: absent means no active ingredient.
func (RecipeStatus) RequiredFields() []string { return []string{"step", "time_remaining"} }

func (NutritionInfo) RequiredFields() []string { return []string{"nutrition_info"} }

func (TimerStatus) RequiredFields() []string { return []string{"time_remaining"} }

func (IngredientRoster) RequiredFields() []string { return []string{"ingredients"} }

func (ProgressStatus) RequiredFields() []string {
	return []string{"current_state", "progress_percentage"}
}
