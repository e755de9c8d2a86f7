package models

// FoodEntry is one row of the local food dataset. The whole list is built
// once at startup, shared read-only, and never mutated; Nutrients are per
// reference serving, unscaled.
type FoodEntry struct {
	Name      string         `json:"name"`
	Norm      string         `json:"norm"`
	Nutrients NutrientVector `json:"nutrients"`
}
