package models

// Profile carries the optional user attributes that personalize a daily
// summary. Zero values fall back to sensible defaults in the target math.
type Profile struct {
	Sex           string  `json:"sex,omitempty"`
	Age           float64 `json:"age,omitempty"`
	HeightCm      float64 `json:"height_cm,omitempty"`
	WeightKg      float64 `json:"weight_kg,omitempty"`
	ActivityLevel string  `json:"activity_level,omitempty"`
	Goal          string  `json:"goal,omitempty"`
}

// MealLogEntry is one already-resolved meal supplied by the caller for a
// daily summary. Nothing is persisted server-side. Macro grams may arrive
// nested under macros or as flat top-level fields; nested values win.
type MealLogEntry struct {
	Item     string         `json:"item"`
	Name     string         `json:"name,omitempty"`
	Calories float64        `json:"calories"`
	Macros   NutrientVector `json:"macros,omitempty"`
	ProteinG float64        `json:"protein_g,omitempty"`
	CarbsG   float64        `json:"carbs_g,omitempty"`
	FatsG    float64        `json:"fats_g,omitempty"`
}

// DailyTargets are the derived intake targets for one person-day.
type DailyTargets struct {
	BMR           int     `json:"bmr"`
	TDEE          int     `json:"tdee"`
	CalorieTarget int     `json:"calorie_target"`
	ProteinG      float64 `json:"protein_target_g"`
	FatG          float64 `json:"fat_target_g"`
	CarbG         float64 `json:"carb_target_g"`
	Goal          string  `json:"goal"`
	ActivityLevel string  `json:"activity_level"`
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`
	Age           float64 `json:"age"`
	Sex           string  `json:"sex"`
}

// DayTotals aggregates the supplied meal logs.
type DayTotals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatsG    float64 `json:"fats_g"`
}

// SummaryMeal is a per-meal line in the summary output.
type SummaryMeal struct {
	Item     string  `json:"item"`
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatsG    float64 `json:"fats_g"`
}

// DailySummary is the parsed result of a summary job.
type DailySummary struct {
	Date            string         `json:"date"`
	ProfileUsed     DailyTargets   `json:"profile_used"`
	Totals          DayTotals      `json:"totals"`
	GapsVsTarget    map[string]int `json:"gaps_vs_target"`
	TopMealsByCal   []SummaryMeal  `json:"top_meals_by_cal"`
	Recommendations []string       `json:"recommendations"`
	GeneratedAt     string         `json:"generated_at"`
}

// SummaryJob tracks an in-flight or finished summary computation.
type SummaryJob struct {
	ID      string        `json:"id"`
	Status  string        `json:"status"` // pending | complete
	Summary *DailySummary `json:"summary,omitempty"`
}
