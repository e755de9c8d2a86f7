package models

// NutrientItem is one entry of a batch request: a free-text food name plus
// how much of it was eaten. Quantity and PortionMult default to 1 when
// missing or invalid. ManualCalories, when set, overrides resolution with a
// caller-supplied calorie figure.
type NutrientItem struct {
	Name           string   `json:"name"`
	Quantity       *float64 `json:"quantity,omitempty"`
	PortionMult    *float64 `json:"portion_mult,omitempty"`
	ManualCalories *float64 `json:"manual_calories,omitempty"`
}

// ItemResult is the resolved outcome for a single item. Macros are already
// scaled by quantity × portion multiplier.
type ItemResult struct {
	ID         string         `json:"id"`
	Item       string         `json:"item"`
	Macros     NutrientVector `json:"macros"`
	Calories   float64        `json:"calories"`
	Quantity   float64        `json:"quantity"`
	Provenance Provenance     `json:"provenance"`
}

// MacroSummary is the rounded headline view of a batch's totals.
type MacroSummary struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein_g"`
	Carbs    int `json:"carbs_g"`
	Fat      int `json:"fat_g"`
	Fiber    int `json:"fiber_g"`
	Sugar    int `json:"sugar_g"`
}

// PercentDV is a nutrient total expressed against its FDA daily value.
// Percent is nil when the total has no usable match in the DV table.
type PercentDV struct {
	Percent  *float64 `json:"percent"`
	Category string   `json:"category"`
}

// LackingNutrient is one entry of the most-deficient ranking.
type LackingNutrient struct {
	Key     string  `json:"key"`
	Percent float64 `json:"percent"`
}

// NutrientReport is the full output for one resolved batch.
type NutrientReport struct {
	Results        []ItemResult         `json:"results"`
	Totals         NutrientVector       `json:"totals"`
	MacroSummary   MacroSummary         `json:"macro_summary"`
	PercentDV      map[string]*float64  `json:"percent_dv"`
	PercentDVClass map[string]PercentDV `json:"percent_dv_classified"`
	TopLacking     []LackingNutrient    `json:"top_lacking"`
}
