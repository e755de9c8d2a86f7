package models

import "math"

// Canonical nutrient keys. The suffix encodes the unit the amount is stored
// in: _g, _mg, _mcg, _kcal (no suffix means a unitless ratio). Every
// component in the pipeline shares this key space; nobody invents new keys.
const (
	KeyCalories     = "calories_kcal"
	KeyProtein      = "protein_g"
	KeyCarbohydrate = "total_carbohydrate_g"
	KeyFat          = "total_fat_g"
	KeyFiber        = "dietary_fiber_g"
	KeySugar        = "sugars_g"
	KeySodium       = "sodium_mg"
)

// NutrientVector maps canonical nutrient keys to amounts expressed in the
// unit implied by each key's suffix.
type NutrientVector map[string]float64

// Sanitize drops NaN and ±Inf amounts. Absent beats garbage.
func (v NutrientVector) Sanitize() NutrientVector {
	out := make(NutrientVector, len(v))
	for k, amt := range v {
		if math.IsNaN(amt) || math.IsInf(amt, 0) {
			continue
		}
		out[k] = amt
	}
	return out
}

// Scaled returns a copy with every amount multiplied by mult and clamped to
// zero, so a contribution can never drag a running total negative.
func (v NutrientVector) Scaled(mult float64) NutrientVector {
	out := make(NutrientVector, len(v))
	for k, amt := range v {
		s := amt * mult
		if math.IsNaN(s) || math.IsInf(s, 0) {
			continue
		}
		if s < 0 {
			s = 0
		}
		out[k] = s
	}
	return out
}
