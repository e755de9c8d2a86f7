package utils

import "strings"

// ConvertUnit converts value between the mass units the canonical key space
// uses, with fixed linear factors. The second return reports whether the
// pair was recognized; callers decide whether an unrecognized pair passes
// through unchanged or invalidates the computation.
func ConvertUnit(value float64, fromUnit, toUnit string) (float64, bool) {
	from := strings.ToLower(strings.TrimSpace(fromUnit))
	to := strings.ToLower(strings.TrimSpace(toUnit))
	if from == "µg" || from == "μg" {
		from = "mcg"
	}
	if to == "µg" || to == "μg" {
		to = "mcg"
	}
	if from == to {
		return value, true
	}
	switch {
	case from == "mcg" && to == "mg":
		return value / 1000.0, true
	case from == "mg" && to == "mcg":
		return value * 1000.0, true
	case from == "g" && to == "mg":
		return value * 1000.0, true
	case from == "mg" && to == "g":
		return value / 1000.0, true
	}
	return value, false
}

// unitSuffixes in match order; _mcg before _mg before _g so the longest
// suffix wins.
var unitSuffixes = []struct {
	suffix string
	unit   string
}{
	{"_kcal", "kcal"},
	{"_mcg_rae", "mcg"},
	{"_mcg_dfe", "mcg"},
	{"_mcg", "mcg"},
	{"_mg_ne", "mg"},
	{"_mg", "mg"},
	{"_g", "g"},
}

// UnitFromKey infers the storage unit of a canonical nutrient key from its
// suffix. Keys without a unit suffix are ratios and return "".
func UnitFromKey(key string) string {
	k := strings.ToLower(key)
	for _, s := range unitSuffixes {
		if strings.HasSuffix(k, s.suffix) {
			return s.unit
		}
	}
	return ""
}

// StripUnitSuffix removes the unit suffix from a canonical key, leaving the
// base nutrient name used for cross-key matching.
func StripUnitSuffix(key string) string {
	k := strings.ToLower(key)
	for _, s := range unitSuffixes {
		if strings.HasSuffix(k, s.suffix) {
			return strings.TrimSuffix(k, s.suffix)
		}
	}
	return k
}
