package services

import (
	"github.com/shivtchandra/food-analysis/models"
	"github.com/shivtchandra/food-analysis/utils"
)

type nutrientTarget struct {
	key          string
	expectedUnit string
}

// FoodData Central nutrient names → canonical key and the unit that key
// stores. Source values in other units are converted with fixed linear
// factors; unrecognized unit pairs pass through unconverted.
var fdcNutrientMapping = map[string]nutrientTarget{
	"Energy":                         {models.KeyCalories, "kcal"},
	"Energy (kcal)":                  {models.KeyCalories, "kcal"},
	"Protein":                        {models.KeyProtein, "g"},
	"Total lipid (fat)":              {models.KeyFat, "g"},
	"Fat":                            {models.KeyFat, "g"},
	"Fatty acids, total saturated":   {"saturated_fat_g", "g"},
	"Carbohydrate, by difference":    {models.KeyCarbohydrate, "g"},
	"Carbohydrate":                   {models.KeyCarbohydrate, "g"},
	"Fiber, total dietary":           {models.KeyFiber, "g"},
	"Sugars, total including NLEA":   {models.KeySugar, "g"},
	"Sugars, total":                  {models.KeySugar, "g"},
	"Calcium, Ca":                    {"calcium_mg", "mg"},
	"Iron, Fe":                       {"iron_mg", "mg"},
	"Magnesium, Mg":                  {"magnesium_mg", "mg"},
	"Phosphorus, P":                  {"phosphorus_mg", "mg"},
	"Potassium, K":                   {"potassium_mg", "mg"},
	"Sodium, Na":                     {models.KeySodium, "mg"},
	"Zinc, Zn":                       {"zinc_mg", "mg"},
	"Selenium, Se":                   {"selenium_mcg", "mcg"},
	"Vitamin C, total ascorbic acid": {"vitamin_C_mg", "mg"},
	"Vitamin D (D2 + D3)":            {"vitamin_D_mcg", "mcg"},
	"Vitamin A, RAE":                 {"vitamin_A_mcg_RAE", "mcg"},
	"Vitamin E (alpha-tocopherol)":   {"vitamin_E_mg", "mg"},
	"Vitamin K (phylloquinone)":      {"vitamin_K_mcg", "mcg"},
	"Thiamin":                        {"thiamin_mg", "mg"},
	"Riboflavin":                     {"riboflavin_mg", "mg"},
	"Niacin":                         {"niacin_mg_NE", "mg"},
	"Vitamin B-6":                    {"vitamin_B6_mg", "mg"},
	"Folate, total":                  {"folate_mcg_DFE", "mcg"},
	"Folate, DFE":                    {"folate_mcg_DFE", "mcg"},
	"Vitamin B-12":                   {"vitamin_B12_mcg", "mcg"},
	"Biotin":                         {"biotin_mcg", "mcg"},
	"Pantothenic acid":               {"pantothenic_acid_mg", "mg"},
	"Cholesterol":                    {"cholesterol_mg", "mg"},
	"Cholesterol, total":             {"cholesterol_mg", "mg"},
}

// Branded foods often carry only the printed label figures, already in the
// canonical units.
var fdcLabelMapping = map[string]string{
	"calories":      models.KeyCalories,
	"protein":       models.KeyProtein,
	"fat":           models.KeyFat,
	"saturatedFat":  "saturated_fat_g",
	"transFat":      "trans_fat_g",
	"cholesterol":   "cholesterol_mg",
	"sodium":        models.KeySodium,
	"carbohydrates": models.KeyCarbohydrate,
	"fiber":         models.KeyFiber,
	"sugars":        models.KeySugar,
	"calcium":       "calcium_mg",
	"iron":          "iron_mg",
}

// extractNutrients maps an FDC food detail record onto the canonical key
// space. When no line-item nutrients are recognized it falls back to the
// label-nutrients shape.
func extractNutrients(detail *fdcFoodDetail) models.NutrientVector {
	out := models.NutrientVector{}
	if detail == nil {
		return out
	}

	for _, comp := range detail.FoodNutrients {
		name := comp.Nutrient.Name
		if name == "" {
			name = comp.NutrientName
		}
		if name == "" {
			name = comp.Name
		}
		amount := comp.Amount
		if amount == nil {
			amount = comp.Value
		}
		if name == "" || amount == nil {
			continue
		}

		target, ok := fdcNutrientMapping[name]
		if !ok {
			continue
		}
		unit := comp.Nutrient.UnitName
		if unit == "" {
			unit = comp.UnitName
		}

		amt := *amount
		if unit != "" {
			// Unrecognized pairs keep the raw amount.
			if converted, ok := utils.ConvertUnit(amt, unit, target.expectedUnit); ok {
				amt = converted
			}
		}
		out[target.key] = amt
	}

	if len(out) == 0 {
		for name, ln := range detail.LabelNutrients {
			key, ok := fdcLabelMapping[name]
			if !ok {
				continue
			}
			out[key] = ln.Value
		}
	}

	return out.Sanitize()
}
