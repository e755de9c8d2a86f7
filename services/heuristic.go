package services

import (
	"strings"

	"github.com/shivtchandra/food-analysis/models"
)

// Keyword calorie bases, checked in order; the first substring hit wins.
var heuristicBases = []struct {
	keyword string
	kcal    float64
}{
	{"salad", 220},
	{"biryani", 420},
	{"pizza", 700},
	{"paneer", 450},
}

const heuristicDefaultKcal = 350

// Macro shares of the calorie base: protein 12%, carbs 45%, fat 43%,
// converted at 4/4/9 kcal per gram.
const (
	heuristicProteinShare = 0.12
	heuristicCarbShare    = 0.45
	heuristicFatShare     = 0.43
)

// HeuristicEstimate is the terminal fallback. It classifies a name by
// keyword and derives macros from the calorie base. It never fails, so
// every item ends up with some nutrient vector.
func HeuristicEstimate(name string) models.NutrientVector {
	base := float64(heuristicDefaultKcal)
	low := strings.ToLower(name)
	for _, h := range heuristicBases {
		if strings.Contains(low, h.keyword) {
			base = h.kcal
			break
		}
	}

	return models.NutrientVector{
		models.KeyCalories:     base,
		models.KeyProtein:      clampZero(base * heuristicProteinShare / 4),
		models.KeyCarbohydrate: clampZero(base * heuristicCarbShare / 4),
		models.KeyFat:          clampZero(base * heuristicFatShare / 9),
	}
}
