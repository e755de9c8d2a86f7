package utils

import (
	"errors"
	"math"
	"strings"

	"github.com/shivtchandra/food-analysis/models"
)

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	h := heightCm / 100.0
	return weightKg / (h * h), nil
}

// BMRMifflinStJeor computes basal metabolic rate. Sex only matters for its
// first letter ("m..." adds 5, anything else subtracts 161).
func BMRMifflinStJeor(sex string, age, heightCm, weightKg float64) float64 {
	s := -161.0
	if strings.HasPrefix(strings.ToLower(sex), "m") {
		s = 5
	}
	return 10*weightKg + 6.25*heightCm - 5*age + s
}

var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"very":      1.725,
	"extra":     1.9,
}

// ActivityMultiplier maps an activity level to its TDEE multiplier,
// defaulting to light.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[strings.ToLower(level)]; ok {
		return m
	}
	return 1.375
}

func isCutGoal(goal string) bool {
	switch goal {
	case "cut", "fatloss", "weight loss", "lose":
		return true
	}
	return false
}

func isBulkGoal(goal string) bool {
	switch goal {
	case "bulk", "gain", "muscle gain":
		return true
	}
	return false
}

// TargetsFromProfile derives calorie and macro targets for one day.
// Missing profile fields get sensible defaults so the summary still works
// for anonymous users.
func TargetsFromProfile(p models.Profile) models.DailyTargets {
	sex := p.Sex
	if sex == "" {
		sex = "male"
	}
	age := p.Age
	if age <= 0 {
		age = 25
	}
	heightCm := p.HeightCm
	if heightCm <= 0 {
		heightCm = 170
	}
	weightKg := p.WeightKg
	if weightKg <= 0 {
		weightKg = 70
	}
	activity := p.ActivityLevel
	if activity == "" {
		activity = "light"
	}
	goal := strings.ToLower(strings.TrimSpace(p.Goal))
	if goal == "" {
		goal = "maintain"
	}

	bmr := BMRMifflinStJeor(sex, age, heightCm, weightKg)
	tdee := bmr * ActivityMultiplier(activity)

	calTarget := tdee
	switch {
	case isCutGoal(goal):
		calTarget = tdee - 400
	case isBulkGoal(goal):
		calTarget = tdee + 300
	}

	// Protein 1.6 g/kg (1.8 on a cut), fat 0.8 g/kg, carbs get the rest of
	// the calorie budget via the 4/4/9 rule.
	protPerKg := 1.6
	if isCutGoal(goal) {
		protPerKg = 1.8
	}
	proteinG := math.Round(protPerKg * weightKg)
	fatG := math.Round(0.8 * weightKg)
	kcalPF := proteinG*4 + fatG*9
	carbG := math.Max(0, math.Round((calTarget-kcalPF)/4))

	return models.DailyTargets{
		BMR:           int(math.Round(bmr)),
		TDEE:          int(math.Round(tdee)),
		CalorieTarget: int(math.Max(1200, math.Round(calTarget))),
		ProteinG:      proteinG,
		FatG:          fatG,
		CarbG:         carbG,
		Goal:          goal,
		ActivityLevel: activity,
		WeightKg:      weightKg,
		HeightCm:      heightCm,
		Age:           age,
		Sex:           sex,
	}
}
