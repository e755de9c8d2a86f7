package services

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shivtchandra/food-analysis/models"
	"github.com/shivtchandra/food-analysis/utils"
)

// SummaryService computes personalized daily summaries from caller-supplied
// meal logs. Nothing is persisted; job state lives in memory keyed by
// (user, date), so re-submitting a day simply recomputes it.
type SummaryService struct {
	mu   sync.Mutex
	jobs map[string]*models.SummaryJob
}

// NewSummaryService creates an empty job registry.
func NewSummaryService() *SummaryService {
	return &SummaryService{jobs: make(map[string]*models.SummaryJob)}
}

func jobKey(userID, date string) string {
	return userID + "|" + date
}

// Start queues a summary computation and returns immediately. The job runs
// on its own goroutine; poll Status for the result.
func (s *SummaryService) Start(userID, date string, logs []models.MealLogEntry, profile models.Profile) string {
	id := uuid.NewString()
	key := jobKey(userID, date)

	s.mu.Lock()
	s.jobs[key] = &models.SummaryJob{ID: id, Status: "pending"}
	s.mu.Unlock()

	go func() {
		summary := buildDailySummary(date, logs, profile)
		s.mu.Lock()
		defer s.mu.Unlock()
		if job, ok := s.jobs[key]; ok && job.ID == id {
			job.Status = "complete"
			job.Summary = summary
		}
	}()

	return id
}

// Status returns the job for (user, date); ok is false when none was queued.
func (s *SummaryService) Status(userID, date string) (models.SummaryJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobKey(userID, date)]
	if !ok {
		return models.SummaryJob{}, false
	}
	return *job, true
}

func buildDailySummary(date string, logs []models.MealLogEntry, profile models.Profile) *models.DailySummary {
	targets := utils.TargetsFromProfile(profile)
	totals, meals := sumMealLogs(logs)

	gaps := map[string]int{
		"calories_gap":  int(math.Round(totals.Calories - float64(targets.CalorieTarget))),
		"protein_gap_g": int(math.Round(totals.ProteinG - targets.ProteinG)),
		"carb_gap_g":    int(math.Round(totals.CarbsG - targets.CarbG)),
		"fat_gap_g":     int(math.Round(totals.FatsG - targets.FatG)),
	}

	top := make([]models.SummaryMeal, len(meals))
	copy(top, meals)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Calories > top[j].Calories
	})
	if len(top) > 3 {
		top = top[:3]
	}

	return &models.DailySummary{
		Date:            date,
		ProfileUsed:     targets,
		Totals:          totals,
		GapsVsTarget:    gaps,
		TopMealsByCal:   top,
		Recommendations: makeRecommendations(totals, targets),
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}

// sumMealLogs totals the supplied day. Logs may carry a nested macros vector
// or flat gram fields; both shapes are accepted.
func sumMealLogs(logs []models.MealLogEntry) (models.DayTotals, []models.SummaryMeal) {
	var totals models.DayTotals
	meals := make([]models.SummaryMeal, 0, len(logs))

	for _, l := range logs {
		name := l.Item
		if name == "" {
			name = l.Name
		}
		if name == "" {
			name = "Meal"
		}

		prot := pickAmount(l.Macros, l.ProteinG, models.KeyProtein, "protein_g")
		carbs := pickAmount(l.Macros, l.CarbsG, "carbs_g", models.KeyCarbohydrate)
		fats := pickAmount(l.Macros, l.FatsG, "fats_g", models.KeyFat)

		totals.Calories += l.Calories
		totals.ProteinG += prot
		totals.CarbsG += carbs
		totals.FatsG += fats

		meals = append(meals, models.SummaryMeal{
			Item:     name,
			Calories: int(math.Round(l.Calories)),
			ProteinG: round1(prot),
			CarbsG:   round1(carbs),
			FatsG:    round1(fats),
		})
	}

	totals.Calories = round1(totals.Calories)
	totals.ProteinG = round1(totals.ProteinG)
	totals.CarbsG = round1(totals.CarbsG)
	totals.FatsG = round1(totals.FatsG)
	return totals, meals
}

// pickAmount reads a macro from the nested vector under any of the accepted
// keys, falling back to the flat top-level value when none is set.
func pickAmount(macros models.NutrientVector, flat float64, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := macros[k]; ok && v != 0 {
			return v
		}
	}
	return flat
}

func makeRecommendations(tot models.DayTotals, targets models.DailyTargets) []string {
	var recs []string

	calGap := int(math.Round(tot.Calories - float64(targets.CalorieTarget)))
	if calGap > 150 {
		recs = append(recs, fmt.Sprintf("Calories %d kcal over target — trim portion size at dinner or swap a sugary drink for water.", calGap))
	} else if calGap < -150 {
		recs = append(recs, fmt.Sprintf("Calories %d kcal under target — add a snack (e.g., yogurt + fruit) or increase carbs at lunch.", -calGap))
	}

	if pGap := int(math.Round(targets.ProteinG - tot.ProteinG)); pGap > 15 {
		recs = append(recs, fmt.Sprintf("Protein is low by ~%d g — add eggs, paneer, dal, chicken, or Greek yogurt.", pGap))
	}
	if tot.CarbsG > targets.CarbG+40 {
		recs = append(recs, "Carbs were quite high — consider switching one refined-carb item to legumes/veggies.")
	}
	if tot.FatsG > targets.FatG+20 {
		recs = append(recs, "Fats were high — reduce fried/oily items; prefer nuts/seeds in measured portions.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Great balance today — keep portions steady and prioritize whole foods.")
	}
	return recs
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
