package services

import (
	"math"
	"sort"
	"strings"

	"github.com/shivtchandra/food-analysis/config"
	"github.com/shivtchandra/food-analysis/models"
	"github.com/shivtchandra/food-analysis/utils"
)

// Percent-of-DV category boundaries.
const (
	dvHighPercent     = 20
	dvModeratePercent = 5
)

// DVService turns aggregated nutrient totals into percent-of-daily-value
// figures. Totals arrive with heterogeneous upstream naming, so DV keys are
// matched against them by exact key, then suffix-stripped base name, then
// substring containment; units are inferred purely from key suffixes.
type DVService struct {
	table []config.DVEntry
}

// NewDVService wraps a DV reference table. The table's order drives
// tie-breaking in rankings.
func NewDVService(table []config.DVEntry) *DVService {
	return &DVService{table: table}
}

// PercentOfDV computes the percent figure for every key in the reference
// table. Keys with no usable match in totals get a nil percent and category
// "unknown".
func (s *DVService) PercentOfDV(totals models.NutrientVector) map[string]models.PercentDV {
	out := make(map[string]models.PercentDV, len(s.table))
	for _, ref := range s.table {
		out[ref.Key] = s.percentFor(ref, totals)
	}
	return out
}

func (s *DVService) percentFor(ref config.DVEntry, totals models.NutrientVector) models.PercentDV {
	unknown := models.PercentDV{Category: "unknown"}
	if ref.Amount <= 0 {
		return unknown
	}

	totalKey, ok := matchTotalsKey(ref.Key, totals)
	if !ok {
		return unknown
	}

	fromUnit := utils.UnitFromKey(totalKey)
	toUnit := utils.UnitFromKey(ref.Key)
	converted, ok := utils.ConvertUnit(totals[totalKey], fromUnit, toUnit)
	if !ok {
		return unknown
	}

	percent := math.Round(converted/ref.Amount*100*10) / 10
	return models.PercentDV{Percent: &percent, Category: classifyPercent(percent)}
}

// matchTotalsKey finds the best totals key for a DV reference key. Exact
// match wins, then suffix-stripped base-name equality, then substring
// containment. Candidate keys are scanned in sorted order so the outcome is
// deterministic.
func matchTotalsKey(refKey string, totals models.NutrientVector) (string, bool) {
	if _, ok := totals[refKey]; ok {
		return refKey, true
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	refBase := utils.StripUnitSuffix(refKey)
	for _, k := range keys {
		if utils.StripUnitSuffix(k) == refBase {
			return k, true
		}
	}
	for _, k := range keys {
		kBase := utils.StripUnitSuffix(k)
		if kBase == "" {
			continue
		}
		if strings.Contains(kBase, refBase) || strings.Contains(refBase, kBase) {
			return k, true
		}
	}
	return "", false
}

func classifyPercent(percent float64) string {
	switch {
	case percent >= dvHighPercent:
		return "high"
	case percent >= dvModeratePercent:
		return "moderate"
	default:
		return "low"
	}
}

// TopLacking ranks the n most deficient nutrients: non-nil percents sorted
// ascending, ties kept in reference-table order.
func (s *DVService) TopLacking(percents map[string]models.PercentDV, n int) []models.LackingNutrient {
	var ranked []models.LackingNutrient
	for _, ref := range s.table {
		p, ok := percents[ref.Key]
		if !ok || p.Percent == nil {
			continue
		}
		ranked = append(ranked, models.LackingNutrient{Key: ref.Key, Percent: *p.Percent})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percent < ranked[j].Percent
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
