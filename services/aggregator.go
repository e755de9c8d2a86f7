package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/shivtchandra/food-analysis/models"
)

const topLackingCount = 8

// Aggregator resolves a batch of items through the cascade, scales each
// vector by quantity × portion multiplier, and accumulates totals. Items are
// independent, so they run on a bounded worker pool; the totals map and the
// FDC cache are the only shared mutable state.
type Aggregator struct {
	resolver *Resolver
	dv       *DVService
	workers  int
}

// NewAggregator builds the batch pipeline. workers bounds concurrent
// resolutions; values below 1 run sequentially.
func NewAggregator(resolver *Resolver, dv *DVService, workers int) *Aggregator {
	if workers < 1 {
		workers = 1
	}
	return &Aggregator{resolver: resolver, dv: dv, workers: workers}
}

// Run resolves every item and produces the batch report. Blank names are
// skipped outright. Item order is preserved in the results; totals are
// commutative so accumulation order does not matter.
func (a *Aggregator) Run(ctx context.Context, items []models.NutrientItem) (*models.NutrientReport, error) {
	results := make([]*models.ItemResult, len(items))
	totals := models.NutrientVector{}

	sem := make(chan struct{}, a.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}

		// Acquire before spawning so in-flight goroutines stay bounded
		// by the worker count even for very large batches.
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int, name string, item models.NutrientItem) {
			defer wg.Done()
			defer func() { <-sem }()

			res := a.resolveItem(ctx, idx, name, item)

			mu.Lock()
			results[idx] = res
			for k, v := range res.Macros {
				totals[k] += v
			}
			mu.Unlock()
		}(i, name, item)
	}
	wg.Wait()

	report := &models.NutrientReport{
		Results: make([]models.ItemResult, 0, len(items)),
		Totals:  totals,
	}
	for _, r := range results {
		if r != nil {
			report.Results = append(report.Results, *r)
		}
	}

	report.MacroSummary = summarizeMacros(totals)
	classified := a.dv.PercentOfDV(totals)
	report.PercentDVClass = classified
	report.PercentDV = make(map[string]*float64, len(classified))
	for k, v := range classified {
		report.PercentDV[k] = v.Percent
	}
	report.TopLacking = a.dv.TopLacking(classified, topLackingCount)

	return report, nil
}

// resolveItem runs one item through manual override or the cascade and
// scales the outcome. Scaling happens exactly once, here; the totals loop
// never re-scales.
func (a *Aggregator) resolveItem(ctx context.Context, idx int, name string, item models.NutrientItem) *models.ItemResult {
	qty := sanitizeFactor(item.Quantity)
	mult := qty * sanitizeFactor(item.PortionMult)

	var unscaled models.NutrientVector
	var prov models.Provenance
	if item.ManualCalories != nil {
		unscaled = models.NutrientVector{models.KeyCalories: *item.ManualCalories}
		prov = models.Provenance{Source: models.SourceManualCalories}
	} else {
		res := a.resolver.Resolve(ctx, name)
		unscaled, prov = res.Nutrients, res.Provenance
	}

	scaled := unscaled.Scaled(mult)
	return &models.ItemResult{
		ID:         fmt.Sprintf("item-%d", idx),
		Item:       name,
		Macros:     scaled,
		Calories:   scaled[models.KeyCalories],
		Quantity:   qty,
		Provenance: prov,
	}
}

// sanitizeFactor defaults missing or invalid quantities/multipliers to 1.
func sanitizeFactor(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 1
	}
	return *v
}

func summarizeMacros(totals models.NutrientVector) models.MacroSummary {
	round := func(key string) int {
		return int(math.Round(totals[key]))
	}
	return models.MacroSummary{
		Calories: round(models.KeyCalories),
		Protein:  round(models.KeyProtein),
		Carbs:    round(models.KeyCarbohydrate),
		Fat:      round(models.KeyFat),
		Fiber:    round(models.KeyFiber),
		Sugar:    round(models.KeySugar),
	}
}
