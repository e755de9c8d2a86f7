package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivtchandra/food-analysis/models"
)

func countingTier(name string, calls *int, result TierResult) Tier {
	return Tier{
		Name: name,
		Resolve: func(context.Context, string) TierResult {
			*calls++
			return result
		},
	}
}

func TestResolveStopsAtFirstSuccess(t *testing.T) {
	var first, second, third int
	r := NewResolverFromTiers([]Tier{
		countingTier("a", &first, TierResult{
			Nutrients:  models.NutrientVector{models.KeyCalories: 52},
			Provenance: models.Provenance{Source: models.SourceLocalCache},
			OK:         true,
		}),
		countingTier("b", &second, TierResult{OK: true}),
		countingTier("c", &third, TierResult{OK: true}),
	})

	res := r.Resolve(context.Background(), "apple")
	assert.True(t, res.OK)
	assert.Equal(t, models.SourceLocalCache, res.Provenance.Source)
	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second) // lower tiers never invoked
	assert.Equal(t, 0, third)
}

func TestResolveFallsThroughMisses(t *testing.T) {
	var first, second int
	r := NewResolverFromTiers([]Tier{
		countingTier("a", &first, TierResult{}),
		countingTier("b", &second, TierResult{
			Nutrients:  models.NutrientVector{models.KeyCalories: 700},
			Provenance: models.Provenance{Source: models.SourceHeuristic},
			OK:         true,
		}),
	})

	res := r.Resolve(context.Background(), "pizza")
	assert.True(t, res.OK)
	assert.Equal(t, models.SourceHeuristic, res.Provenance.Source)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestResolveAllMiss(t *testing.T) {
	r := NewResolverFromTiers([]Tier{
		{Name: "never", Resolve: func(context.Context, string) TierResult { return TierResult{} }},
	})
	res := r.Resolve(context.Background(), "anything")
	assert.False(t, res.OK)
	assert.Equal(t, models.SourceNone, res.Provenance.Source)
}

// The standard cascade with external tiers disabled must terminate at the
// heuristic for unknown names and at the local matcher for known ones.
func TestStandardCascade(t *testing.T) {
	matcher := NewLocalMatcher(testStore(), 16)
	fdc := NewFDCService("", NewFDCCache(filepath.Join(t.TempDir(), "cache.json")))
	gemini := NewGeminiService("", "test-model")
	r := NewResolver(matcher, fdc, gemini)

	res := r.Resolve(context.Background(), "apple")
	require.True(t, res.OK)
	assert.Equal(t, models.SourceLocalCache, res.Provenance.Source)
	assert.Equal(t, 100, res.Provenance.Score)
	assert.InDelta(t, 52, res.Nutrients[models.KeyCalories], 1e-9)

	res = r.Resolve(context.Background(), "Unknown Exotic Dish 42")
	require.True(t, res.OK)
	assert.Equal(t, models.SourceHeuristic, res.Provenance.Source)
	assert.InDelta(t, 350, res.Nutrients[models.KeyCalories], 1e-9)
}

func TestClosestMatchTierSubsumedByGoodMatch(t *testing.T) {
	// The closest-match pass runs after the good-match pass but uses a
	// higher score floor, so any name it would accept has already resolved
	// one tier up and closest_match never surfaces through the cascade.
	// The tier itself still tags closest_match when invoked on its own.
	store := NewFoodStore([]models.FoodEntry{
		{Name: "Vegetable Pulao Rice", Norm: "vegetable pulao rice", Nutrients: models.NutrientVector{models.KeyCalories: 210}},
	})
	matcher := NewLocalMatcher(store, 16)
	fdc := NewFDCService("", NewFDCCache(filepath.Join(t.TempDir(), "cache.json")))
	gemini := NewGeminiService("", "test-model")
	r := NewResolver(matcher, fdc, gemini)

	var closest Tier
	for _, tier := range r.tiers {
		if tier.Name == "closest" {
			closest = tier
		}
	}
	require.NotNil(t, closest.Resolve)

	// Token permutation so the exact and substring passes miss.
	res := closest.Resolve(context.Background(), "rice pulao vegetable")
	require.True(t, res.OK)
	assert.Equal(t, models.SourceClosestMatch, res.Provenance.Source)
	assert.InDelta(t, 210, res.Nutrients[models.KeyCalories], 1e-9)

	res = r.Resolve(context.Background(), "rice pulao vegetable")
	require.True(t, res.OK)
	assert.Equal(t, models.SourceLocalCache, res.Provenance.Source)
}
