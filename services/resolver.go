package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shivtchandra/food-analysis/models"
)

// Thresholds for the two local-match regimes: a low bar for a good match,
// and a looser last-resort pass that still beats guessing.
const (
	localMatchThreshold   = 40
	closestMatchThreshold = 60
)

// TierResult is a tagged outcome from one resolution tier. Nutrients are
// unscaled (per reference serving).
type TierResult struct {
	Nutrients  models.NutrientVector
	Provenance models.Provenance
	OK         bool
}

// Tier is one strategy in the resolution cascade.
type Tier struct {
	Name    string
	Resolve func(ctx context.Context, name string) TierResult
}

// Resolver runs an ordered list of tiers and stops at the first success.
// Tiers never blend partial results; the terminal heuristic tier guarantees
// that every name resolves to something.
type Resolver struct {
	tiers []Tier
}

// NewResolver assembles the standard cascade:
// local (40) → closest local (60) → FDC → Gemini → heuristic.
func NewResolver(matcher *LocalMatcher, fdc *FDCService, gemini *GeminiService) *Resolver {
	tiers := []Tier{
		{
			Name: "local",
			Resolve: func(_ context.Context, name string) TierResult {
				entry, score, ok := matcher.Match(name, localMatchThreshold)
				if !ok {
					return TierResult{}
				}
				return TierResult{
					Nutrients:  entry.Nutrients,
					Provenance: models.Provenance{Source: models.SourceLocalCache, Score: score},
					OK:         true,
				}
			},
		},
		{
			Name: "closest",
			Resolve: func(_ context.Context, name string) TierResult {
				entry, score, ok := matcher.Match(name, closestMatchThreshold)
				if !ok {
					return TierResult{}
				}
				return TierResult{
					Nutrients:  entry.Nutrients,
					Provenance: models.Provenance{Source: models.SourceClosestMatch, Score: score},
					OK:         true,
				}
			},
		},
		{
			Name: "fdc",
			Resolve: func(ctx context.Context, name string) TierResult {
				nutrients, prov, err := fdc.Lookup(ctx, name)
				if err != nil {
					if !errors.Is(err, ErrFDCDisabled) {
						slog.Warn("fdc lookup failed", "item", name, "error", err)
					}
					return TierResult{}
				}
				if len(nutrients) == 0 {
					return TierResult{}
				}
				return TierResult{Nutrients: nutrients, Provenance: prov, OK: true}
			},
		},
		{
			Name: "llm",
			Resolve: func(ctx context.Context, name string) TierResult {
				nutrients, err := gemini.Estimate(ctx, name)
				if err != nil {
					if !errors.Is(err, ErrGeminiDisabled) {
						slog.Warn("gemini estimate failed", "item", name, "error", err)
					}
					return TierResult{}
				}
				return TierResult{
					Nutrients:  nutrients,
					Provenance: models.Provenance{Source: models.SourceLLMFallback},
					OK:         true,
				}
			},
		},
		{
			Name: "heuristic",
			Resolve: func(_ context.Context, name string) TierResult {
				return TierResult{
					Nutrients:  HeuristicEstimate(name),
					Provenance: models.Provenance{Source: models.SourceHeuristic},
					OK:         true,
				}
			},
		},
	}
	return &Resolver{tiers: tiers}
}

// NewResolverFromTiers builds a resolver over an explicit tier list, mainly
// for tests.
func NewResolverFromTiers(tiers []Tier) *Resolver {
	return &Resolver{tiers: tiers}
}

// Resolve runs the cascade for one name. A higher tier's success
// short-circuits everything below it.
func (r *Resolver) Resolve(ctx context.Context, name string) TierResult {
	for _, tier := range r.tiers {
		if res := tier.Resolve(ctx, name); res.OK {
			return res
		}
	}
	return TierResult{Provenance: models.Provenance{Source: models.SourceNone}}
}
