package models

// Provenance sources, in cascade priority order.
const (
	SourceLocalCache     = "local_cache"
	SourceClosestMatch   = "closest_match"
	SourceFDC            = "fdc"
	SourceLLMFallback    = "llm_fallback"
	SourceHeuristic      = "heuristic"
	SourceManualCalories = "manual_calories"
	SourceNone           = "none"

	// Failure sources recorded by the external resolver. They never reach a
	// final item result; the cascade keeps going.
	SourceDisabled     = "disabled"
	SourceLookupFailed = "lookup_failed"
	SourceNoResults    = "no_results"
)

// Provenance records which tier produced a nutrient vector and any metadata
// the tier had on hand.
type Provenance struct {
	Source      string `json:"source"`
	Score       int    `json:"score,omitempty"`
	FdcID       int64  `json:"fdcId,omitempty"`
	Description string `json:"description,omitempty"`

	ServingSize     float64 `json:"servingSize,omitempty"`
	ServingSizeUnit string  `json:"servingSizeUnit,omitempty"`
	HouseholdText   string  `json:"householdServingFullText,omitempty"`
}

// CacheEntry is what the external-lookup cache persists per normalized query.
// Nutrients are unscaled. Entries are written once and never expire: nutrient
// facts for a food name do not change within the cache's lifetime.
type CacheEntry struct {
	Nutrients  NutrientVector `json:"nutrients"`
	Provenance Provenance     `json:"provenance"`
	Timestamp  int64          `json:"timestamp"`
}
