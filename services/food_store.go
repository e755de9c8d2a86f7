package services

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shivtchandra/food-analysis/models"
	"github.com/shivtchandra/food-analysis/utils"
)

// FoodStore holds the local food dataset: built once at startup, read-only
// afterwards, stable iteration order.
type FoodStore struct {
	entries []models.FoodEntry
}

// NewFoodStore wraps an already-built entry list, mainly for tests.
func NewFoodStore(entries []models.FoodEntry) *FoodStore {
	return &FoodStore{entries: entries}
}

// LoadFoodStore reads the static dataset. Each record is a flat object whose
// column names vary by source export, so nutrient columns are matched by
// keyword rather than exact name.
func LoadFoodStore(path string) (*FoodStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading foods dataset %s: %w", path, err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing foods dataset %s: %w", path, err)
	}

	entries := make([]models.FoodEntry, 0, len(raw))
	for _, item := range raw {
		name := stringField(item, "food_name")
		if name == "" {
			name = stringField(item, "description")
		}
		if name == "" {
			continue
		}

		nutrients := models.NutrientVector{}
		for k, v := range item {
			amt, ok := asFloat(v)
			if !ok {
				continue
			}
			kl := strings.ToLower(k)
			switch {
			case strings.Contains(kl, "energy") || strings.Contains(kl, "calorie"):
				nutrients[models.KeyCalories] = amt
			case strings.Contains(kl, "protein"):
				nutrients[models.KeyProtein] = amt
			case strings.Contains(kl, "carbohydrate") || strings.Contains(kl, "carbs"):
				nutrients[models.KeyCarbohydrate] = amt
			case strings.Contains(kl, "fat") && !strings.Contains(kl, "saturated"):
				nutrients[models.KeyFat] = amt
			}
		}

		name = strings.TrimSpace(name)
		entries = append(entries, models.FoodEntry{
			Name:      name,
			Norm:      utils.NormalizeName(name),
			Nutrients: nutrients.Sanitize(),
		})
	}

	return &FoodStore{entries: entries}, nil
}

// Entries exposes the shared read-only list. Callers must not mutate it.
func (s *FoodStore) Entries() []models.FoodEntry {
	return s.entries
}

// Len reports how many foods were loaded.
func (s *FoodStore) Len() int {
	return len(s.entries)
}

// SearchSubstring returns up to limit entries whose normalized name contains
// the normalized query.
func (s *FoodStore) SearchSubstring(query string, limit int) []models.FoodEntry {
	qn := utils.NormalizeName(query)
	if qn == "" {
		return nil
	}
	var out []models.FoodEntry
	for _, e := range s.entries {
		if strings.Contains(e.Norm, qn) {
			out = append(out, e)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
