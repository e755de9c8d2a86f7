package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DVEntry is one row of the FDA Daily Value reference table. The slice form
// keeps a stable iteration order for tie-breaking in rankings.
type DVEntry struct {
	Key    string  `yaml:"key"`
	Amount float64 `yaml:"amount"`
}

// FDA Daily Values used for percent-of-DV calculations. Units are encoded in
// the key suffixes (g, mg, mcg).
var fdaDailyValues = []DVEntry{
	{"total_fat_g", 78},
	{"saturated_fat_g", 20},
	{"cholesterol_mg", 300},
	{"sodium_mg", 2300},
	{"total_carbohydrate_g", 275},
	{"dietary_fiber_g", 28},
	{"added_sugars_g", 50},
	{"protein_g", 50},
	{"vitamin_D_mcg", 20},
	{"calcium_mg", 1300},
	{"iron_mg", 18},
	{"potassium_mg", 4700},
	{"vitamin_A_mcg_RAE", 900},
	{"vitamin_C_mg", 90},
	{"vitamin_E_mg", 15},
	{"vitamin_K_mcg", 120},
	{"thiamin_mg", 1.2},
	{"riboflavin_mg", 1.3},
	{"niacin_mg_NE", 16},
	{"vitamin_B6_mg", 1.7},
	{"folate_mcg_DFE", 400},
	{"vitamin_B12_mcg", 2.4},
	{"biotin_mcg", 30},
	{"pantothenic_acid_mg", 5},
	{"magnesium_mg", 420},
	{"zinc_mg", 11},
	{"selenium_mcg", 55},
}

// DVTable returns the DV reference rows. When path is non-empty the table is
// replaced wholesale by the YAML file, so deployments can pin a different
// revision of the reference without a rebuild.
func DVTable(path string) ([]DVEntry, error) {
	if path == "" {
		out := make([]DVEntry, len(fdaDailyValues))
		copy(out, fdaDailyValues)
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading DV table %s: %w", path, err)
	}
	var entries []DVEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing DV table %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("DV table %s is empty", path)
	}
	return entries, nil
}
