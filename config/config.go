package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup from the
// environment (optionally seeded from a .env file).
type Config struct {
	Port string
	Env  string // "development" enables diagnostic traces in error bodies

	FoodsDataPath string
	DVTablePath   string // optional YAML override for the DV reference table

	FDCAPIKey    string
	FDCCachePath string

	GeminiAPIKey string
	GeminiModel  string

	ResolverWorkers int
	MatchCacheSize  int
}

// Load reads configuration from the environment. A missing .env file is not
// an error; containers inject the environment directly.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "production"),
		FoodsDataPath:   getEnv("FOODS_DATA_PATH", "foods_data.json"),
		DVTablePath:     os.Getenv("DV_TABLE_PATH"),
		FDCAPIKey:       os.Getenv("FDC_API_KEY"),
		FDCCachePath:    getEnv("FDC_CACHE_PATH", "fdc_cache.json"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ResolverWorkers: getEnvInt("RESOLVER_WORKERS", 4),
		MatchCacheSize:  getEnvInt("MATCH_CACHE_SIZE", 2048),
	}

	if cfg.FDCAPIKey == "" {
		slog.Warn("FDC_API_KEY not set; FoodData Central lookups disabled")
	}
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY not set; generative estimates disabled")
	}
	return cfg
}

// IsDevelopment reports whether diagnostic detail may be returned to clients.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer env var", "key", key, "value", v)
		return fallback
	}
	return n
}
