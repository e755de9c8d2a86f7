package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/shivtchandra/food-analysis/config"
	"github.com/shivtchandra/food-analysis/controllers"
	"github.com/shivtchandra/food-analysis/routes"
	"github.com/shivtchandra/food-analysis/services"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := services.LoadFoodStore(cfg.FoodsDataPath)
	if err != nil {
		slog.Warn("no local foods dataset loaded", "path", cfg.FoodsDataPath, "error", err)
		store = services.NewFoodStore(nil)
	} else {
		slog.Info("loaded local food entries", "count", store.Len())
	}

	dvTable, err := config.DVTable(cfg.DVTablePath)
	if err != nil {
		slog.Error("failed to load DV reference table", "error", err)
		os.Exit(1)
	}

	matcher := services.NewLocalMatcher(store, cfg.MatchCacheSize)
	fdc := services.NewFDCService(cfg.FDCAPIKey, services.NewFDCCache(cfg.FDCCachePath))
	gemini := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
	resolver := services.NewResolver(matcher, fdc, gemini)
	aggregator := services.NewAggregator(resolver, services.NewDVService(dvTable), cfg.ResolverWorkers)

	r := routes.SetupRouter(
		controllers.NewNutrientController(aggregator, cfg.IsDevelopment()),
		controllers.NewFoodController(store),
		controllers.NewSummaryController(services.NewSummaryService()),
	)

	slog.Info("starting server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
