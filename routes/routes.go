package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shivtchandra/food-analysis/controllers"
	"github.com/shivtchandra/food-analysis/middlewares"
)

// SetupRouter wires middleware and endpoints around the injected
// controllers.
func SetupRouter(
	nutrients *controllers.NutrientController,
	foods *controllers.FoodController,
	summaries *controllers.SummaryController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(cors.Default())

	r.GET("/ping", controllers.Ping)

	api := r.Group("/api")
	{
		api.POST("/run_nutrients", nutrients.RunNutrients)
		api.GET("/food/search_local", foods.SearchLocal)
		api.POST("/summarizeDaily", summaries.StartDailySummary)
		api.GET("/summarizeDaily/status", summaries.DailySummaryStatus)
	}

	return r
}
