package controllers

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/shivtchandra/food-analysis/models"
	"github.com/shivtchandra/food-analysis/services"
)

// NutrientController serves the batch resolution endpoint.
type NutrientController struct {
	agg         *services.Aggregator
	development bool
}

func NewNutrientController(agg *services.Aggregator, development bool) *NutrientController {
	return &NutrientController{agg: agg, development: development}
}

type runNutrientsRequest struct {
	Items []models.NutrientItem `json:"items" binding:"required"`
}

// POST /api/run_nutrients  {"items":[{"name":"apple","quantity":2}]}
func (nc *NutrientController) RunNutrients(c *gin.Context) {
	var req runNutrientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		nc.fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	report, err := nc.agg.Run(c.Request.Context(), req.Items)
	if err != nil {
		nc.fail(c, http.StatusInternalServerError, "run_nutrients failed", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// fail emits the single structured batch error shape; diagnostic detail is
// only included for development configurations.
func (nc *NutrientController) fail(c *gin.Context, status int, msg string, err error) {
	body := gin.H{"error": msg}
	if nc.development && err != nil {
		body["detail"] = err.Error()
		body["trace"] = string(debug.Stack())
	}
	c.JSON(status, body)
}
