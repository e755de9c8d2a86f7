package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shivtchandra/food-analysis/models"
	"github.com/shivtchandra/food-analysis/services"
)

// SummaryController serves the asynchronous daily-summary endpoints.
type SummaryController struct {
	summaries *services.SummaryService
}

func NewSummaryController(summaries *services.SummaryService) *SummaryController {
	return &SummaryController{summaries: summaries}
}

type summarizeDailyRequest struct {
	UserID  string                `json:"user_id" binding:"required"`
	Date    string                `json:"date" binding:"required"`
	Logs    []models.MealLogEntry `json:"logs"`
	Profile models.Profile        `json:"profile"`
}

// POST /api/summarizeDaily
func (sc *SummaryController) StartDailySummary(c *gin.Context) {
	var req summarizeDailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id & date required"})
		return
	}

	id := sc.summaries.Start(req.UserID, req.Date, req.Logs, req.Profile)
	c.JSON(http.StatusOK, gin.H{"status": "queued", "job_id": id})
}

// GET /api/summarizeDaily/status?user_id=u1&date=2025-10-05
func (sc *SummaryController) DailySummaryStatus(c *gin.Context) {
	userID := c.Query("user_id")
	date := c.Query("date")
	if userID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id & date required"})
		return
	}

	job, ok := sc.summaries.Status(userID, date)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "pending"})
		return
	}
	c.JSON(http.StatusOK, job)
}
