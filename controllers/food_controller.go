package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shivtchandra/food-analysis/services"
)

const searchLocalLimit = 15

// FoodController serves lookups against the local food dataset.
type FoodController struct {
	store *services.FoodStore
}

func NewFoodController(store *services.FoodStore) *FoodController {
	return &FoodController{store: store}
}

// GET /api/food/search_local?q=rice
func (fc *FoodController) SearchLocal(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	matches := fc.store.SearchSubstring(q, searchLocalLimit)
	out := make([]gin.H, 0, len(matches))
	for _, m := range matches {
		row := gin.H{"name": m.Name}
		for k, v := range m.Nutrients {
			row[k] = v
		}
		out = append(out, row)
	}
	c.JSON(http.StatusOK, out)
}

// GET /ping
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
