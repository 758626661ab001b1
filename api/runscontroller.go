package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GOMDJ/shorts-art/store"
)

// RegisterRunRoutes registers run inspection endpoints.
func RegisterRunRoutes(r *gin.Engine, runs *store.Store) {
	g := r.Group("/api/runs")
	g.GET("", handleListRuns(runs))
	g.GET("/:id", handleGetRun(runs))
}

func handleListRuns(runs *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if runs == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run store not configured"})
			return
		}
		limit := 20
		if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 && v <= 200 {
			limit = v
		}

		ids, err := runs.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"run_ids": ids})
	}
}

func handleGetRun(runs *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if runs == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run store not configured"})
			return
		}
		rec, err := runs.GetRun(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}
