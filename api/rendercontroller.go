package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GOMDJ/shorts-art/processor"
	"github.com/GOMDJ/shorts-art/types"
)

// RegisterRenderRoutes registers the render submission endpoint.
func RegisterRenderRoutes(r *gin.Engine, proc *processor.Processor) {
	g := r.Group("/api/render")
	g.POST("", handleRender(proc))
}

// handleRender accepts a render request, assigns a run ID, and kicks off the
// pipeline asynchronously. Returns 202 Accepted with the run ID immediately.
func handleRender(proc *processor.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.RenderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload: " + err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.RunID == "" {
			req.RunID = uuid.NewString()
		}

		go func() {
			proc.ProcessRequest(context.Background(), req)
		}()

		c.JSON(http.StatusAccepted, gin.H{
			"status": "render started",
			"run_id": req.RunID,
		})
	}
}
