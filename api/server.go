// Package api exposes the render pipeline over HTTP.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/GOMDJ/shorts-art/processor"
	"github.com/GOMDJ/shorts-art/store"
)

// NewRouter constructs a Gin engine with registered routes. Store may be nil
// when Redis is not configured; run lookups then return 503.
func NewRouter(proc *processor.Processor, runs *store.Store) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery only, logging stays on the pipeline side.
	r.Use(gin.Recovery())

	RegisterRenderRoutes(r, proc)
	RegisterRunRoutes(r, runs)
	RegisterHealthRoutes(r)
	return r
}
