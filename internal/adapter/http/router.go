package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires the reporting endpoints. Everything under /api requires the
// bearer token; /health is open for liveness probes.
func NewRouter(handler *Handler, apiToken string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "ok")
	})

	api := r.Group("/api", AuthMiddleware(apiToken))
	api.GET("/admin/investments", handler.ListAllInvestments)
	api.GET("/investments", handler.ListUserInvestments)
	api.GET("/investments/summary", handler.GetClaimableSummary)

	return r
}
