package routes

import (
	"pitchly_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// Register mounts the full API surface under /api/v1.
func Register(router *gin.Engine, h *handlers.AppHandlers) {
	api := router.Group("/api/v1")

	h.Auth.RegisterRoutes(api)
	h.User.RegisterRoutes(api)
	h.Proposal.RegisterRoutes(api)
	h.Subscription.RegisterRoutes(api)
	h.Template.RegisterRoutes(api)
	h.Analytics.RegisterRoutes(api)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
