package handlers

import (
	"pitchly_backend/internal/middleware"
	"pitchly_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      base,
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics", middleware.AuthMiddleware())
	{
		analytics.GET("/summary", h.Summary)
	}
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	summary, err := h.analyticsService.Summary(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, summary)
}
