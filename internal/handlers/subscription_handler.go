package handlers

import (
	"pitchly_backend/internal/middleware"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/services"
	"pitchly_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	*BaseHandler
	billingService services.BillingService
	entitlement    services.EntitlementService
}

func NewSubscriptionHandler(base *BaseHandler, billingService services.BillingService, entitlement services.EntitlementService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:    base,
		billingService: billingService,
		entitlement:    entitlement,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/plans", h.Plans)

	// The payment provider posts here; it carries its own signature instead
	// of a bearer token.
	rg.POST("/billing/callback", h.Callback)

	billing := rg.Group("/billing", middleware.AuthMiddleware())
	{
		billing.POST("/checkout", h.Checkout)
		billing.GET("/history", h.Payments)
	}

	subs := rg.Group("/subscriptions", middleware.AuthMiddleware())
	{
		subs.GET("/can-create", h.Entitlement)
		subs.GET("/my", h.My)
		subs.POST("/cancel", h.Cancel)
	}
}

func (h *SubscriptionHandler) Plans(c *gin.Context) {
	plans, err := h.billingService.Plans(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"plans": plans})
}

func (h *SubscriptionHandler) Entitlement(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	ent, err := h.entitlement.Entitlement(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, ent)
}

func (h *SubscriptionHandler) My(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	sub, err := h.entitlement.EnsureSubscription(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, sub)
}

func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.billingService.Checkout(h.GetDB(c), userID, req.PlanName)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *SubscriptionHandler) Callback(c *gin.Context) {
	var data models.BillingCallbackData
	if err := c.ShouldBind(&data); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid callback payload: "+err.Error()))
		return
	}

	if err := h.billingService.HandleCallback(h.GetDB(c), &data); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"status": "ok"})
}

func (h *SubscriptionHandler) Payments(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	payments, err := h.billingService.History(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"payments": payments})
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	if err := h.billingService.Cancel(h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"message": "Subscription cancelled. Access continues until the end of the current period."})
}
