package handlers

import (
	"net/http"

	"pitchly_backend/internal/middleware"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/services"
	"pitchly_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	*BaseHandler
	proposalService services.ProposalService
	entitlement     services.EntitlementService
}

func NewProposalHandler(base *BaseHandler, proposalService services.ProposalService, entitlement services.EntitlementService) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler:     base,
		proposalService: proposalService,
		entitlement:     entitlement,
	}
}

func (h *ProposalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	proposals := rg.Group("/proposals", middleware.AuthMiddleware())
	{
		proposals.POST("/generate", h.Generate)
		proposals.POST("/revise", h.Revise)
		proposals.GET("", h.List)
		proposals.GET("/:id", h.Get)
		proposals.PUT("/:id", h.Update)
		proposals.PATCH("/:id/status", h.ChangeStatus)
		proposals.DELETE("/:id", h.Delete)
		proposals.POST("/:id/send", h.Send)
	}
}

func (h *ProposalHandler) Generate(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	var req models.GenerateProposalRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.Generate(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.handleProposalError(c, userID, err)
		return
	}

	h.Created(c, gin.H{"success": true, "proposal": proposal.Summary()})
}

func (h *ProposalHandler) Revise(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	var req models.ReviseProposalRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.Revise(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, gin.H{"success": true, "proposal": proposal.Summary()})
}

func (h *ProposalHandler) List(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	proposals, err := h.proposalService.List(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	summaries := make([]*models.ProposalSummary, 0, len(proposals))
	for i := range proposals {
		summaries = append(summaries, proposals[i].Summary())
	}

	h.OK(c, gin.H{"proposals": summaries})
}

func (h *ProposalHandler) Get(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.Get(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, proposal)
}

func (h *ProposalHandler) Update(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProposalRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.Update(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, proposal)
}

func (h *ProposalHandler) ChangeStatus(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	var req models.ChangeStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.ChangeStatus(h.GetDB(c), userID, c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, proposal)
}

func (h *ProposalHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	if err := h.proposalService.Delete(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, gin.H{"message": "Proposal deleted"})
}

func (h *ProposalHandler) Send(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.SendToClient(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, proposal)
}

// handleProposalError special-cases the quota limit so the response carries
// the subscription snapshot and the upgrade prompt the dashboard renders.
func (h *ProposalHandler) handleProposalError(c *gin.Context, userID string, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.CodeLimitExceeded {
		h.HandleServiceError(c, err)
		return
	}

	var sub *models.Subscription
	if ent, entErr := h.entitlement.Entitlement(h.GetDB(c), userID); entErr == nil {
		sub = ent.Subscription
	}

	c.JSON(http.StatusForbidden, gin.H{
		"message":         appErr.Message,
		"details":         appErr.Details,
		"subscription":    sub,
		"upgradeRequired": true,
	})
}
