package handlers

import (
	"pitchly_backend/internal/middleware"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	*BaseHandler
	templateService services.TemplateService
}

func NewTemplateHandler(base *BaseHandler, templateService services.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		BaseHandler:     base,
		templateService: templateService,
	}
}

func (h *TemplateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	templates := rg.Group("/templates", middleware.AuthMiddleware())
	{
		templates.GET("", h.List)
		templates.POST("", h.Create)
		templates.GET("/:id", h.Get)
		templates.DELETE("/:id", h.Delete)
	}
}

// List returns the static built-in templates alongside the caller's saved
// ones.
func (h *TemplateHandler) List(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	templates, err := h.templateService.List(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{
		"builtin":   h.templateService.Builtins(),
		"templates": templates,
	})
}

func (h *TemplateHandler) Create(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	var req models.CreateTemplateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	template, err := h.templateService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, template)
}

func (h *TemplateHandler) Get(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	template, err := h.templateService.Get(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, template)
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	if err := h.templateService.Delete(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"message": "Template deleted"})
}
