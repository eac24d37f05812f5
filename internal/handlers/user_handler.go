package handlers

import (
	"pitchly_backend/internal/config"
	"pitchly_backend/internal/middleware"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/services"
	"pitchly_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/profile", middleware.AuthMiddleware())
	{
		profile.PUT("", h.UpdateProfile)
		profile.PUT("/region", h.SetRegion)
		profile.PUT("/language", h.SetLanguage)
		profile.POST("/avatar", h.UploadAvatar)
	}

	// Reference data for the settings UI, no auth needed.
	rg.GET("/locales", h.Locales)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, user)
}

func (h *UserHandler) SetRegion(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	var req models.SetRegionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.userService.SetRegion(h.GetDB(c), userID, req.Region)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, user)
}

func (h *UserHandler) SetLanguage(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	var req models.SetLanguageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.userService.SetLanguage(h.GetDB(c), userID, req.Language)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, user)
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	cfg := config.GetConfig()
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing 'avatar' file field"))
		return
	}
	if fileHeader.Size > cfg.Upload.MaxSize {
		h.HandleServiceError(c, apperrors.NewBadRequestError("File too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.userService.UploadAvatar(c.Request.Context(), h.GetDB(c), userID, file, contentType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, gin.H{"avatar_url": url})
}

func (h *UserHandler) Locales(c *gin.Context) {
	regions := make([]models.RegionInfo, 0, len(models.SupportedRegions))
	for _, info := range models.SupportedRegions {
		regions = append(regions, info)
	}
	h.OK(c, gin.H{
		"regions":   regions,
		"languages": models.SupportedLanguages,
	})
}
