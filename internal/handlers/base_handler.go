package handlers

import (
	"net/http"

	"pitchly_backend/internal/middleware"
	"pitchly_backend/internal/validator"
	"pitchly_backend/pkg/apperrors"
	"pitchly_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BaseHandler carries the helpers shared by every handler: request binding
// and validation, DB resolution, auth extraction and error rendering.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{
		validator: validator.New(),
	}
}

// GetDB resolves the request-scoped DB handle placed by DBMiddleware. Tests
// inject a transaction the same way, so handlers never see the difference.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	db, exists := c.Get(string(contextkeys.DBContextKey))
	if !exists {
		return nil
	}
	return db.(*gorm.DB)
}

// BindAndValidateJSON binds the JSON body and runs struct validation.
// Renders the error response itself; callers just return on false.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if ve, ok := err.(*validator.ValidationError); ok {
			apperrors.HandleError(c, apperrors.ValidationError(ve.Errors))
		} else {
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}

	return true
}

// GetAuthorizedUserID returns the authenticated user ID, rendering a 401 if
// the auth middleware did not run.
func (h *BaseHandler) GetAuthorizedUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return "", false
	}
	return userID, true
}

// HandleServiceError renders a service-layer error.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}

// Created renders a 201 with the payload.
func (h *BaseHandler) Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// OK renders a 200 with the payload.
func (h *BaseHandler) OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}
