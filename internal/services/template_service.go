package services

import (
	"encoding/json"

	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// freeTierTemplateLimit caps saved templates on the free plan. Built-in
// templates are not counted; they are available to everyone.
const freeTierTemplateLimit = 1

type TemplateService interface {
	Builtins() []models.BuiltinTemplate
	List(db *gorm.DB, userID string) ([]models.Template, error)
	Create(db *gorm.DB, userID string, req *models.CreateTemplateRequest) (*models.Template, error)
	Get(db *gorm.DB, userID, id string) (*models.Template, error)
	Delete(db *gorm.DB, userID, id string) error
}

type templateService struct {
	templateRepo repositories.TemplateRepository
	entitlement  EntitlementService
}

func NewTemplateService(templateRepo repositories.TemplateRepository, entitlement EntitlementService) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		entitlement:  entitlement,
	}
}

func (s *templateService) Builtins() []models.BuiltinTemplate {
	return models.BuiltinTemplates
}

func (s *templateService) List(db *gorm.DB, userID string) ([]models.Template, error) {
	templates, err := s.templateRepo.FindAllByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return templates, nil
}

func (s *templateService) Create(db *gorm.DB, userID string, req *models.CreateTemplateRequest) (*models.Template, error) {
	sub, err := s.entitlement.EnsureSubscription(db, userID)
	if err != nil {
		return nil, err
	}

	if sub.Tier == models.TierFree {
		count, err := s.templateRepo.CountByUser(db, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if count >= freeTierTemplateLimit {
			return nil, apperrors.ErrTierRestricted(
				"Saving more templates requires the Professional plan.")
		}
	}

	fields, err := json.Marshal(req.Fields)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Template fields must be a JSON object")
	}

	template := &models.Template{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Fields:      fields,
	}
	if err := s.templateRepo.Create(db, template); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return template, nil
}

func (s *templateService) Get(db *gorm.DB, userID, id string) (*models.Template, error) {
	template, err := s.templateRepo.FindByIDForUser(db, id, userID)
	if err != nil {
		if err == repositories.ErrTemplateNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return template, nil
}

func (s *templateService) Delete(db *gorm.DB, userID, id string) error {
	if err := s.templateRepo.Delete(db, id, userID); err != nil {
		if err == repositories.ErrTemplateNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}
