package repositories

import (
	"errors"

	"pitchly_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTemplateNotFound = errors.New("template not found")

type TemplateRepository interface {
	Create(db *gorm.DB, template *models.Template) error
	FindAllByUser(db *gorm.DB, userID string) ([]models.Template, error)
	FindByIDForUser(db *gorm.DB, id, userID string) (*models.Template, error)
	Delete(db *gorm.DB, id, userID string) error
	CountByUser(db *gorm.DB, userID string) (int64, error)
}

type TemplateRepositoryImpl struct{}

func NewTemplateRepository() TemplateRepository {
	return &TemplateRepositoryImpl{}
}

func (r *TemplateRepositoryImpl) Create(db *gorm.DB, template *models.Template) error {
	return db.Create(template).Error
}

func (r *TemplateRepositoryImpl) FindAllByUser(db *gorm.DB, userID string) ([]models.Template, error) {
	var templates []models.Template
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&templates).Error
	return templates, err
}

func (r *TemplateRepositoryImpl) FindByIDForUser(db *gorm.DB, id, userID string) (*models.Template, error) {
	var template models.Template
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

func (r *TemplateRepositoryImpl) Delete(db *gorm.DB, id, userID string) error {
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Template{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *TemplateRepositoryImpl) CountByUser(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Template{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
