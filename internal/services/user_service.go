package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"pitchly_backend/internal/imageprocessor"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/internal/storage"
	"pitchly_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	UpdateProfile(db *gorm.DB, userID string, req *models.UpdateProfileRequest) (*models.User, error)

	// SetRegion stores the region preference. The display language follows the
	// region's default unless the user has explicitly chosen a language.
	SetRegion(db *gorm.DB, userID, region string) (*models.User, error)

	// SetLanguage stores an explicit language preference. From then on region
	// changes no longer touch the language.
	SetLanguage(db *gorm.DB, userID, language string) (*models.User, error)

	UploadAvatar(ctx context.Context, db *gorm.DB, userID string, reader io.Reader, contentType string) (string, error)
}

type userService struct {
	userRepo  repositories.UserRepository
	store     storage.Storage
	processor *imageprocessor.Processor

	avatarSize   int
	allowedTypes []string
}

func NewUserService(userRepo repositories.UserRepository, store storage.Storage, processor *imageprocessor.Processor, avatarSize int, allowedTypes []string) UserService {
	return &userService{
		userRepo:     userRepo,
		store:        store,
		processor:    processor,
		avatarSize:   avatarSize,
		allowedTypes: allowedTypes,
	}
}

func (s *userService) UpdateProfile(db *gorm.DB, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.CompanyName != nil {
		user.CompanyName = *req.CompanyName
	}
	if req.BusinessType != nil {
		user.BusinessType = *req.BusinessType
	}

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *userService) SetRegion(db *gorm.DB, userID, region string) (*models.User, error) {
	info, ok := models.SupportedRegions[region]
	if !ok {
		return nil, apperrors.ErrUnsupportedLocale("region", region)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	language := user.Language
	if !user.LanguageSet {
		language = info.DefaultLanguage
	}

	if err := s.userRepo.UpdateLocale(db, userID, region, language, user.LanguageSet); err != nil {
		return nil, apperrors.InternalError(err)
	}

	user.Region = region
	user.Language = language
	return user, nil
}

func (s *userService) SetLanguage(db *gorm.DB, userID, language string) (*models.User, error) {
	if !models.IsSupportedLanguage(language) {
		return nil, apperrors.ErrUnsupportedLocale("language", language)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateLocale(db, userID, user.Region, language, true); err != nil {
		return nil, apperrors.InternalError(err)
	}

	user.Language = language
	user.LanguageSet = true
	return user, nil
}

// UploadAvatar validates, resizes and stores the avatar, then records its
// path on the user. Returns the public URL.
func (s *userService) UploadAvatar(ctx context.Context, db *gorm.DB, userID string, reader io.Reader, contentType string) (string, error) {
	if !s.typeAllowed(contentType) {
		return "", apperrors.NewBadRequestError("Unsupported image type: " + contentType)
	}

	processed, err := s.processor.ProcessAvatar(reader, s.avatarSize)
	if err != nil {
		return "", apperrors.NewBadRequestError("Could not read the uploaded image")
	}

	path := fmt.Sprintf("avatars/%s/%d.jpg", userID, time.Now().Unix())
	if err := s.store.Save(ctx, path, processed, "image/jpeg"); err != nil {
		return "", apperrors.ErrUpstream(err, "storage")
	}

	if err := s.userRepo.UpdateAvatar(db, userID, path); err != nil {
		if err == repositories.ErrUserNotFound {
			return "", apperrors.ErrNotFound(err)
		}
		return "", apperrors.InternalError(err)
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return url, nil
}

func (s *userService) typeAllowed(contentType string) bool {
	for _, t := range s.allowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
