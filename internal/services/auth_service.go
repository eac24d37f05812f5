package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"pitchly_backend/internal/auth"
	"pitchly_backend/internal/config"
	"pitchly_backend/internal/email"
	"pitchly_backend/internal/logger"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type AuthService interface {
	Register(db *gorm.DB, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(db *gorm.DB, req *models.LoginRequest) (*models.AuthResponse, error)
	Refresh(db *gorm.DB, refreshToken string) (*models.AuthResponse, error)
	Logout(db *gorm.DB, refreshToken string) error
	Me(db *gorm.DB, userID string) (*models.User, error)
}

type authService struct {
	userRepo    repositories.UserRepository
	entitlement EntitlementService
	mailer      email.Sender
}

func NewAuthService(userRepo repositories.UserRepository, entitlement EntitlementService, mailer email.Sender) AuthService {
	return &authService{
		userRepo:    userRepo,
		entitlement: entitlement,
		mailer:      mailer,
	}
}

func (s *authService) Register(db *gorm.DB, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if err != repositories.ErrUserNotFound {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Seed the free-tier ledger row at registration so the first entitlement
	// read never races the first creation.
	if _, err := s.entitlement.EnsureSubscription(db, user.ID); err != nil {
		return nil, err
	}

	// Best effort. A dead SMTP relay must not block signup.
	go func(name, to string) {
		subject, body := email.WelcomeEmail(name)
		if err := s.mailer.Send(to, subject, body); err != nil {
			logger.Warn("failed to send welcome email", "email", to, "error", err.Error())
		}
	}(user.Name, user.Email)

	return s.issueTokens(db, user)
}

func (s *authService) Login(db *gorm.DB, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(db, user)
}

// Refresh rotates the refresh token: the presented token is consumed and a
// new pair is issued.
func (s *authService) Refresh(db *gorm.DB, refreshToken string) (*models.AuthResponse, error) {
	stored, err := s.userRepo.FindRefreshToken(db, refreshToken)
	if err != nil {
		if err == repositories.ErrRefreshTokenNotFound {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(db, stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if err := s.userRepo.DeleteRefreshToken(db, refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(db, user)
}

func (s *authService) Logout(db *gorm.DB, refreshToken string) error {
	if err := s.userRepo.DeleteRefreshToken(db, refreshToken); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) Me(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *authService) issueTokens(db *gorm.DB, user *models.User) (*models.AuthResponse, error) {
	cfg := config.GetConfig()

	accessToken, err := auth.GenerateToken(user.ID, cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.userRepo.CreateRefreshToken(db, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
