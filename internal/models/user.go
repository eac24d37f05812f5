package models

import "time"

type User struct {
	BaseModel
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Business profile, folded into the proposal prompt for tone.
	CompanyName  string `json:"company_name"`
	BusinessType string `json:"business_type"`

	AvatarPath string `json:"avatar_path"`

	// Locale preferences. LanguageSet marks an explicit language override so
	// a later region change does not clobber the user's choice.
	Region      string `gorm:"type:varchar(8);default:'us'" json:"region"`
	Language    string `gorm:"type:varchar(8);default:'en'" json:"language"`
	LanguageSet bool   `gorm:"default:false" json:"-"`

	// Relations
	Subscription  *Subscription  `gorm:"foreignKey:UserID" json:"subscription,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

// --- Request/response DTOs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required" validate:"email"`
	Password string `json:"password" binding:"required" validate:"min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	CompanyName  *string `json:"company_name"`
	BusinessType *string `json:"business_type"`
}

type SetRegionRequest struct {
	Region string `json:"region" binding:"required"`
}

type SetLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}
