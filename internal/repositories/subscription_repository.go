package repositories

import (
	"errors"
	"time"

	"pitchly_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrSubscriptionPlanNotFound = errors.New("subscription plan not found")
	ErrPaymentNotFound          = errors.New("payment transaction not found")
	ErrQuotaExhausted           = errors.New("proposal quota exhausted")
)

type SubscriptionRepository interface {
	// Subscription operations
	Create(db *gorm.DB, sub *models.Subscription) error
	FindByUserID(db *gorm.DB, userID string) (*models.Subscription, error)
	Update(db *gorm.DB, sub *models.Subscription) error

	// IncrementUsage is the atomic check-and-increment: it only succeeds
	// while the quota still has headroom (or is unlimited).
	IncrementUsage(db *gorm.DB, userID string) error
	ResetUsage(db *gorm.DB, userID string, periodStart, periodEnd time.Time) error
	SwitchPlan(db *gorm.DB, userID string, tier models.Tier, quota int, periodStart, periodEnd time.Time) error
	Cancel(db *gorm.DB, userID string) error

	// Plan operations
	CreatePlan(db *gorm.DB, plan *models.SubscriptionPlan) error
	FindPlanByName(db *gorm.DB, name string) (*models.SubscriptionPlan, error)
	FindActivePlans(db *gorm.DB) ([]models.SubscriptionPlan, error)

	// Payment transactions
	CreatePayment(db *gorm.DB, payment *models.PaymentTransaction) error
	FindPaymentByInvoiceID(db *gorm.DB, invoiceID string) (*models.PaymentTransaction, error)
	UpdatePaymentStatus(db *gorm.DB, invoiceID string, status models.PaymentStatus, paidAt *time.Time) error
	FindPaymentsByUser(db *gorm.DB, userID string) ([]models.PaymentTransaction, error)
}

type SubscriptionRepositoryImpl struct{}

func NewSubscriptionRepository() SubscriptionRepository {
	return &SubscriptionRepositoryImpl{}
}

func (r *SubscriptionRepositoryImpl) Create(db *gorm.DB, sub *models.Subscription) error {
	return db.Create(sub).Error
}

func (r *SubscriptionRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) Update(db *gorm.DB, sub *models.Subscription) error {
	return db.Save(sub).Error
}

func (r *SubscriptionRepositoryImpl) IncrementUsage(db *gorm.DB, userID string) error {
	// Single conditional statement so two concurrent creations cannot both
	// spend the last quota slot.
	result := db.Model(&models.Subscription{}).
		Where("user_id = ? AND (proposal_quota = ? OR proposals_used < proposal_quota)",
			userID, models.UnlimitedQuota).
		Updates(map[string]interface{}{
			"proposals_used": gorm.Expr("proposals_used + 1"),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuotaExhausted
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) ResetUsage(db *gorm.DB, userID string, periodStart, periodEnd time.Time) error {
	result := db.Model(&models.Subscription{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"proposals_used": 0,
		"period_start":   periodStart,
		"period_end":     periodEnd,
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) SwitchPlan(db *gorm.DB, userID string, tier models.Tier, quota int, periodStart, periodEnd time.Time) error {
	result := db.Model(&models.Subscription{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"tier":           tier,
		"status":         models.SubscriptionStatusActive,
		"proposal_quota": quota,
		"proposals_used": 0,
		"period_start":   periodStart,
		"period_end":     periodEnd,
		"cancelled_at":   nil,
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) Cancel(db *gorm.DB, userID string) error {
	now := time.Now()
	result := db.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":       models.SubscriptionStatusCancelled,
			"cancelled_at": &now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// --- Plans ---

func (r *SubscriptionRepositoryImpl) CreatePlan(db *gorm.DB, plan *models.SubscriptionPlan) error {
	return db.Create(plan).Error
}

func (r *SubscriptionRepositoryImpl) FindPlanByName(db *gorm.DB, name string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := db.Where("name = ?", name).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) FindActivePlans(db *gorm.DB) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := db.Where("is_active = ?", true).Order("price ASC").Find(&plans).Error
	return plans, err
}

// --- Payment transactions ---

func (r *SubscriptionRepositoryImpl) CreatePayment(db *gorm.DB, payment *models.PaymentTransaction) error {
	return db.Create(payment).Error
}

func (r *SubscriptionRepositoryImpl) FindPaymentByInvoiceID(db *gorm.DB, invoiceID string) (*models.PaymentTransaction, error) {
	var payment models.PaymentTransaction
	err := db.Preload("Plan").Where("invoice_id = ?", invoiceID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *SubscriptionRepositoryImpl) UpdatePaymentStatus(db *gorm.DB, invoiceID string, status models.PaymentStatus, paidAt *time.Time) error {
	result := db.Model(&models.PaymentTransaction{}).Where("invoice_id = ?", invoiceID).Updates(map[string]interface{}{
		"status":     status,
		"paid_at":    paidAt,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) FindPaymentsByUser(db *gorm.DB, userID string) ([]models.PaymentTransaction, error) {
	var payments []models.PaymentTransaction
	err := db.Preload("Plan").Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}
