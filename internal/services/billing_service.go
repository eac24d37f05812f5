package services

import (
	"fmt"
	"time"

	"pitchly_backend/internal/billing"
	"pitchly_backend/internal/logger"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BillingService interface {
	Plans(db *gorm.DB) ([]models.SubscriptionPlan, error)

	// Checkout creates a pending payment transaction and returns the hosted
	// payment page URL for it.
	Checkout(db *gorm.DB, userID, planName string) (*models.CheckoutResponse, error)

	// HandleCallback processes the provider's payment notification. Replayed
	// callbacks for an already-settled invoice are acknowledged without
	// touching the subscription again.
	HandleCallback(db *gorm.DB, data *models.BillingCallbackData) error

	History(db *gorm.DB, userID string) ([]models.PaymentTransaction, error)
	Cancel(db *gorm.DB, userID string) error
}

type billingService struct {
	subscriptionRepo repositories.SubscriptionRepository
	usageRepo        repositories.UsageEventRepository
	provider         *billing.Provider
}

func NewBillingService(subscriptionRepo repositories.SubscriptionRepository, usageRepo repositories.UsageEventRepository, provider *billing.Provider) BillingService {
	return &billingService{
		subscriptionRepo: subscriptionRepo,
		usageRepo:        usageRepo,
		provider:         provider,
	}
}

func (s *billingService) Plans(db *gorm.DB) ([]models.SubscriptionPlan, error) {
	plans, err := s.subscriptionRepo.FindActivePlans(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return plans, nil
}

func (s *billingService) Checkout(db *gorm.DB, userID, planName string) (*models.CheckoutResponse, error) {
	plan, err := s.subscriptionRepo.FindPlanByName(db, planName)
	if err != nil {
		if err == repositories.ErrSubscriptionPlanNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if plan.Tier == models.TierFree {
		return nil, apperrors.ErrInvalidOperation("billing", "The free plan does not require checkout")
	}

	invoiceID := uuid.NewString()
	payment := &models.PaymentTransaction{
		UserID:    userID,
		PlanID:    plan.ID,
		Amount:    plan.Price,
		Currency:  plan.Currency,
		Status:    models.PaymentStatusPending,
		InvoiceID: invoiceID,
	}
	if err := s.subscriptionRepo.CreatePayment(db, payment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	description := fmt.Sprintf("Pitchly %s subscription", plan.Name)
	return &models.CheckoutResponse{
		PaymentURL: s.provider.CheckoutURL(invoiceID, plan.Price, description),
		InvoiceID:  invoiceID,
	}, nil
}

func (s *billingService) HandleCallback(db *gorm.DB, data *models.BillingCallbackData) error {
	if !s.provider.VerifySignature(data.InvoiceID, data.Amount, data.Signature) {
		logger.Warn("billing callback with bad signature", "invoice_id", data.InvoiceID)
		return apperrors.NewUnauthorizedError("Invalid payment signature")
	}

	payment, err := s.subscriptionRepo.FindPaymentByInvoiceID(db, data.InvoiceID)
	if err != nil {
		if err == repositories.ErrPaymentNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	// Idempotent replay: the invoice already settled, nothing left to do.
	if payment.Status == models.PaymentStatusPaid {
		return nil
	}

	if payment.Amount != data.Amount {
		return apperrors.ErrInvalidPaymentAmount
	}

	now := time.Now()
	if err := s.subscriptionRepo.UpdatePaymentStatus(db, data.InvoiceID, models.PaymentStatusPaid, &now); err != nil {
		return apperrors.InternalError(err)
	}

	// Upgrading resets the period and the usage counter.
	periodEnd := now.AddDate(0, 1, 0)
	if payment.Plan.Duration == "yearly" {
		periodEnd = now.AddDate(1, 0, 0)
	}
	if err := s.subscriptionRepo.SwitchPlan(db, payment.UserID, payment.Plan.Tier, payment.Plan.ProposalQuota, now, periodEnd); err != nil {
		return apperrors.InternalError(err)
	}

	event := &models.UsageEvent{
		UserID:   payment.UserID,
		Action:   models.EventSubscriptionUpgraded,
		Metadata: datatypes.JSON(fmt.Sprintf(`{"plan":%q,"invoice_id":%q}`, payment.Plan.Name, data.InvoiceID)),
	}
	if err := s.usageRepo.Append(db, event); err != nil {
		logger.Warn("failed to append upgrade event", "user_id", payment.UserID, "error", err.Error())
	}

	logger.Info("subscription upgraded",
		"user_id", payment.UserID, "plan", payment.Plan.Name, "invoice_id", data.InvoiceID)
	return nil
}

func (s *billingService) History(db *gorm.DB, userID string) ([]models.PaymentTransaction, error) {
	payments, err := s.subscriptionRepo.FindPaymentsByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return payments, nil
}

// Cancel marks the subscription cancelled. Access continues until the period
// ends; the rollover worker downgrades the tier afterwards.
func (s *billingService) Cancel(db *gorm.DB, userID string) error {
	err := s.subscriptionRepo.Cancel(db, userID)
	if err == repositories.ErrSubscriptionNotFound {
		// Either no subscription row or it is already cancelled.
		sub, findErr := s.subscriptionRepo.FindByUserID(db, userID)
		if findErr == nil && sub.Status == models.SubscriptionStatusCancelled {
			return apperrors.ErrSubscriptionCancelled
		}
		return apperrors.ErrNotFound(err)
	}
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
