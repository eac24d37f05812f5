package services

import (
	"time"

	"pitchly_backend/internal/logger"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// EntitlementService is the quota ledger gating proposal creation.
type EntitlementService interface {
	// EnsureSubscription returns the user's subscription, lazily creating
	// the default free-tier row on first contact.
	EnsureSubscription(db *gorm.DB, userID string) (*models.Subscription, error)

	// CanCreateProposal reads the persisted subscription on every call and
	// reports whether a new proposal may be created. No side effects.
	CanCreateProposal(db *gorm.DB, userID string) (bool, *models.Subscription, error)

	// RecordProposalCreated spends one quota slot. Called only after the
	// proposal row is durably persisted, so a failed generation never
	// consumes quota.
	RecordProposalCreated(db *gorm.DB, userID string) error

	// Entitlement builds the usage payload for the UI.
	Entitlement(db *gorm.DB, userID string) (*models.EntitlementResponse, error)
}

type entitlementService struct {
	subscriptionRepo repositories.SubscriptionRepository
}

func NewEntitlementService(subscriptionRepo repositories.SubscriptionRepository) EntitlementService {
	return &entitlementService{subscriptionRepo: subscriptionRepo}
}

func (s *entitlementService) EnsureSubscription(db *gorm.DB, userID string) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.FindByUserID(db, userID)
	if err == nil {
		return sub, nil
	}
	if err != repositories.ErrSubscriptionNotFound {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	sub = &models.Subscription{
		UserID:        userID,
		Tier:          models.TierFree,
		Status:        models.SubscriptionStatusActive,
		ProposalQuota: models.FreeTierQuota,
		ProposalsUsed: 0,
		PeriodStart:   now,
		PeriodEnd:     now.AddDate(0, 1, 0),
	}
	if err := s.subscriptionRepo.Create(db, sub); err != nil {
		// A concurrent first check may have won the insert; fall back to a read.
		if existing, findErr := s.subscriptionRepo.FindByUserID(db, userID); findErr == nil {
			return existing, nil
		}
		return nil, apperrors.InternalError(err)
	}
	return sub, nil
}

func (s *entitlementService) CanCreateProposal(db *gorm.DB, userID string) (bool, *models.Subscription, error) {
	sub, err := s.EnsureSubscription(db, userID)
	if err != nil {
		return false, nil, err
	}

	if sub.Unlimited() {
		return true, sub, nil
	}
	return sub.ProposalsUsed < sub.ProposalQuota, sub, nil
}

func (s *entitlementService) RecordProposalCreated(db *gorm.DB, userID string) error {
	err := s.subscriptionRepo.IncrementUsage(db, userID)
	if err == repositories.ErrQuotaExhausted {
		// Lost a race: the proposal row exists but the slot was taken in
		// between. The proposal is kept and the miss is logged; creation is
		// still gated up front, so this cannot compound.
		logger.Warn("usage increment skipped: quota exhausted after creation", "user_id", userID)
		return nil
	}
	return err
}

func (s *entitlementService) Entitlement(db *gorm.DB, userID string) (*models.EntitlementResponse, error) {
	canCreate, sub, err := s.CanCreateProposal(db, userID)
	if err != nil {
		return nil, err
	}

	usage := models.UsageInfo{
		Used:      sub.ProposalsUsed,
		Limit:     sub.ProposalQuota,
		Unlimited: sub.Unlimited(),
	}
	if !sub.Unlimited() {
		// Remaining is 0-floored so clients never see a negative number.
		usage.Remaining = sub.Remaining()
	}

	return &models.EntitlementResponse{
		CanCreate:    canCreate,
		Subscription: sub,
		Usage:        usage,
	}, nil
}
