package services

import (
	"testing"

	"pitchly_backend/internal/billing"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/internal/testutil"
	"pitchly_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type billingFixture struct {
	svc      BillingService
	provider *billing.Provider
	db       *gorm.DB
	user     *models.User
	plan     *models.SubscriptionPlan
}

func newBillingFixture(t *testing.T) *billingFixture {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "buyer@test.com")
	testutil.CreateSubscription(t, db, user.ID, models.TierFree, models.FreeTierQuota, 2)

	plan := &models.SubscriptionPlan{
		Name:          "professional",
		Tier:          models.TierProfessional,
		Price:         29.0,
		Currency:      "USD",
		Duration:      "monthly",
		ProposalQuota: models.UnlimitedQuota,
		IsActive:      true,
	}
	require.NoError(t, db.Create(plan).Error)

	provider := billing.NewProvider(billing.Config{
		MerchantID:  "pitchly-test",
		Secret:      "test-secret",
		CheckoutURL: "https://pay.example.com/checkout",
	})

	svc := NewBillingService(
		repositories.NewSubscriptionRepository(),
		repositories.NewUsageEventRepository(),
		provider,
	)

	return &billingFixture{svc: svc, provider: provider, db: db, user: user, plan: plan}
}

func TestCheckoutCreatesPendingPayment(t *testing.T) {
	f := newBillingFixture(t)

	resp, err := f.svc.Checkout(f.db, f.user.ID, "professional")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.InvoiceID)
	assert.Contains(t, resp.PaymentURL, "invoice="+resp.InvoiceID)

	var payment models.PaymentTransaction
	require.NoError(t, f.db.Where("invoice_id = ?", resp.InvoiceID).First(&payment).Error)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, 29.0, payment.Amount)
}

func TestCheckoutUnknownPlan(t *testing.T) {
	f := newBillingFixture(t)

	_, err := f.svc.Checkout(f.db, f.user.ID, "enterprise")
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestCallbackUpgradesSubscription(t *testing.T) {
	f := newBillingFixture(t)

	resp, err := f.svc.Checkout(f.db, f.user.ID, "professional")
	require.NoError(t, err)

	err = f.svc.HandleCallback(f.db, &models.BillingCallbackData{
		InvoiceID: resp.InvoiceID,
		Amount:    29.0,
		Signature: f.provider.Sign(resp.InvoiceID, 29.0),
	})
	require.NoError(t, err)

	var sub models.Subscription
	require.NoError(t, f.db.Where("user_id = ?", f.user.ID).First(&sub).Error)
	assert.Equal(t, models.TierProfessional, sub.Tier)
	assert.Equal(t, models.UnlimitedQuota, sub.ProposalQuota)
	// Upgrading starts a fresh period with a clean counter.
	assert.Equal(t, 0, sub.ProposalsUsed)

	var payment models.PaymentTransaction
	require.NoError(t, f.db.Where("invoice_id = ?", resp.InvoiceID).First(&payment).Error)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	require.NotNil(t, payment.PaidAt)
}

func TestCallbackIsIdempotent(t *testing.T) {
	f := newBillingFixture(t)

	resp, err := f.svc.Checkout(f.db, f.user.ID, "professional")
	require.NoError(t, err)

	data := &models.BillingCallbackData{
		InvoiceID: resp.InvoiceID,
		Amount:    29.0,
		Signature: f.provider.Sign(resp.InvoiceID, 29.0),
	}
	require.NoError(t, f.svc.HandleCallback(f.db, data))

	// Bump the counter so a replayed callback resetting it would be visible.
	require.NoError(t, f.db.Model(&models.Subscription{}).
		Where("user_id = ?", f.user.ID).
		Update("proposals_used", 7).Error)

	require.NoError(t, f.svc.HandleCallback(f.db, data))

	var sub models.Subscription
	require.NoError(t, f.db.Where("user_id = ?", f.user.ID).First(&sub).Error)
	assert.Equal(t, 7, sub.ProposalsUsed)

	var events int64
	f.db.Model(&models.UsageEvent{}).
		Where("user_id = ? AND action = ?", f.user.ID, models.EventSubscriptionUpgraded).
		Count(&events)
	assert.Equal(t, int64(1), events)
}

func TestCallbackRejectsBadSignature(t *testing.T) {
	f := newBillingFixture(t)

	resp, err := f.svc.Checkout(f.db, f.user.ID, "professional")
	require.NoError(t, err)

	err = f.svc.HandleCallback(f.db, &models.BillingCallbackData{
		InvoiceID: resp.InvoiceID,
		Amount:    29.0,
		Signature: "forged",
	})
	require.Error(t, err)

	var sub models.Subscription
	require.NoError(t, f.db.Where("user_id = ?", f.user.ID).First(&sub).Error)
	assert.Equal(t, models.TierFree, sub.Tier)
}

func TestCallbackRejectsAmountMismatch(t *testing.T) {
	f := newBillingFixture(t)

	resp, err := f.svc.Checkout(f.db, f.user.ID, "professional")
	require.NoError(t, err)

	// Correctly signed, but for the wrong amount.
	err = f.svc.HandleCallback(f.db, &models.BillingCallbackData{
		InvoiceID: resp.InvoiceID,
		Amount:    1.0,
		Signature: f.provider.Sign(resp.InvoiceID, 1.0),
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestCancelKeepsAccessUntilPeriodEnd(t *testing.T) {
	f := newBillingFixture(t)

	require.NoError(t, f.svc.Cancel(f.db, f.user.ID))

	var sub models.Subscription
	require.NoError(t, f.db.Where("user_id = ?", f.user.ID).First(&sub).Error)
	assert.Equal(t, models.SubscriptionStatusCancelled, sub.Status)
	require.NotNil(t, sub.CancelledAt)
	// Tier is untouched; the worker downgrades after the period lapses.
	assert.Equal(t, models.TierFree, sub.Tier)

	// Cancelling twice is reported, not ignored.
	err := f.svc.Cancel(f.db, f.user.ID)
	require.Error(t, err)
}
