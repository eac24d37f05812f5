package models

import (
	"time"

	"gorm.io/datatypes"
)

// UnlimitedQuota is the sentinel for plans without a per-period proposal cap.
const UnlimitedQuota = -1

// FreeTierQuota is the per-period proposal allowance of the default plan.
const FreeTierQuota = 3

type SubscriptionPlan struct {
	BaseModel
	Name          string         `gorm:"uniqueIndex;not null" json:"name"`
	Tier          Tier           `gorm:"type:varchar(20);not null" json:"tier"`
	Price         float64        `gorm:"not null" json:"price"`
	Currency      string         `gorm:"default:'USD'" json:"currency"`
	Duration      string         `gorm:"not null" json:"duration"` // "monthly", "yearly"
	ProposalQuota int            `gorm:"not null" json:"proposal_quota"`
	Features      datatypes.JSON `gorm:"type:jsonb" json:"features"` // {"templates": true, ...}
	IsActive      bool           `gorm:"default:true" json:"is_active"`
}

// Subscription is the per-account entitlement row. One per user, created
// lazily on the first quota check.
type Subscription struct {
	BaseModel
	UserID                string             `gorm:"not null;uniqueIndex" json:"user_id"`
	Tier                  Tier               `gorm:"type:varchar(20);default:'free'" json:"tier"`
	Status                SubscriptionStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	BillingCustomerID     string             `json:"-"`
	BillingSubscriptionID string             `json:"-"`

	// ProposalQuota of UnlimitedQuota (-1) means no cap. ProposalsUsed is
	// only ever reset by a period rollover, never decremented.
	ProposalQuota int `gorm:"not null;default:3" json:"proposal_quota"`
	ProposalsUsed int `gorm:"not null;default:0" json:"proposals_used"`

	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// Unlimited reports whether the subscription has no proposal cap.
func (s *Subscription) Unlimited() bool {
	return s.ProposalQuota == UnlimitedQuota
}

// Remaining returns the proposals left this period, 0-floored. Meaningless
// when Unlimited.
func (s *Subscription) Remaining() int {
	if s.Unlimited() {
		return 0
	}
	if r := s.ProposalQuota - s.ProposalsUsed; r > 0 {
		return r
	}
	return 0
}

type PaymentTransaction struct {
	BaseModel
	UserID    string        `gorm:"not null;index" json:"user_id"`
	PlanID    string        `gorm:"not null;index" json:"plan_id"`
	Amount    float64       `json:"amount"`
	Currency  string        `json:"currency"`
	Status    PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	InvoiceID string        `gorm:"uniqueIndex" json:"invoice_id"` // provider-side reference
	PaidAt    *time.Time    `json:"paid_at,omitempty"`

	// Relations
	Plan SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

// UsageInfo is the wire shape of the entitlement check endpoint.
type UsageInfo struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited"`
}

type EntitlementResponse struct {
	CanCreate    bool          `json:"canCreate"`
	Subscription *Subscription `json:"subscription"`
	Usage        UsageInfo     `json:"usage"`
}

type CheckoutRequest struct {
	PlanName string `json:"plan" binding:"required"`
}

type CheckoutResponse struct {
	PaymentURL string `json:"payment_url"`
	InvoiceID  string `json:"invoice_id"`
}

// BillingCallbackData is the provider-signed webhook payload.
type BillingCallbackData struct {
	InvoiceID string  `json:"invoice_id" form:"invoice_id" binding:"required"`
	Amount    float64 `json:"amount" form:"amount" binding:"required"`
	Signature string  `json:"signature" form:"signature" binding:"required"`
}
