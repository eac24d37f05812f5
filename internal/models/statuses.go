package models

type Tier string
type ProposalStatus string
type SubscriptionStatus string
type PaymentStatus string
type TimelineType string
type BudgetUnit string

const (
	TierFree         Tier = "free"
	TierProfessional Tier = "professional"
	TierAgency       Tier = "agency"

	ProposalStatusDraft       ProposalStatus = "draft"
	ProposalStatusSent        ProposalStatus = "sent"
	ProposalStatusViewed      ProposalStatus = "viewed"
	ProposalStatusUnderReview ProposalStatus = "under_review"
	ProposalStatusAccepted    ProposalStatus = "accepted"
	ProposalStatusWon         ProposalStatus = "won"
	ProposalStatusRejected    ProposalStatus = "rejected"
	ProposalStatusExpired     ProposalStatus = "expired"
	ProposalStatusWithdrawn   ProposalStatus = "withdrawn"

	// ProposalStatusRevision is set at creation time on lineage children.
	// It is never a valid target of a manual status change.
	ProposalStatusRevision ProposalStatus = "revision"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	TimelineTypeDuration TimelineType = "duration"
	TimelineTypeDeadline TimelineType = "deadline"

	BudgetUnitHourly  BudgetUnit = "per-hour"
	BudgetUnitDaily   BudgetUnit = "per-day"
	BudgetUnitWeekly  BudgetUnit = "per-week"
	BudgetUnitMonthly BudgetUnit = "per-month"
	BudgetUnitFixed   BudgetUnit = "lump-sum"
)

// freeStatuses is the status set reachable on the free tier.
var freeStatuses = []ProposalStatus{
	ProposalStatusDraft,
	ProposalStatusSent,
	ProposalStatusViewed,
}

// paidStatuses extends the free set with the full pipeline states.
// Terminal-looking states (won, rejected, expired, withdrawn) stay mutable:
// the reachable-set check is the only gate on manual transitions.
var paidStatuses = []ProposalStatus{
	ProposalStatusDraft,
	ProposalStatusSent,
	ProposalStatusViewed,
	ProposalStatusUnderReview,
	ProposalStatusAccepted,
	ProposalStatusWon,
	ProposalStatusRejected,
	ProposalStatusExpired,
	ProposalStatusWithdrawn,
}

// ReachableStatuses returns the manual-transition targets allowed for a tier.
func ReachableStatuses(tier Tier) []ProposalStatus {
	switch tier {
	case TierProfessional, TierAgency:
		return paidStatuses
	default:
		return freeStatuses
	}
}

// StatusAllowedForTier reports whether a tier may set the given status manually.
func StatusAllowedForTier(tier Tier, status ProposalStatus) bool {
	for _, s := range ReachableStatuses(tier) {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidProposalStatus reports whether the value is a known status at all,
// including the creation-only "revision" marker.
func IsValidProposalStatus(status ProposalStatus) bool {
	if status == ProposalStatusRevision {
		return true
	}
	return StatusAllowedForTier(TierAgency, status)
}
