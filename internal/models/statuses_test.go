package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReachableStatuses(t *testing.T) {
	free := ReachableStatuses(TierFree)
	assert.Len(t, free, 3)
	assert.Contains(t, free, ProposalStatusDraft)
	assert.Contains(t, free, ProposalStatusSent)
	assert.Contains(t, free, ProposalStatusViewed)

	pro := ReachableStatuses(TierProfessional)
	assert.Len(t, pro, 9)
	assert.Equal(t, pro, ReachableStatuses(TierAgency))

	// Paid set is a strict superset of the free set.
	for _, s := range free {
		assert.Contains(t, pro, s)
	}
}

func TestStatusAllowedForTier(t *testing.T) {
	assert.True(t, StatusAllowedForTier(TierFree, ProposalStatusSent))
	assert.False(t, StatusAllowedForTier(TierFree, ProposalStatusWon))
	assert.False(t, StatusAllowedForTier(TierFree, ProposalStatusUnderReview))

	assert.True(t, StatusAllowedForTier(TierProfessional, ProposalStatusWon))
	assert.True(t, StatusAllowedForTier(TierAgency, ProposalStatusWithdrawn))

	// The revision marker is creation-only; no tier may set it manually.
	assert.False(t, StatusAllowedForTier(TierFree, ProposalStatusRevision))
	assert.False(t, StatusAllowedForTier(TierAgency, ProposalStatusRevision))
}

func TestIsValidProposalStatus(t *testing.T) {
	assert.True(t, IsValidProposalStatus(ProposalStatusDraft))
	assert.True(t, IsValidProposalStatus(ProposalStatusRevision))
	assert.False(t, IsValidProposalStatus(ProposalStatus("archived")))
	assert.False(t, IsValidProposalStatus(ProposalStatus("")))
}

func TestSubscriptionRemaining(t *testing.T) {
	sub := &Subscription{ProposalQuota: 3, ProposalsUsed: 1}
	assert.Equal(t, 2, sub.Remaining())
	assert.False(t, sub.Unlimited())

	// Never negative, even if usage overshot the cap.
	sub.ProposalsUsed = 5
	assert.Equal(t, 0, sub.Remaining())

	unlimited := &Subscription{ProposalQuota: UnlimitedQuota, ProposalsUsed: 100}
	assert.True(t, unlimited.Unlimited())
}
