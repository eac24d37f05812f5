package services

import (
	"testing"

	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntitlementService() EntitlementService {
	return NewEntitlementService(repositories.NewSubscriptionRepository())
}

func TestEnsureSubscriptionLazyCreate(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "lazy@test.com")
	svc := newEntitlementService()

	sub, err := svc.EnsureSubscription(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, sub.Tier)
	assert.Equal(t, models.FreeTierQuota, sub.ProposalQuota)
	assert.Equal(t, 0, sub.ProposalsUsed)

	// Second call returns the same row, not a new one.
	again, err := svc.EnsureSubscription(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)

	var count int64
	db.Model(&models.Subscription{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCanCreateProposalFreeTier(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "free@test.com")
	testutil.CreateSubscription(t, db, user.ID, models.TierFree, models.FreeTierQuota, 0)
	svc := newEntitlementService()

	for i := 0; i < models.FreeTierQuota; i++ {
		ok, _, err := svc.CanCreateProposal(db, user.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, svc.RecordProposalCreated(db, user.ID))
	}

	ok, sub, err := svc.CanCreateProposal(db, user.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, models.FreeTierQuota, sub.ProposalsUsed)
}

func TestCanCreateProposalUnlimited(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "agency@test.com")
	testutil.CreateSubscription(t, db, user.ID, models.TierAgency, models.UnlimitedQuota, 500)
	svc := newEntitlementService()

	ok, sub, err := svc.CanCreateProposal(db, user.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, sub.Unlimited())
}

func TestRecordProposalCreatedMonotonic(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "mono@test.com")
	testutil.CreateSubscription(t, db, user.ID, models.TierFree, 2, 0)
	svc := newEntitlementService()

	require.NoError(t, svc.RecordProposalCreated(db, user.ID))
	require.NoError(t, svc.RecordProposalCreated(db, user.ID))

	// Quota is exhausted now. The increment is skipped but not an error;
	// the counter never moves past the cap.
	require.NoError(t, svc.RecordProposalCreated(db, user.ID))

	sub, err := svc.EnsureSubscription(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.ProposalsUsed)
}

func TestEntitlementPayload(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "payload@test.com")
	testutil.CreateSubscription(t, db, user.ID, models.TierFree, 3, 2)
	svc := newEntitlementService()

	ent, err := svc.Entitlement(db, user.ID)
	require.NoError(t, err)
	assert.True(t, ent.CanCreate)
	assert.Equal(t, 2, ent.Usage.Used)
	assert.Equal(t, 3, ent.Usage.Limit)
	assert.Equal(t, 1, ent.Usage.Remaining)
	assert.False(t, ent.Usage.Unlimited)
}

func TestEntitlementPayloadRemainingFloor(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "floor@test.com")
	// Overshot usage, e.g. after a downgrade from a bigger plan.
	testutil.CreateSubscription(t, db, user.ID, models.TierFree, 3, 7)
	svc := newEntitlementService()

	ent, err := svc.Entitlement(db, user.ID)
	require.NoError(t, err)
	assert.False(t, ent.CanCreate)
	assert.Equal(t, 0, ent.Usage.Remaining)
}
