package services

import (
	"testing"

	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsSummary(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "stats@test.com")
	stranger := testutil.CreateUser(t, db, "noise@test.com")

	testutil.CreateProposal(t, db, user.ID, "One", models.ProposalStatusDraft)
	testutil.CreateProposal(t, db, user.ID, "Two", models.ProposalStatusSent)
	testutil.CreateProposal(t, db, user.ID, "Three", models.ProposalStatusSent)
	testutil.CreateProposal(t, db, stranger.ID, "Theirs", models.ProposalStatusWon)

	usageRepo := repositories.NewUsageEventRepository()
	require.NoError(t, usageRepo.Append(db, &models.UsageEvent{UserID: user.ID, Action: models.EventProposalCreated}))
	require.NoError(t, usageRepo.Append(db, &models.UsageEvent{UserID: user.ID, Action: models.EventProposalCreated}))
	require.NoError(t, usageRepo.Append(db, &models.UsageEvent{UserID: user.ID, Action: models.EventProposalSent}))
	require.NoError(t, usageRepo.Append(db, &models.UsageEvent{UserID: stranger.ID, Action: models.EventProposalDeleted}))

	svc := NewAnalyticsService(repositories.NewProposalRepository(), usageRepo)

	summary, err := svc.Summary(db, user.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalProposals)
	assert.Equal(t, int64(1), summary.ByStatus["draft"])
	assert.Equal(t, int64(2), summary.ByStatus["sent"])
	assert.NotContains(t, summary.ByStatus, "won")

	assert.Equal(t, int64(2), summary.ByAction[models.EventProposalCreated])
	assert.Equal(t, int64(1), summary.ByAction[models.EventProposalSent])
	assert.NotContains(t, summary.ByAction, models.EventProposalDeleted)
}
