package services

import (
	"testing"

	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/internal/testutil"
	"pitchly_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTemplateService(t *testing.T, tier models.Tier) (TemplateService, *gorm.DB, *models.User) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "templates@test.com")
	quota := models.FreeTierQuota
	if tier != models.TierFree {
		quota = models.UnlimitedQuota
	}
	testutil.CreateSubscription(t, db, user.ID, tier, quota, 0)

	svc := NewTemplateService(
		repositories.NewTemplateRepository(),
		NewEntitlementService(repositories.NewSubscriptionRepository()),
	)
	return svc, db, user
}

func createRequest(name string) *models.CreateTemplateRequest {
	return &models.CreateTemplateRequest{
		Name:        name,
		Description: "test template",
		Fields: map[string]interface{}{
			"projectTitle": name,
			"budgetUnit":   "lump-sum",
		},
	}
}

func TestBuiltinTemplatesAvailable(t *testing.T) {
	svc, _, _ := newTemplateService(t, models.TierFree)

	builtins := svc.Builtins()
	require.Len(t, builtins, 3)

	slugs := make([]string, 0, len(builtins))
	for _, b := range builtins {
		slugs = append(slugs, b.Slug)
	}
	assert.Contains(t, slugs, "website-redesign")
	assert.Contains(t, slugs, "monthly-retainer")
	assert.Contains(t, slugs, "brand-identity")
}

func TestFreeTierTemplateLimit(t *testing.T) {
	svc, db, user := newTemplateService(t, models.TierFree)

	_, err := svc.Create(db, user.ID, createRequest("First"))
	require.NoError(t, err)

	_, err = svc.Create(db, user.ID, createRequest("Second"))
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeTierRestricted, appErr.Code)
}

func TestPaidTierUnlimitedTemplates(t *testing.T) {
	svc, db, user := newTemplateService(t, models.TierProfessional)

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := svc.Create(db, user.ID, createRequest(name))
		require.NoError(t, err)
	}

	templates, err := svc.List(db, user.ID)
	require.NoError(t, err)
	assert.Len(t, templates, 3)
}

func TestTemplateOwnershipIsolation(t *testing.T) {
	svc, db, user := newTemplateService(t, models.TierProfessional)
	stranger := testutil.CreateUser(t, db, "other@test.com")

	created, err := svc.Create(db, user.ID, createRequest("Mine"))
	require.NoError(t, err)

	_, err = svc.Get(db, stranger.ID, created.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)

	err = svc.Delete(db, stranger.ID, created.ID)
	require.Error(t, err)

	// Still there for the owner.
	got, err := svc.Get(db, user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Name)
}
