package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pitchly_backend/internal/auth"
	"pitchly_backend/internal/config"
	"pitchly_backend/internal/middleware"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/internal/services"
	"pitchly_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type handlerFixture struct {
	router    *gin.Engine
	generator *testutil.StubGenerator
	db        *gorm.DB
	user      *models.User
	token     string
}

func newHandlerFixture(t *testing.T, tier models.Tier, quota, used int) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg

	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "api@test.com")
	testutil.CreateSubscription(t, db, user.ID, tier, quota, used)

	token, err := auth.GenerateToken(user.ID, "test-secret", time.Hour)
	require.NoError(t, err)

	generator := &testutil.StubGenerator{}
	mailer := &testutil.StubMailer{}
	entitlement := services.NewEntitlementService(repositories.NewSubscriptionRepository())
	proposalService := services.NewProposalService(
		repositories.NewProposalRepository(),
		repositories.NewUserRepository(),
		repositories.NewUsageEventRepository(),
		entitlement,
		generator,
		mailer,
	)

	router := gin.New()
	router.Use(middleware.DBMiddleware(db))
	api := router.Group("/api/v1")
	NewProposalHandler(NewBaseHandler(), proposalService, entitlement).RegisterRoutes(api)

	return &handlerFixture{router: router, generator: generator, db: db, user: user, token: token}
}

func (f *handlerFixture) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func generateBody() map[string]interface{} {
	return map[string]interface{}{
		"clientName":         "Acme Corp",
		"clientEmail":        "client@acme.com",
		"projectTitle":       "Website Proposal",
		"projectDescription": "Rebuild the marketing site.",
		"budgetAmount":       1500,
		"budgetUnit":         "lump-sum",
		"timelineType":       "duration",
		"timelineDuration":   "2-weeks",
	}
}

func TestGenerateEndpointCreatesProposal(t *testing.T) {
	f := newHandlerFixture(t, models.TierFree, models.FreeTierQuota, 0)

	rec := f.request(t, http.MethodPost, "/api/v1/proposals/generate", generateBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	require.Contains(t, body, "proposal")

	proposal := body["proposal"].(map[string]interface{})
	assert.Equal(t, "Website Proposal", proposal["title"])
	assert.Equal(t, "Acme Corp", proposal["client_name"])
	assert.NotEmpty(t, proposal["id"])
	assert.NotEmpty(t, proposal["content"])
	assert.NotEmpty(t, proposal["created_at"])

	var stored models.Proposal
	require.NoError(t, f.db.First(&stored, "id = ?", proposal["id"]).Error)
	assert.Equal(t, models.ProposalStatusDraft, stored.Status)
	assert.Equal(t, f.user.ID, stored.UserID)
}

func TestReviseEndpointSuccessEnvelope(t *testing.T) {
	f := newHandlerFixture(t, models.TierFree, models.FreeTierQuota, 0)
	parent := testutil.CreateProposal(t, f.db, f.user.ID, "Branding Package", models.ProposalStatusSent)

	rec := f.request(t, http.MethodPost, "/api/v1/proposals/revise", map[string]string{
		"originalProposalId": parent.ID,
		"originalContent":    "Original body.",
		"revisionRequest":    "Shorter timeline.",
		"originalTitle":      "Branding Package",
		"clientName":         "Acme Corp",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	proposal := body["proposal"].(map[string]interface{})
	assert.Equal(t, "Branding Package (Rev 1)", proposal["title"])
	assert.NotEmpty(t, proposal["content"])
}

func TestGenerateEndpointQuotaExhausted(t *testing.T) {
	f := newHandlerFixture(t, models.TierFree, models.FreeTierQuota, models.FreeTierQuota)

	rec := f.request(t, http.MethodPost, "/api/v1/proposals/generate", generateBody())
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["upgradeRequired"])
	assert.Contains(t, body["message"], "proposal limit")
	require.NotNil(t, body["subscription"])

	sub := body["subscription"].(map[string]interface{})
	assert.Equal(t, "free", sub["tier"])

	assert.Equal(t, 0, f.generator.Calls)
}

func TestChangeStatusEndpointTierGate(t *testing.T) {
	f := newHandlerFixture(t, models.TierFree, models.FreeTierQuota, 0)
	p := testutil.CreateProposal(t, f.db, f.user.ID, "Gate", models.ProposalStatusSent)

	rec := f.request(t, http.MethodPatch, "/api/v1/proposals/"+p.ID+"/status",
		map[string]string{"status": "won"})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "TIER_RESTRICTED", errObj["code"])
	assert.Contains(t, errObj["message"], "Professional")
}

func TestChangeStatusEndpointPaidTier(t *testing.T) {
	f := newHandlerFixture(t, models.TierAgency, models.UnlimitedQuota, 0)
	p := testutil.CreateProposal(t, f.db, f.user.ID, "Pipeline", models.ProposalStatusSent)

	rec := f.request(t, http.MethodPatch, "/api/v1/proposals/"+p.ID+"/status",
		map[string]string{"status": "won"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var proposal models.Proposal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &proposal))
	assert.Equal(t, models.ProposalStatusWon, proposal.Status)
}

func TestEndpointsRequireAuth(t *testing.T) {
	f := newHandlerFixture(t, models.TierFree, models.FreeTierQuota, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/proposals", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetEndpointHidesForeignProposals(t *testing.T) {
	f := newHandlerFixture(t, models.TierFree, models.FreeTierQuota, 0)
	stranger := testutil.CreateUser(t, f.db, "stranger@test.com")
	foreign := testutil.CreateProposal(t, f.db, stranger.ID, "Private", models.ProposalStatusDraft)

	rec := f.request(t, http.MethodGet, "/api/v1/proposals/"+foreign.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
