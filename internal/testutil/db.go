package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"pitchly_backend/database"
	"pitchly_backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// NewDB opens a fresh in-memory sqlite database with the full schema. Each
// call gets its own named database so parallel tests never share state.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&dbCounter, 1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// CreateUser inserts a user with sensible defaults.
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
		Region:       "us",
		Language:     "en",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

// CreateSubscription inserts a subscription row for the user.
func CreateSubscription(t *testing.T, db *gorm.DB, userID string, tier models.Tier, quota, used int) *models.Subscription {
	t.Helper()

	sub := &models.Subscription{
		UserID:        userID,
		Tier:          tier,
		Status:        models.SubscriptionStatusActive,
		ProposalQuota: quota,
		ProposalsUsed: used,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("create test subscription: %v", err)
	}
	return sub
}

// CreateProposal inserts a proposal owned by the user.
func CreateProposal(t *testing.T, db *gorm.DB, userID, title string, status models.ProposalStatus) *models.Proposal {
	t.Helper()

	proposal := &models.Proposal{
		UserID:     userID,
		ClientName: "Acme Corp",
		Title:      title,
		Content:    "Generated proposal body.",
		Status:     status,
	}
	if err := db.Create(proposal).Error; err != nil {
		t.Fatalf("create test proposal: %v", err)
	}
	return proposal
}
