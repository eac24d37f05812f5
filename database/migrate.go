package database

import (
	"fmt"

	"pitchly_backend/internal/config"
	"pitchly_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm opens the shared GORM connection using the configured DSN.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate migrates every model.
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}
	return Migrate(db)
}

// Migrate runs the schema migration on an already-open connection. Tests use
// this directly with their own (sqlite) handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.PaymentTransaction{},
		&models.Proposal{},
		&models.UsageEvent{},
		&models.Template{},
	)
}
