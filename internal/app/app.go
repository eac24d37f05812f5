package app

import (
	"context"
	"fmt"
	"time"

	"pitchly_backend/database"
	"pitchly_backend/internal/ai"
	"pitchly_backend/internal/billing"
	"pitchly_backend/internal/config"
	"pitchly_backend/internal/email"
	"pitchly_backend/internal/handlers"
	"pitchly_backend/internal/logger"
	"pitchly_backend/internal/middleware"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/routes"
	"pitchly_backend/internal/services"
	"pitchly_backend/internal/storage"
	"pitchly_backend/internal/workers"
	"pitchly_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	apperrors.Debug = cfg.Server.Env == "development"
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := SeedPlans(gormDB); err != nil {
		logger.Fatal("Failed to seed subscription plans", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go workers.NewSubscriptionWorker(gormDB, time.Hour).Start(ctx)

	router := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the gin engine with the full middleware chain and API
// surface. Integration tests call this directly against a test database.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	store, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	generator := ai.NewClient(ai.Config{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
	})

	mailer := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})

	provider := billing.NewProvider(billing.Config{
		MerchantID:  cfg.Billing.MerchantID,
		Secret:      cfg.Billing.Secret,
		CheckoutURL: cfg.Billing.CheckoutURL,
	})

	svc := services.NewServiceContainer(cfg, generator, mailer, store, provider)
	appHandlers := handlers.NewAppHandlers(svc)

	router := initializeGinRouter(cfg, gormDB)
	routes.Register(router, appHandlers)

	return router
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(gormDB))

	return router
}

// SeedPlans inserts the paid plans on first boot. Existing rows are left
// untouched, so price changes are a deliberate migration, not a restart
// side effect.
func SeedPlans(db *gorm.DB) error {
	cfg := config.GetConfig()

	plans := []models.SubscriptionPlan{
		{
			Name:          "professional",
			Tier:          models.TierProfessional,
			Price:         cfg.Billing.ProfessionalFee,
			Currency:      "USD",
			Duration:      "monthly",
			ProposalQuota: models.UnlimitedQuota,
			Features:      datatypes.JSON(`{"templates": true, "full_pipeline": true}`),
			IsActive:      true,
		},
		{
			Name:          "agency",
			Tier:          models.TierAgency,
			Price:         cfg.Billing.AgencyFee,
			Currency:      "USD",
			Duration:      "monthly",
			ProposalQuota: models.UnlimitedQuota,
			Features:      datatypes.JSON(`{"templates": true, "full_pipeline": true, "team_seats": 5}`),
			IsActive:      true,
		},
	}

	for _, plan := range plans {
		var existing models.SubscriptionPlan
		err := db.Where("name = ?", plan.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&plan).Error; err != nil {
			return err
		}
	}
	return nil
}
