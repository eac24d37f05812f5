package services

import (
	"pitchly_backend/internal/ai"
	"pitchly_backend/internal/billing"
	"pitchly_backend/internal/config"
	"pitchly_backend/internal/email"
	"pitchly_backend/internal/imageprocessor"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/internal/storage"
)

// ServiceContainer wires every service with its repositories and external
// collaborators.
type ServiceContainer struct {
	Auth        AuthService
	User        UserService
	Entitlement EntitlementService
	Proposal    ProposalService
	Template    TemplateService
	Analytics   AnalyticsService
	Billing     BillingService
}

// NewServiceContainer builds the full service graph. The external
// collaborators (AI generator, mailer, file storage, payment provider) are
// passed in so tests can substitute stubs.
func NewServiceContainer(
	cfg *config.Config,
	generator ai.Generator,
	mailer email.Sender,
	store storage.Storage,
	provider *billing.Provider,
) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	subscriptionRepo := repositories.NewSubscriptionRepository()
	proposalRepo := repositories.NewProposalRepository()
	usageRepo := repositories.NewUsageEventRepository()
	templateRepo := repositories.NewTemplateRepository()

	entitlement := NewEntitlementService(subscriptionRepo)
	processor := imageprocessor.NewProcessor(85)

	return &ServiceContainer{
		Auth:        NewAuthService(userRepo, entitlement, mailer),
		User:        NewUserService(userRepo, store, processor, cfg.Upload.AvatarSize, cfg.Upload.AllowedTypes),
		Entitlement: entitlement,
		Proposal:    NewProposalService(proposalRepo, userRepo, usageRepo, entitlement, generator, mailer),
		Template:    NewTemplateService(templateRepo, entitlement),
		Analytics:   NewAnalyticsService(proposalRepo, usageRepo),
		Billing:     NewBillingService(subscriptionRepo, usageRepo, provider),
	}
}
