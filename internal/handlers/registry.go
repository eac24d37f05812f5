package handlers

import (
	"pitchly_backend/internal/services"
)

// AppHandlers bundles every HTTP handler for route registration.
type AppHandlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Proposal     *ProposalHandler
	Subscription *SubscriptionHandler
	Template     *TemplateHandler
	Analytics    *AnalyticsHandler
}

func NewAppHandlers(svc *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler()

	return &AppHandlers{
		Auth:         NewAuthHandler(base, svc.Auth),
		User:         NewUserHandler(base, svc.User),
		Proposal:     NewProposalHandler(base, svc.Proposal, svc.Entitlement),
		Subscription: NewSubscriptionHandler(base, svc.Billing, svc.Entitlement),
		Template:     NewTemplateHandler(base, svc.Template),
		Analytics:    NewAnalyticsHandler(base, svc.Analytics),
	}
}
