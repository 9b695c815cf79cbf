package services

import (
	"context"

	"github.com/leadbridge/leadbridge-api/internal/models"
	"github.com/leadbridge/leadbridge-api/pkg/calendly"
)

// EventTypeResolver looks up event-type display names by resource URI.
// Implemented by pkg/calendly.
type EventTypeResolver interface {
	GetEventTypeName(ctx context.Context, uri string) string
}

// LeadForwarder delivers mapped leads downstream. Implemented by pkg/crm.
type LeadForwarder interface {
	ForwardLead(ctx context.Context, lead *models.LeadPayload) (string, error)
}

// WebhookSubscriber manages webhook subscriptions at the provider.
// Implemented by pkg/calendly.
type WebhookSubscriber interface {
	CreateWebhookSubscription(ctx context.Context, callbackURL, organization, scope string) (*calendly.SubscriptionResult, error)
}

// WebhookServiceInterface defines the webhook processing business logic.
type WebhookServiceInterface interface {
	ProcessInvitee(ctx context.Context, body map[string]any) (*models.WebhookResponse, error)
}

// RegistrationServiceInterface defines webhook self-registration.
type RegistrationServiceInterface interface {
	RegisterWebhook(ctx context.Context, req *models.RegisterWebhookRequest) (*calendly.SubscriptionResult, error)
}
