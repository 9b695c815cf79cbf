package services

import (
	"context"

	"github.com/leadbridge/leadbridge-api/internal/models"
	"github.com/leadbridge/leadbridge-api/pkg/calendly"
	"github.com/leadbridge/leadbridge-api/pkg/logger"
	"go.uber.org/zap"
)

// RegistrationService creates the provider-side webhook subscription. This
// is an administrative one-shot action, not steady-state traffic.
type RegistrationService struct {
	subscriber WebhookSubscriber
}

func NewRegistrationService(subscriber WebhookSubscriber) RegistrationServiceInterface {
	return &RegistrationService{subscriber: subscriber}
}

func (s *RegistrationService) RegisterWebhook(ctx context.Context, req *models.RegisterWebhookRequest) (*calendly.SubscriptionResult, error) {
	logger.Info("Registering webhook subscription",
		zap.String("url", req.URL),
		zap.String("organization", req.Organization),
		zap.String("scope", req.Scope))

	result, err := s.subscriber.CreateWebhookSubscription(ctx, req.URL, req.Organization, req.Scope)
	if err != nil {
		logger.Error("Webhook registration failed", zap.Error(err))
		return nil, err
	}

	logger.Info("Webhook registration response",
		zap.Int("status_code", result.StatusCode))
	return result, nil
}
