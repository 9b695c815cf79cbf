package services_test

import (
	"context"

	"github.com/leadbridge/leadbridge-api/internal/models"
	"github.com/leadbridge/leadbridge-api/pkg/calendly"
	"github.com/stretchr/testify/mock"
)

type MockEventTypeResolver struct {
	mock.Mock
}

func (m *MockEventTypeResolver) GetEventTypeName(ctx context.Context, uri string) string {
	args := m.Called(ctx, uri)
	return args.String(0)
}

type MockLeadForwarder struct {
	mock.Mock
}

func (m *MockLeadForwarder) ForwardLead(ctx context.Context, lead *models.LeadPayload) (string, error) {
	args := m.Called(ctx, lead)
	return args.String(0), args.Error(1)
}

type MockWebhookSubscriber struct {
	mock.Mock
}

func (m *MockWebhookSubscriber) CreateWebhookSubscription(ctx context.Context, callbackURL, organization, scope string) (*calendly.SubscriptionResult, error) {
	args := m.Called(ctx, callbackURL, organization, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calendly.SubscriptionResult), args.Error(1)
}
