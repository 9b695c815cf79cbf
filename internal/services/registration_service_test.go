package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/leadbridge/leadbridge-api/internal/models"
	"github.com/leadbridge/leadbridge-api/internal/services"
	"github.com/leadbridge/leadbridge-api/pkg/calendly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterWebhook_ProxiesProviderResponse(t *testing.T) {
	subscriber := new(MockWebhookSubscriber)
	service := services.NewRegistrationService(subscriber)

	req := &models.RegisterWebhookRequest{
		URL:          "https://bridge.example.com/api/webhook",
		Organization: "https://api.calendly.com/organizations/org-1",
		Scope:        "organization",
	}

	subscriber.On("CreateWebhookSubscription", mock.Anything, req.URL, req.Organization, req.Scope).
		Return(&calendly.SubscriptionResult{StatusCode: http.StatusCreated, Body: []byte(`{}`)}, nil).Once()

	result, err := service.RegisterWebhook(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, result.StatusCode)

	subscriber.AssertExpectations(t)
}

func TestRegisterWebhook_SurfacesError(t *testing.T) {
	subscriber := new(MockWebhookSubscriber)
	service := services.NewRegistrationService(subscriber)

	subscriber.On("CreateWebhookSubscription", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused")).Once()

	result, err := service.RegisterWebhook(context.Background(), &models.RegisterWebhookRequest{
		URL:          "https://bridge.example.com/api/webhook",
		Organization: "org-1",
		Scope:        "organization",
	})
	require.Error(t, err)
	assert.Nil(t, result)
}
