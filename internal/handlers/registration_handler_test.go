package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/leadbridge/leadbridge-api/internal/models"
	"github.com/leadbridge/leadbridge-api/pkg/calendly"
)

type mockRegistrationService struct {
	mock.Mock
}

func (m *mockRegistrationService) RegisterWebhook(ctx context.Context, req *models.RegisterWebhookRequest) (*calendly.SubscriptionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calendly.SubscriptionResult), args.Error(1)
}

func newRegistrationRouter(handler *RegistrationHandler) *gin.Engine {
	router := gin.New()
	router.GET("/register-webhook", handler.RegisterWebhook)
	return router
}

func TestRegistrationHandler_MissingParams(t *testing.T) {
	service := new(mockRegistrationService)
	handler := NewRegistrationHandler(service)
	router := newRegistrationRouter(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/register-webhook?url=https://example.com/api/webhook", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing or invalid query parameters")
	service.AssertNotCalled(t, "RegisterWebhook")
}

func TestRegistrationHandler_InvalidScope(t *testing.T) {
	service := new(mockRegistrationService)
	handler := NewRegistrationHandler(service)
	router := newRegistrationRouter(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/register-webhook?url=https://example.com/api/webhook&organization=https://api.calendly.com/organizations/org-1&scope=team", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Scope must be one of: organization user")
	service.AssertNotCalled(t, "RegisterWebhook")
}

func TestRegistrationHandler_ProxiesProviderResponse(t *testing.T) {
	service := new(mockRegistrationService)
	service.On("RegisterWebhook", mock.Anything, mock.MatchedBy(func(req *models.RegisterWebhookRequest) bool {
		return req.URL == "https://example.com/api/webhook" &&
			req.Organization == "https://api.calendly.com/organizations/org-1" &&
			req.Scope == "organization"
	})).Return(&calendly.SubscriptionResult{
		StatusCode: http.StatusCreated,
		Body:       []byte(`{"resource":{"uri":"https://api.calendly.com/webhook_subscriptions/sub-1"}}`),
	}, nil)

	handler := NewRegistrationHandler(service)
	router := newRegistrationRouter(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/register-webhook?url=https://example.com/api/webhook&organization=https://api.calendly.com/organizations/org-1&scope=organization", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"resource":{"uri":"https://api.calendly.com/webhook_subscriptions/sub-1"}}`, w.Body.String())
	service.AssertExpectations(t)
}

func TestRegistrationHandler_ProviderError(t *testing.T) {
	service := new(mockRegistrationService)
	service.On("RegisterWebhook", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	handler := NewRegistrationHandler(service)
	router := newRegistrationRouter(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/register-webhook?url=https://example.com/api/webhook&organization=https://api.calendly.com/organizations/org-1&scope=organization", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Webhook registration failed")
	service.AssertExpectations(t)
}
