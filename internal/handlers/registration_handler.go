package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leadbridge/leadbridge-api/internal/models"
	"github.com/leadbridge/leadbridge-api/internal/services"
)

type RegistrationHandler struct {
	service services.RegistrationServiceInterface
}

func NewRegistrationHandler(service services.RegistrationServiceInterface) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// RegisterWebhook handles GET /register-webhook. Administrative endpoint:
// creates the provider-side subscription and proxies the provider's
// response back to the operator.
func (h *RegistrationHandler) RegisterWebhook(c *gin.Context) {
	var req models.RegisterWebhookRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Missing or invalid query parameters", ParseValidationErrors(err), err)
		return
	}

	result, err := h.service.RegisterWebhook(c.Request.Context(), &req)
	if err != nil {
		respondErrorWithDetails(c, http.StatusInternalServerError, "Webhook registration failed", err.Error(), err)
		return
	}

	c.Data(result.StatusCode, "application/json", result.Body)
}
