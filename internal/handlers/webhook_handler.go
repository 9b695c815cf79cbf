package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leadbridge/leadbridge-api/internal/models"
	"github.com/leadbridge/leadbridge-api/internal/services"
	"github.com/leadbridge/leadbridge-api/pkg/crm"
	"github.com/leadbridge/leadbridge-api/pkg/logger"
	"github.com/leadbridge/leadbridge-api/pkg/metrics"
	"github.com/leadbridge/leadbridge-api/pkg/signature"
	"go.uber.org/zap"
)

// signatureHeader is the canonical form; gin header lookup is
// case-insensitive, covering the provider's casing variants.
const signatureHeader = "Calendly-Webhook-Signature"

type WebhookHandler struct {
	service  services.WebhookServiceInterface
	verifier *signature.Verifier
	verify   bool
}

func NewWebhookHandler(service services.WebhookServiceInterface, verifier *signature.Verifier, verify bool) *WebhookHandler {
	return &WebhookHandler{
		service:  service,
		verifier: verifier,
		verify:   verify,
	}
}

// HandleWebhook processes POST /api/webhook. The body is read raw first:
// signature verification covers the exact bytes received, not a re-encoded
// form.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	if h.verify {
		if !h.verifier.Verify(raw, c.GetHeader(signatureHeader)) {
			metrics.WebhooksReceived.WithLabelValues("unauthorized").Inc()
			respondError(c, http.StatusUnauthorized, "Invalid webhook signature", nil)
			return
		}
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		metrics.WebhooksReceived.WithLabelValues("invalid").Inc()
		respondError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	event, _ := body["event"].(string)
	if event != models.EventInviteeCreated {
		metrics.WebhooksReceived.WithLabelValues("ignored").Inc()
		logger.Debug("Ignoring webhook event", zap.String("event", event))
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
		return
	}

	resp, err := h.service.ProcessInvitee(c.Request.Context(), body)
	if err != nil {
		var fwdErr *crm.ForwardError
		if errors.As(err, &fwdErr) {
			attachError(c, err)
			c.JSON(http.StatusInternalServerError, models.WebhookResponse{
				Success: false,
				Error:   "Failed to forward lead",
				Details: fwdErr.Details,
			})
			return
		}
		respondErrorWithDetails(c, http.StatusInternalServerError, "Internal server error", err.Error(), err)
		return
	}

	// Soft failures (incomplete payloads) still acknowledge with 200 so
	// the provider does not retry the delivery.
	c.JSON(http.StatusOK, resp)
}
