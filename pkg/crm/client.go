// Package crm forwards mapped leads to the downstream lead-intake API.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/leadbridge/leadbridge-api/internal/models"
	"github.com/leadbridge/leadbridge-api/pkg/httpclient"
	"github.com/leadbridge/leadbridge-api/pkg/logger"
	"github.com/leadbridge/leadbridge-api/pkg/metrics"
	"go.uber.org/zap"
)

// ForwardError reports a failed lead forward. Details carries the
// downstream response body when one was received.
type ForwardError struct {
	StatusCode int
	Details    string
	Err        error
}

func (e *ForwardError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lead forward failed: %v", e.Err)
	}
	return fmt.Sprintf("lead forward returned status %d", e.StatusCode)
}

func (e *ForwardError) Unwrap() error {
	return e.Err
}

// Client posts leads to the configured intake URL. Each webhook delivery
// gets exactly one forward attempt; the HTTP client's timeout is the only
// bound.
type Client struct {
	apiURL     string
	httpClient httpclient.Client
}

// NewClient creates a lead forwarder.
func NewClient(apiURL string, httpClient httpclient.Client) *Client {
	return &Client{
		apiURL:     apiURL,
		httpClient: httpClient,
	}
}

// ForwardLead sends the lead as a JSON POST. On success it returns the
// downstream response body; on failure a *ForwardError with whatever
// details the downstream provided.
func (c *Client) ForwardLead(ctx context.Context, lead *models.LeadPayload) (string, error) {
	start := time.Now()

	payload, err := json.Marshal(lead)
	if err != nil {
		return "", fmt.Errorf("failed to encode lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("error", start)
		return "", &ForwardError{Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		body = nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.record("error", start)
		logger.Warn("CRM rejected lead",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", truncate(string(body), 512)),
			zap.String("email", lead.Email))
		return "", &ForwardError{StatusCode: resp.StatusCode, Details: string(body)}
	}

	c.record("success", start)
	logger.Info("Lead forwarded to CRM",
		zap.Int("status_code", resp.StatusCode),
		zap.String("segmentid", lead.SegmentID),
		zap.String("email", lead.Email))

	return string(body), nil
}

func (c *Client) record(status string, start time.Time) {
	duration := metrics.MeasureDuration(start)
	metrics.CRMForwardDuration.WithLabelValues(status).Observe(duration)
	metrics.CRMForwardTotal.WithLabelValues(status).Inc()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.ToValidUTF8(s[:max], "") + "..."
}
