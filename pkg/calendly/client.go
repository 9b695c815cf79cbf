// Package calendly is a minimal client for Calendly's management API: the
// event-type lookup used during segment resolution and webhook
// subscription management.
package calendly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"

	"github.com/leadbridge/leadbridge-api/pkg/circuitbreaker"
	"github.com/leadbridge/leadbridge-api/pkg/httpclient"
	"github.com/leadbridge/leadbridge-api/pkg/logger"
	"github.com/leadbridge/leadbridge-api/pkg/metrics"
	"github.com/leadbridge/leadbridge-api/pkg/retry"
	"go.uber.org/zap"
)

const eventTypeCacheName = "event_type"

// Client calls the Calendly API with a bearer token. Event-type lookups go
// through a circuit breaker and a TTL cache: they run inside webhook
// handling and must degrade instead of failing the request.
type Client struct {
	baseURL        string
	apiToken       string
	httpClient     httpclient.Client
	circuitBreaker *gobreaker.CircuitBreaker
	eventTypes     *gocache.Cache
}

// NewClient creates a Calendly API client.
func NewClient(baseURL, apiToken string, cacheTTL time.Duration, httpClient httpclient.Client) *Client {
	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("calendly"))

	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiToken:       apiToken,
		httpClient:     httpClient,
		circuitBreaker: cb,
		eventTypes:     gocache.New(cacheTTL, 2*cacheTTL),
	}
}

type eventTypeResource struct {
	Resource struct {
		Name string `json:"name"`
	} `json:"resource"`
}

// GetEventTypeName fetches the display name of an event type referenced by
// URI. Results are cached by URI; lookup failures return an empty name so
// segment resolution can fall through to the default segment.
func (c *Client) GetEventTypeName(ctx context.Context, uri string) string {
	if uri == "" {
		return ""
	}

	// Only dereference URIs under the configured API base: the URI comes
	// from an inbound payload.
	if !strings.HasPrefix(uri, c.baseURL+"/") {
		logger.Warn("Refusing event type lookup outside API base",
			zap.String("uri", uri))
		return ""
	}

	if cached, found := c.eventTypes.Get(uri); found {
		metrics.CacheHits.WithLabelValues(eventTypeCacheName).Inc()
		return cached.(string)
	}
	metrics.CacheMisses.WithLabelValues(eventTypeCacheName).Inc()

	name, err := circuitbreaker.ExecuteWithFallback(
		c.circuitBreaker,
		func() (string, error) {
			return c.fetchEventTypeName(ctx, uri)
		},
		func() (string, error) {
			logger.Warn("Circuit breaker open for Calendly, using default segment",
				zap.String("uri", uri))
			return "", nil
		},
	)
	if err != nil {
		logger.Warn("Event type lookup failed, using default segment",
			zap.Error(err),
			zap.String("uri", uri))
		return ""
	}

	if name != "" {
		c.eventTypes.SetDefault(uri, name)
	}
	return name
}

// fetchEventTypeName performs the API call with short retries.
func (c *Client) fetchEventTypeName(ctx context.Context, uri string) (string, error) {
	start := time.Now()
	operation := "getEventType"

	retryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	name, err := retry.DoWithResult(retryCtx, retry.CalendlyConfig(), operation, func() (string, error) {
		req, reqErr := http.NewRequestWithContext(retryCtx, http.MethodGet, uri, nil)
		if reqErr != nil {
			return "", fmt.Errorf("failed to create event type request: %w", reqErr)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiToken)

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return "", fmt.Errorf("failed to fetch event type: %w", doErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("event type fetch returned status %d", resp.StatusCode)
		}

		var result eventTypeResource
		if decErr := json.NewDecoder(resp.Body).Decode(&result); decErr != nil {
			return "", fmt.Errorf("failed to decode event type response: %w", decErr)
		}
		return result.Resource.Name, nil
	})

	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.CalendlyRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.CalendlyRequestTotal.WithLabelValues(operation, status).Inc()
	logger.LogAPICall("calendly", operation, status, duration, zap.String("uri", uri))

	return name, err
}

// SubscriptionResult carries the provider's response to a webhook
// subscription request so the caller can proxy it.
type SubscriptionResult struct {
	StatusCode int
	Body       json.RawMessage
}

// CreateWebhookSubscription registers callbackURL for invitee.created
// events of the given organization and scope.
func (c *Client) CreateWebhookSubscription(ctx context.Context, callbackURL, organization, scope string) (*SubscriptionResult, error) {
	start := time.Now()
	operation := "createWebhookSubscription"

	payload, err := json.Marshal(map[string]any{
		"url":          callbackURL,
		"organization": organization,
		"scope":        scope,
		"events":       []string{"invitee.created"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode subscription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/webhook_subscriptions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordSubscription(operation, "error", start)
		return nil, fmt.Errorf("failed to call Calendly: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordSubscription(operation, "error", start)
		return nil, fmt.Errorf("failed to read Calendly response: %w", err)
	}

	status := "success"
	if resp.StatusCode >= 400 {
		status = "error"
	}
	c.recordSubscription(operation, status, start)

	return &SubscriptionResult{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) recordSubscription(operation, status string, start time.Time) {
	duration := metrics.MeasureDuration(start)
	metrics.CalendlyRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.CalendlyRequestTotal.WithLabelValues(operation, status).Inc()
	logger.LogAPICall("calendly", operation, status, duration)
}
