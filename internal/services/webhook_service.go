package services

import (
	"context"

	"github.com/leadbridge/leadbridge-api/internal/mapping"
	"github.com/leadbridge/leadbridge-api/internal/models"
	"github.com/leadbridge/leadbridge-api/pkg/logger"
	"github.com/leadbridge/leadbridge-api/pkg/metrics"
	"github.com/leadbridge/leadbridge-api/pkg/tracing"
	"go.uber.org/zap"
)

// WebhookService turns one parsed webhook body into a forwarded lead:
// normalize, resolve segment, map, forward. All configuration is
// immutable after construction.
type WebhookService struct {
	segments   *mapping.SegmentTable
	mapperCfg  mapping.MapperConfig
	eventTypes EventTypeResolver
	forwarder  LeadForwarder
}

func NewWebhookService(
	segments *mapping.SegmentTable,
	mapperCfg mapping.MapperConfig,
	eventTypes EventTypeResolver,
	forwarder LeadForwarder,
) WebhookServiceInterface {
	return &WebhookService{
		segments:   segments,
		mapperCfg:  mapperCfg,
		eventTypes: eventTypes,
		forwarder:  forwarder,
	}
}

// ProcessInvitee handles one invitee.created delivery. An incomplete
// payload is a soft failure (Success=false, nil error): the caller
// acknowledges it so the provider does not retry. A forwarding failure is
// returned as an error.
func (s *WebhookService) ProcessInvitee(ctx context.Context, body map[string]any) (*models.WebhookResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "webhook.process_invitee")
	defer span.End()

	invite := mapping.Normalize(body)
	if !invite.Complete() {
		metrics.WebhooksReceived.WithLabelValues("incomplete").Inc()
		logger.Warn("Webhook payload missing invitee or event data",
			zap.Bool("has_invitee", invite.Invitee != nil),
			zap.Bool("has_event", invite.ScheduledEvent != nil))
		return &models.WebhookResponse{
			Success: false,
			Error:   "Could not locate invitee or scheduled event in payload",
		}, nil
	}

	eventName := invite.EventTypeName()
	if eventName == "" {
		// The name may only be reachable through the event-type resource.
		// Lookup failures resolve to "" and fall through to the default
		// segment; the webhook must not fail on this secondary call.
		eventName = s.eventTypes.GetEventTypeName(ctx, invite.EventTypeURI())
	}

	seg := s.segments.Resolve(eventName)
	lead := mapping.BuildLead(invite, seg, s.mapperCfg)

	logger.Info("Mapped invitee to lead",
		zap.String("email", lead.Email),
		zap.String("event_name", eventName),
		zap.String("segment", seg.Key),
		zap.String("segmentid", seg.ID),
		zap.Int("otherparams", len(lead.Otherparams)))

	if _, err := s.forwarder.ForwardLead(ctx, &lead); err != nil {
		metrics.WebhooksReceived.WithLabelValues("forward_failed").Inc()
		return nil, err
	}

	metrics.WebhooksReceived.WithLabelValues("forwarded").Inc()
	return &models.WebhookResponse{
		Success:   true,
		Message:   "Lead forwarded",
		Segment:   seg.Key,
		SegmentID: seg.ID,
	}, nil
}
