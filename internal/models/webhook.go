package models

import "encoding/json"

// EventInviteeCreated is the only Calendly event this service processes;
// everything else is acknowledged and ignored.
const EventInviteeCreated = "invitee.created"

// WebhookEnvelope is Calendly's top-level event wrapper. Payload and Data
// stay raw: the two observed delivery shapes nest the invitee differently,
// so the normalizer resolves fields itself.
type WebhookEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Data    json.RawMessage `json:"data"`
}

// QuestionAnswer is one entry of a booking form's questions_and_answers.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// WebhookResponse is returned for POST /api/webhook.
type WebhookResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Segment   string `json:"segment,omitempty"`
	SegmentID string `json:"segmentid,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   string `json:"details,omitempty"`
}

// RegisterWebhookRequest carries the query parameters of
// GET /register-webhook.
type RegisterWebhookRequest struct {
	URL          string `form:"url" binding:"required,url"`
	Organization string `form:"organization" binding:"required"`
	Scope        string `form:"scope" binding:"required,oneof=organization user"`
}
