package mapping

import (
	"strings"

	"github.com/leadbridge/leadbridge-api/config"
	"github.com/leadbridge/leadbridge-api/internal/models"
)

// FieldKeys lists the acceptable question texts for a first-class lead
// field, in preference order. Matching is case-sensitive, which is why the
// defaults carry both spellings.
type FieldKeys struct {
	City    []string
	Address []string
}

// MapperConfig is the immutable field-mapping configuration, built once at
// startup from the process configuration.
type MapperConfig struct {
	UsergroupID         string
	KeepConsumedAnswers bool
	SegmentFieldKeys    map[string]FieldKeys
	GenericFieldKeys    FieldKeys
}

// NewMapperConfig builds the mapper configuration. Per-segment key tables
// reflect the booking forms used by each segment's event types; segments
// without an entry use the generic two-key fallback.
func NewMapperConfig(cfg *config.Config) MapperConfig {
	return MapperConfig{
		UsergroupID:         cfg.CRM.UsergroupID,
		KeepConsumedAnswers: cfg.Lead.KeepConsumedAnswers,
		SegmentFieldKeys: map[string]FieldKeys{
			SegmentKeyCRO: {
				City:    []string{"City", "city", "Your City", "Which city are you from?"},
				Address: []string{"Address", "address", "Your Address"},
			},
			SegmentKeyPerformance: {
				City:    []string{"City", "city"},
				Address: []string{"Address", "address", "Office Address"},
			},
		},
		GenericFieldKeys: FieldKeys{
			City:    []string{"City", "city"},
			Address: []string{"Address", "address"},
		},
	}
}

// BuildLead maps a normalized invite and its resolved segment onto the CRM
// lead schema.
func BuildLead(invite NormalizedInvite, seg SegmentAssignment, cfg MapperConfig) models.LeadPayload {
	consumed := make(map[int]bool)

	fieldKeys, ok := cfg.SegmentFieldKeys[seg.Key]
	if !ok {
		fieldKeys = cfg.GenericFieldKeys
	}

	city := answerForKeys(invite.QuestionsAndAnswers, fieldKeys.City, consumed)
	address := answerForKeys(invite.QuestionsAndAnswers, fieldKeys.Address, consumed)

	return models.LeadPayload{
		Name:        inviteeName(invite.Invitee),
		Email:       stringField(invite.Invitee, "email"),
		Mobile:      inviteeMobile(invite.Invitee, invite.QuestionsAndAnswers),
		City:        city,
		Address:     address,
		UsergroupID: cfg.UsergroupID,
		SegmentID:   seg.ID,
		Otherparams: buildOtherparams(invite, seg, consumed, cfg.KeepConsumedAnswers),
	}
}

// inviteeName prefers the full-name field, then first+last, then "Unknown".
func inviteeName(invitee map[string]any) string {
	if name := stringField(invitee, "name"); name != "" {
		return name
	}

	first := stringField(invitee, "first_name")
	last := stringField(invitee, "last_name")
	full := strings.TrimSpace(first + " " + last)
	if full != "" {
		return full
	}
	return "Unknown"
}

// inviteeMobile resolves the phone number: SMS-reminder number, then the
// generic phone field, then a booking-form question mentioning "mobile".
func inviteeMobile(invitee map[string]any, questions []models.QuestionAnswer) string {
	if number := stringField(invitee, "text_reminder_number"); number != "" {
		return number
	}
	if number := stringField(invitee, "phone_number"); number != "" {
		return number
	}

	for _, qa := range questions {
		if strings.Contains(strings.ToLower(qa.Question), "mobile") {
			if answer := collapseWhitespace(qa.Answer); answer != "" {
				return answer
			}
		}
	}
	return ""
}

// answerForKeys finds the first question whose text equals one of keys
// (case-sensitive, in key order) and whose answer is non-empty after
// trimming. Matched question indexes are recorded in consumed.
func answerForKeys(questions []models.QuestionAnswer, keys []string, consumed map[int]bool) string {
	for _, key := range keys {
		for i, qa := range questions {
			if qa.Question != key {
				continue
			}
			if answer := strings.TrimSpace(qa.Answer); answer != "" {
				consumed[i] = true
				return answer
			}
		}
	}
	return ""
}

// buildOtherparams emits one entry per booking-form answer in input order,
// then the fixed event metadata entries. Answers already promoted to the
// city/address fields are skipped unless keepConsumed is set.
func buildOtherparams(invite NormalizedInvite, seg SegmentAssignment, consumed map[int]bool, keepConsumed bool) []models.MetaParam {
	params := make([]models.MetaParam, 0, len(invite.QuestionsAndAnswers)+5)

	for i, qa := range invite.QuestionsAndAnswers {
		if consumed[i] && !keepConsumed {
			continue
		}
		params = append(params, models.MetaParam{
			MetaKey:   metaKey(qa.Question),
			MetaValue: qa.Answer,
		})
	}

	eventName := seg.EventTypeName
	if eventName == "" {
		eventName = seg.Key
	}
	params = append(params, models.MetaParam{MetaKey: "event_name", MetaValue: eventName})
	params = append(params, models.MetaParam{MetaKey: "start_time", MetaValue: stringField(invite.ScheduledEvent, "start_time")})

	// Fixed tail entries, appended only when the payload carried them
	if end := stringField(invite.ScheduledEvent, "end_time"); end != "" {
		params = append(params, models.MetaParam{MetaKey: "end_time", MetaValue: end})
	}
	if tz := stringField(invite.Invitee, "timezone"); tz != "" {
		params = append(params, models.MetaParam{MetaKey: "invitee_timezone", MetaValue: tz})
	}
	if uri := stringField(invite.ScheduledEvent, "uri"); uri != "" {
		params = append(params, models.MetaParam{MetaKey: "event_uri", MetaValue: uri})
	}

	return params
}

// metaKey collapses whitespace in a question text and joins the words with
// underscores: "Your  City " -> "Your_City".
func metaKey(question string) string {
	return strings.Join(strings.Fields(question), "_")
}

// collapseWhitespace trims and squeezes runs of whitespace to single
// spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stringField reads a string-convertible field from an object, trimmed.
// Returns "" for nil objects and missing fields.
func stringField(obj map[string]any, key string) string {
	if obj == nil {
		return ""
	}
	return strings.TrimSpace(stringValue(obj[key]))
}
