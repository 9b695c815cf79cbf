package mapping

import (
	"fmt"
	"strings"

	"github.com/leadbridge/leadbridge-api/internal/models"
	"github.com/leadbridge/leadbridge-api/pkg/logger"
	"go.uber.org/zap"
)

// NormalizedInvite is the shape-independent view of one webhook delivery.
// Invitee and ScheduledEvent are nil when neither payload shape carried
// them; QuestionsAndAnswers is never nil.
type NormalizedInvite struct {
	Invitee             map[string]any
	ScheduledEvent      map[string]any
	QuestionsAndAnswers []models.QuestionAnswer
}

// Complete reports whether both invitee and event data were located.
// Incomplete invites are acknowledged but not forwarded.
func (n NormalizedInvite) Complete() bool {
	return n.Invitee != nil && n.ScheduledEvent != nil
}

// EventTypeName returns the event type's display name, when the payload
// carried it inline.
func (n NormalizedInvite) EventTypeName() string {
	return stringField(n.ScheduledEvent, "name")
}

// EventTypeURI returns the URI of the event-type resource, used for the
// API lookup when the name is absent.
func (n NormalizedInvite) EventTypeURI() string {
	return stringField(n.ScheduledEvent, "event_type")
}

// Normalize locates invitee, scheduled-event and question data in a parsed
// webhook body. Two delivery shapes are known:
//
//	(a) invitee fields flattened under "payload", event details under
//	    "payload.scheduled_event";
//	(b) the same payload nested one level deeper under "data.payload".
//
// Each field prefers shape (a) and falls back to shape (b) independently,
// so mixed-shape documents still resolve.
func Normalize(body map[string]any) NormalizedInvite {
	invitee, inviteeLoc := firstObject(
		location{"payload", objectAt(body, "payload")},
		location{"data.payload", objectAt(body, "data", "payload")},
	)
	event, eventLoc := firstObject(
		location{"payload.scheduled_event", objectAt(body, "payload", "scheduled_event")},
		location{"data.payload.scheduled_event", objectAt(body, "data", "payload", "scheduled_event")},
	)

	questions := questionsAt(body, "payload", "questions_and_answers")
	questionsLoc := "payload.questions_and_answers"
	if questions == nil {
		questions = questionsAt(body, "data", "payload", "questions_and_answers")
		questionsLoc = "data.payload.questions_and_answers"
	}
	if questions == nil {
		questions = []models.QuestionAnswer{}
		questionsLoc = "absent"
	}

	logger.Debug("Normalized webhook payload",
		zap.String("invitee_location", inviteeLoc),
		zap.String("event_location", eventLoc),
		zap.String("questions_location", questionsLoc),
		zap.Int("question_count", len(questions)),
	)

	return NormalizedInvite{
		Invitee:             invitee,
		ScheduledEvent:      event,
		QuestionsAndAnswers: questions,
	}
}

type location struct {
	path string
	obj  map[string]any
}

// firstObject returns the first candidate that resolved to an object,
// together with its path for diagnostics.
func firstObject(candidates ...location) (map[string]any, string) {
	for _, c := range candidates {
		if c.obj != nil {
			return c.obj, c.path
		}
	}
	return nil, "absent"
}

// objectAt walks the given key path and returns the object found there, or
// nil when any step is missing or not an object.
func objectAt(body map[string]any, path ...string) map[string]any {
	current := body
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// questionsAt reads a questions_and_answers sequence at the given path.
// Returns nil when absent so the caller can try the next location.
func questionsAt(body map[string]any, path ...string) []models.QuestionAnswer {
	parent := objectAt(body, path[:len(path)-1]...)
	if parent == nil {
		return nil
	}
	raw, ok := parent[path[len(path)-1]].([]any)
	if !ok {
		return nil
	}

	questions := make([]models.QuestionAnswer, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		questions = append(questions, models.QuestionAnswer{
			Question: stringValue(obj["question"]),
			Answer:   stringValue(obj["answer"]),
		})
	}
	return questions
}

// stringValue converts a JSON value to text. Non-string scalars are
// rendered with fmt so numeric answers still map onto lead fields.
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, stringValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
