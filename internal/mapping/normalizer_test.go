package mapping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseBody(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body
}

func TestNormalize_FlattenedPayloadShape(t *testing.T) {
	body := parseBody(t, `{
		"event": "invitee.created",
		"payload": {
			"name": "Jane Doe",
			"email": "jane@x.com",
			"scheduled_event": {"name": "Website CRO Meet", "start_time": "2024-01-01T10:00:00Z"},
			"questions_and_answers": [
				{"question": "City", "answer": "Austin"}
			]
		}
	}`)

	invite := Normalize(body)

	require.True(t, invite.Complete())
	assert.Equal(t, "Jane Doe", invite.Invitee["name"])
	assert.Equal(t, "Website CRO Meet", invite.ScheduledEvent["name"])
	require.Len(t, invite.QuestionsAndAnswers, 1)
	assert.Equal(t, "City", invite.QuestionsAndAnswers[0].Question)
	assert.Equal(t, "Austin", invite.QuestionsAndAnswers[0].Answer)
}

func TestNormalize_NestedDataShape(t *testing.T) {
	body := parseBody(t, `{
		"event": "invitee.created",
		"data": {
			"payload": {
				"email": "bob@x.com",
				"scheduled_event": {"name": "Performance Review"},
				"questions_and_answers": [
					{"question": "Mobile Number", "answer": "555 1234"}
				]
			}
		}
	}`)

	invite := Normalize(body)

	require.True(t, invite.Complete())
	assert.Equal(t, "bob@x.com", invite.Invitee["email"])
	assert.Equal(t, "Performance Review", invite.ScheduledEvent["name"])
	require.Len(t, invite.QuestionsAndAnswers, 1)
}

func TestNormalize_MixedShapeResolvesFieldByField(t *testing.T) {
	// Invitee under payload, event and questions only under data.payload
	body := parseBody(t, `{
		"payload": {"name": "Mixed Case"},
		"data": {
			"payload": {
				"scheduled_event": {"name": "CRO Audit"},
				"questions_and_answers": [{"question": "City", "answer": "Pune"}]
			}
		}
	}`)

	invite := Normalize(body)

	require.True(t, invite.Complete())
	assert.Equal(t, "Mixed Case", invite.Invitee["name"])
	assert.Equal(t, "CRO Audit", invite.ScheduledEvent["name"])
	require.Len(t, invite.QuestionsAndAnswers, 1)
}

func TestNormalize_PreferredShapeWins(t *testing.T) {
	body := parseBody(t, `{
		"payload": {
			"name": "Primary",
			"scheduled_event": {"name": "Primary Event"},
			"questions_and_answers": [{"question": "A", "answer": "1"}]
		},
		"data": {
			"payload": {
				"name": "Secondary",
				"scheduled_event": {"name": "Secondary Event"},
				"questions_and_answers": [{"question": "B", "answer": "2"}]
			}
		}
	}`)

	invite := Normalize(body)

	assert.Equal(t, "Primary", invite.Invitee["name"])
	assert.Equal(t, "Primary Event", invite.ScheduledEvent["name"])
	require.Len(t, invite.QuestionsAndAnswers, 1)
	assert.Equal(t, "A", invite.QuestionsAndAnswers[0].Question)
}

func TestNormalize_MissingEverything(t *testing.T) {
	invite := Normalize(parseBody(t, `{"event": "invitee.created"}`))

	assert.False(t, invite.Complete())
	assert.Nil(t, invite.Invitee)
	assert.Nil(t, invite.ScheduledEvent)
	assert.NotNil(t, invite.QuestionsAndAnswers)
	assert.Empty(t, invite.QuestionsAndAnswers)
}

func TestNormalize_MissingEventOnly(t *testing.T) {
	invite := Normalize(parseBody(t, `{"payload": {"name": "No Event"}}`))

	assert.False(t, invite.Complete())
	assert.NotNil(t, invite.Invitee)
	assert.Nil(t, invite.ScheduledEvent)
}

func TestNormalize_QuestionsNeverNil(t *testing.T) {
	invite := Normalize(parseBody(t, `{
		"payload": {"name": "X", "scheduled_event": {"name": "Y"}}
	}`))

	assert.NotNil(t, invite.QuestionsAndAnswers)
	assert.Empty(t, invite.QuestionsAndAnswers)
}

func TestNormalize_NonStringAnswers(t *testing.T) {
	invite := Normalize(parseBody(t, `{
		"payload": {
			"name": "X",
			"scheduled_event": {"name": "Y"},
			"questions_and_answers": [
				{"question": "Attendees", "answer": 3},
				{"question": "Topics", "answer": ["SEO", "Ads"]},
				{"question": "Empty", "answer": null}
			]
		}
	}`))

	require.Len(t, invite.QuestionsAndAnswers, 3)
	assert.Equal(t, "3", invite.QuestionsAndAnswers[0].Answer)
	assert.Equal(t, "SEO, Ads", invite.QuestionsAndAnswers[1].Answer)
	assert.Equal(t, "", invite.QuestionsAndAnswers[2].Answer)
}

func TestNormalize_MalformedQuestionEntriesSkipped(t *testing.T) {
	invite := Normalize(parseBody(t, `{
		"payload": {
			"name": "X",
			"scheduled_event": {"name": "Y"},
			"questions_and_answers": ["bogus", {"question": "Real", "answer": "Yes"}]
		}
	}`))

	require.Len(t, invite.QuestionsAndAnswers, 1)
	assert.Equal(t, "Real", invite.QuestionsAndAnswers[0].Question)
}
