package gcal_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aical.dev/aical/pkg/gcal"
)

func TestEventDateTime(t *testing.T) {
	timed := gcal.EventDateTime{DateTime: "2026-03-14T09:30:00+01:00"}
	start, allDay, err := timed.Time()
	require.NoError(t, err)
	assert.False(t, allDay)
	assert.Equal(t, 9, start.Hour())

	wholeDay := gcal.EventDateTime{Date: "2026-03-14"}
	start, allDay, err = wholeDay.Time()
	require.NoError(t, err)
	assert.True(t, allDay)
	assert.Equal(t, time.March, start.Month())
}

func TestEventKeepsUnknownFields(t *testing.T) {
	body := `{
		"id": "ev1",
		"summary": "Standup",
		"status": "confirmed",
		"htmlLink": "https://example.com/ev1",
		"reminders": {"useDefault": true}
	}`

	var event gcal.Event
	require.NoError(t, json.Unmarshal([]byte(body), &event))

	assert.Equal(t, "ev1", event.ID)
	assert.Equal(t, "Standup", event.Summary)
	assert.Contains(t, event.Extra, "htmlLink")
	assert.Contains(t, event.Extra, "reminders")

	event.Summary = "Renamed"

	out, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))

	// the edit survives and the fields this model never learned about are
	// sent back untouched
	assert.JSONEq(t, `"Renamed"`, string(raw["summary"]))
	assert.JSONEq(t, `{"useDefault": true}`, string(raw["reminders"]))
	assert.JSONEq(t, `"https://example.com/ev1"`, string(raw["htmlLink"]))
}

func TestEventMarshalWithoutExtra(t *testing.T) {
	//nolint:exhaustruct //other fields are optional
	event := gcal.Event{
		ID:      "ev1",
		Summary: "Standup",
		Start:   &gcal.EventDateTime{DateTime: "2026-03-14T09:30:00Z"},
	}

	out, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))

	assert.NotContains(t, raw, "calendarId")
	assert.NotContains(t, raw, "description")
}
