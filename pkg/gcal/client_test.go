package gcal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/logging"

	"aical.dev/aical/pkg/gcal"
)

const calendarListBody = `{
	"items": [
		{"id": "primary-cal", "summary": "Personal", "backgroundColor": "#9fe1e7", "primary": true},
		{"id": "work-cal", "summary": "Work", "backgroundColor": "#fbd75b", "selected": true},
		{"id": "holidays", "summary": "Holidays", "primary": true, "selected": false}
	]
}`

func TestListCalendars(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/me/calendarList", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")

			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck //test server
			w.Write([]byte(calendarListBody))
		}),
	)
	defer ts.Close()

	client := gcal.NewWithBaseURL(logging.NewNopLogger(), ts.URL)

	calendars, err := client.ListCalendars(context.Background(), "token123")
	require.NoError(t, err)
	require.Len(t, calendars, 3)

	assert.Equal(t, "Bearer token123", gotAuth)

	assert.Equal(t, "primary-cal", calendars[0].ID)
	assert.True(t, calendars[0].DefaultSelected())
	assert.True(t, calendars[1].DefaultSelected())
	// an explicit selected flag wins over the primary flag
	assert.False(t, calendars[2].DefaultSelected())
}

func TestListCalendarsAuthExpired(t *testing.T) {
	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			//nolint:errcheck //test server
			w.Write([]byte(`{"error": {"code": 401, "message": "Invalid Credentials"}}`))
		}),
	)
	defer ts.Close()

	client := gcal.NewWithBaseURL(logging.NewNopLogger(), ts.URL)

	_, err := client.ListCalendars(context.Background(), "stale")
	assert.ErrorIs(t, err, gcal.ErrAuthExpired)
}

func TestListEventsPermissionDenied(t *testing.T) {
	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			//nolint:errcheck //test server
			w.Write([]byte(
				`{"error": {"code": 403, "message": "Insufficient Permission",
				"errors": [{"reason": "insufficientPermissions"}]}}`,
			))
		}),
	)
	defer ts.Close()

	client := gcal.NewWithBaseURL(logging.NewNopLogger(), ts.URL)

	_, err := client.ListEvents(context.Background(), "token", []string{"a"})
	assert.ErrorIs(t, err, gcal.ErrPermissionDenied)
}

func TestListEventsPartialFailure(t *testing.T) {
	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
			assert.Equal(t, "startTime", r.URL.Query().Get("orderBy"))
			assert.NotEmpty(t, r.URL.Query().Get("timeMin"))
			assert.NotEmpty(t, r.URL.Query().Get("timeMax"))

			switch r.URL.Path {
			case "/calendars/good/events":
				w.Header().Set("Content-Type", "application/json")
				//nolint:errcheck //test server
				w.Write([]byte(
					`{"items": [{"id": "ev1", "summary": "Standup"},
					{"id": "ev2", "summary": "Review"}]}`,
				))
			case "/calendars/broken/events":
				w.WriteHeader(http.StatusInternalServerError)
				//nolint:errcheck //test server
				w.Write([]byte(`{"error": {"code": 500, "message": "Backend Error"}}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}),
	)
	defer ts.Close()

	client := gcal.NewWithBaseURL(logging.NewNopLogger(), ts.URL)

	events, err := client.ListEvents(
		context.Background(),
		"token",
		[]string{"good", "broken"},
	)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "ev1", events[0].ID)
	assert.Equal(t, "good", events[0].CalendarID)
	assert.Equal(t, "good", events[1].CalendarID)
}

func TestCreateEvent(t *testing.T) {
	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/calendars/work-cal/events", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck //test server
			w.Write([]byte(`{"id": "new-ev", "summary": "Planning", "status": "confirmed"}`))
		}),
	)
	defer ts.Close()

	client := gcal.NewWithBaseURL(logging.NewNopLogger(), ts.URL)

	//nolint:exhaustruct //other fields are optional
	created, err := client.CreateEvent(
		context.Background(),
		"token",
		"work-cal",
		gcal.Event{Summary: "Planning"},
	)
	require.NoError(t, err)

	assert.Equal(t, "new-ev", created.ID)
	assert.Equal(t, "work-cal", created.CalendarID)
}

func TestUpdateEvent(t *testing.T) {
	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/calendars/work-cal/events/ev1", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck //test server
			w.Write([]byte(`{"id": "ev1", "summary": "Renamed"}`))
		}),
	)
	defer ts.Close()

	client := gcal.NewWithBaseURL(logging.NewNopLogger(), ts.URL)

	//nolint:exhaustruct //other fields are optional
	updated, err := client.UpdateEvent(
		context.Background(),
		"token",
		"work-cal",
		"ev1",
		gcal.Event{Summary: "Renamed"},
	)
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Summary)
	assert.Equal(t, "work-cal", updated.CalendarID)
}

func TestDeleteEvent(t *testing.T) {
	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/calendars/work-cal/events/ev1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}),
	)
	defer ts.Close()

	client := gcal.NewWithBaseURL(logging.NewNopLogger(), ts.URL)

	err := client.DeleteEvent(context.Background(), "token", "work-cal", "ev1")
	assert.NoError(t, err)
}
