package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
)

const maxResultsPerCalendar = 250

type EventDateTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Time resolves the timed or all-day value. The second return value reports
// whether this is an all-day date.
func (dt EventDateTime) Time() (time.Time, bool, error) {
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		return t, false, err
	}

	t, err := time.Parse("2006-01-02", dt.Date)
	return t, true, err
}

type Organizer struct {
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Self        bool   `json:"self,omitempty"`
}

// Event models the fields this application understands. Everything else the
// provider sends lands in Extra and is sent back untouched on updates, so a
// PUT does not strip fields the local model never learned about.
type Event struct {
	ID          string         `json:"id,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Description string         `json:"description,omitempty"`
	Start       *EventDateTime `json:"start,omitempty"`
	End         *EventDateTime `json:"end,omitempty"`
	Organizer   *Organizer     `json:"organizer,omitempty"`
	Status      string         `json:"status,omitempty"`

	// CalendarID is set locally after a fetch, it is not an upstream field.
	CalendarID string `json:"-"`

	Extra map[string]json.RawMessage `json:"-"`
}

//nolint:gochecknoglobals //mirrors the Event json tags
var knownEventFields = []string{
	"id", "summary", "description", "start", "end", "organizer", "status",
}

type eventAlias Event

func (e *Event) UnmarshalJSON(data []byte) error {
	var alias eventAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, field := range knownEventFields {
		delete(raw, field)
	}

	*e = Event(alias)
	if len(raw) > 0 {
		e.Extra = raw
	}

	return nil
}

func (e Event) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(eventAlias(e))
	if err != nil {
		return nil, err
	}

	if len(e.Extra) == 0 {
		return known, nil
	}

	var merged map[string]json.RawMessage
	if err = json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}

	for field, value := range e.Extra {
		if _, ok := merged[field]; !ok {
			merged[field] = value
		}
	}

	return json.Marshal(merged)
}

func eventsEndpoint(calendarID string) string {
	return fmt.Sprintf("calendars/%s/events", url.PathEscape(calendarID))
}

func eventEndpoint(calendarID, eventID string) string {
	return fmt.Sprintf(
		"calendars/%s/events/%s",
		url.PathEscape(calendarID),
		url.PathEscape(eventID),
	)
}

// ListEvents fetches every calendar concurrently and flattens the results.
// A single calendar failing is logged and contributes an empty list, except
// for auth failures which affect every calendar alike and abort the whole
// aggregation. Cross-calendar ordering is unspecified; within one calendar
// the upstream startTime ordering is preserved.
func (client client) ListEvents(
	ctx context.Context,
	token string,
	calendarIDs []string,
) ([]Event, error) {
	now := time.Now()
	timeMin := now.AddDate(0, -1, 0)
	timeMax := now.AddDate(0, 2, 0)

	perCalendar := make([][]Event, len(calendarIDs))
	errs := make([]error, len(calendarIDs))

	var wg sync.WaitGroup
	for i, calendarID := range calendarIDs {
		wg.Add(1)
		go func(i int, calendarID string) {
			defer wg.Done()
			perCalendar[i], errs[i] = client.listCalendarEvents(
				ctx,
				token,
				calendarID,
				timeMin,
				timeMax,
			)
		}(i, calendarID)
	}
	wg.Wait()

	events := []Event{}
	for i, err := range errs {
		if err != nil {
			if errors.Is(err, ErrAuthExpired) || errors.Is(err, ErrPermissionDenied) {
				return nil, err
			}

			client.logger.Warn("failed to fetch events for calendar",
				slog.String("calendarID", calendarIDs[i]),
				logging.ErrAttr(err),
			)
			continue
		}

		events = append(events, perCalendar[i]...)
	}

	return events, nil
}

func (client client) listCalendarEvents(
	ctx context.Context,
	token string,
	calendarID string,
	timeMin time.Time,
	timeMax time.Time,
) ([]Event, error) {
	query := url.Values{}
	query.Set("timeMin", timeMin.Format(time.RFC3339))
	query.Set("timeMax", timeMax.Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")
	query.Set("maxResults", strconv.Itoa(maxResultsPerCalendar))

	var list struct {
		Items []Event `json:"items"`
	}

	err := client.sendRequest(
		ctx,
		token,
		http.MethodGet,
		eventsEndpoint(calendarID),
		query.Encode(),
		nil,
		&list,
	)
	if err != nil {
		return nil, err
	}

	for i := range list.Items {
		list.Items[i].CalendarID = calendarID
	}

	return list.Items, nil
}

func (client client) CreateEvent(
	ctx context.Context,
	token string,
	calendarID string,
	event Event,
) (*Event, error) {
	var created Event
	err := client.sendRequest(
		ctx,
		token,
		http.MethodPost,
		eventsEndpoint(calendarID),
		"",
		event,
		&created,
	)
	if err != nil {
		return nil, err
	}

	created.CalendarID = calendarID
	return &created, nil
}

func (client client) UpdateEvent(
	ctx context.Context,
	token string,
	calendarID string,
	eventID string,
	event Event,
) (*Event, error) {
	var updated Event
	err := client.sendRequest(
		ctx,
		token,
		http.MethodPut,
		eventEndpoint(calendarID, eventID),
		"",
		event,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	updated.CalendarID = calendarID
	return &updated, nil
}

func (client client) DeleteEvent(
	ctx context.Context,
	token string,
	calendarID string,
	eventID string,
) error {
	return client.sendRequest(
		ctx,
		token,
		http.MethodDelete,
		eventEndpoint(calendarID, eventID),
		"",
		nil,
		nil,
	)
}
