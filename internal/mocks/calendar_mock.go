package mocks

import (
	"context"
	"sync"

	"aical.dev/aical/pkg/gcal"
)

// MockCalendarClient is a hand-written in-memory stand-in for the calendar
// gateway. It records every ListEvents call so tests can assert on the
// short-circuit behavior of the session store.
type MockCalendarClient struct {
	mu sync.Mutex

	Calendars        []gcal.Calendar
	EventsByCalendar map[string][]gcal.Event

	// ListCalendarsErr and ListEventsErr fail the whole call when set.
	ListCalendarsErr error
	ListEventsErr    error

	// Gate, when set, is invoked before ListEvents returns; tests use it to
	// stall one aggregation behind another.
	Gate func(calendarIDs []string)

	ListEventsCalls [][]string
}

func NewMockCalendarClient() *MockCalendarClient {
	return &MockCalendarClient{
		EventsByCalendar: make(map[string][]gcal.Event),
	}
}

func (m *MockCalendarClient) ListCalendars(
	_ context.Context,
	_ string,
) ([]gcal.Calendar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListCalendarsErr != nil {
		return nil, m.ListCalendarsErr
	}

	return m.Calendars, nil
}

func (m *MockCalendarClient) ListEvents(
	_ context.Context,
	_ string,
	calendarIDs []string,
) ([]gcal.Event, error) {
	m.mu.Lock()
	m.ListEventsCalls = append(m.ListEventsCalls, calendarIDs)
	gate := m.Gate
	err := m.ListEventsErr

	events := []gcal.Event{}
	for _, calendarID := range calendarIDs {
		for _, event := range m.EventsByCalendar[calendarID] {
			event.CalendarID = calendarID
			events = append(events, event)
		}
	}
	m.mu.Unlock()

	if gate != nil {
		gate(calendarIDs)
	}

	if err != nil {
		return nil, err
	}

	return events, nil
}

func (m *MockCalendarClient) CreateEvent(
	_ context.Context,
	_ string,
	calendarID string,
	event gcal.Event,
) (*gcal.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListEventsErr != nil {
		return nil, m.ListEventsErr
	}

	event.CalendarID = calendarID
	if event.ID == "" {
		event.ID = "created"
	}
	m.EventsByCalendar[calendarID] = append(m.EventsByCalendar[calendarID], event)

	return &event, nil
}

func (m *MockCalendarClient) UpdateEvent(
	_ context.Context,
	_ string,
	calendarID string,
	eventID string,
	event gcal.Event,
) (*gcal.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event.ID = eventID
	event.CalendarID = calendarID

	events := m.EventsByCalendar[calendarID]
	for i := range events {
		if events[i].ID == eventID {
			events[i] = event
			break
		}
	}

	return &event, nil
}

func (m *MockCalendarClient) DeleteEvent(
	_ context.Context,
	_ string,
	calendarID string,
	eventID string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := m.EventsByCalendar[calendarID]
	for i := range events {
		if events[i].ID == eventID {
			m.EventsByCalendar[calendarID] = append(events[:i], events[i+1:]...)
			break
		}
	}

	return nil
}

// ListEventsCallCount returns how many aggregations hit the gateway.
func (m *MockCalendarClient) ListEventsCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ListEventsCalls)
}
