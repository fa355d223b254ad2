package gcal

import (
	"context"
)

type Client interface {
	ListCalendars(ctx context.Context, token string) ([]Calendar, error)
	ListEvents(
		ctx context.Context,
		token string,
		calendarIDs []string,
	) ([]Event, error)
	CreateEvent(
		ctx context.Context,
		token string,
		calendarID string,
		event Event,
	) (*Event, error)
	UpdateEvent(
		ctx context.Context,
		token string,
		calendarID string,
		eventID string,
		event Event,
	) (*Event, error)
	DeleteEvent(
		ctx context.Context,
		token string,
		calendarID string,
		eventID string,
	) error
}
