package dtos

import (
	"aical.dev/aical/pkg/gcal"
)

// UpsertEventDto wraps an event draft or patch together with the calendar it
// belongs to.
type UpsertEventDto struct {
	CalendarID string     `json:"calendarId"`
	Event      gcal.Event `json:"event"`
}

func (dto *UpsertEventDto) Validate() (bool, map[string]string) {
	errs := make(map[string]string)

	if dto.CalendarID == "" {
		errs["calendarId"] = "must be provided"
	}

	if dto.Event.Start == nil || dto.Event.End == nil {
		errs["event"] = "must have a start and an end"
	}

	return len(errs) == 0, errs
}
