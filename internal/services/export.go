package services

import (
	ics "github.com/arran4/golang-ical"

	"aical.dev/aical/pkg/gcal"
)

// ExportICS renders the currently aggregated events as an iCalendar feed so
// external calendar apps can subscribe to the filtered aggregate.
func (service *SessionService) ExportICS() string {
	return buildICS(service.Events())
}

func buildICS(events []gcal.Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	for _, event := range events {
		entry := cal.AddEvent(event.ID)
		entry.SetSummary(event.Summary)

		if event.Description != "" {
			entry.SetDescription(event.Description)
		}

		if event.Organizer != nil && event.Organizer.Email != "" {
			entry.SetOrganizer(event.Organizer.Email)
		}

		if event.Start != nil {
			if start, allDay, err := event.Start.Time(); err == nil {
				if allDay {
					entry.SetAllDayStartAt(start)
				} else {
					entry.SetStartAt(start)
				}
			}
		}

		if event.End != nil {
			if end, allDay, err := event.End.Time(); err == nil {
				if allDay {
					entry.SetAllDayEndAt(end)
				} else {
					entry.SetEndAt(end)
				}
			}
		}
	}

	return cal.Serialize()
}
