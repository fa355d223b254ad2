package dtos

import (
	"aical.dev/aical/internal/models"
	"aical.dev/aical/pkg/gcal"
)

// CalendarEntryDto is a calendar-list entry together with its current filter
// flag.
type CalendarEntryDto struct {
	gcal.Calendar
	Active bool `json:"active"`
}

// SessionStateDto is the full store snapshot handed to the presentation
// layer.
type SessionStateDto struct {
	LoggedIn    bool                `json:"loggedIn"`
	Profile     *models.UserProfile `json:"profile,omitempty"`
	IsLoading   bool                `json:"isLoading"`
	Error       string              `json:"error,omitempty"`
	Calendars   []CalendarEntryDto  `json:"calendars"`
	EventCount  int                 `json:"eventCount"`
	View        models.ViewState    `json:"view"`
}

type ViewDto struct {
	ActiveView  string `json:"activeView"`
	CurrentDate string `json:"currentDate"`
}

func (dto *ViewDto) Validate() (bool, map[string]string) {
	errs := make(map[string]string)

	if dto.ActiveView == "" && dto.CurrentDate == "" {
		errs["activeView"] = "nothing to change"
	}

	return len(errs) == 0, errs
}
