package gcal

import (
	"context"
	"net/http"
)

const CalendarListEndpoint = "users/me/calendarList"

type Calendar struct {
	ID              string `json:"id"`
	Summary         string `json:"summary"`
	BackgroundColor string `json:"backgroundColor"`
	Primary         bool   `json:"primary"`
	Selected        *bool  `json:"selected"`
}

// DefaultSelected is the initial filter value for a calendar: the upstream
// selected flag when present, otherwise whether it is the primary calendar.
func (c Calendar) DefaultSelected() bool {
	if c.Selected != nil {
		return *c.Selected
	}
	return c.Primary
}

func (client client) ListCalendars(
	ctx context.Context,
	token string,
) ([]Calendar, error) {
	var list struct {
		Items []Calendar `json:"items"`
	}

	err := client.sendRequest(
		ctx,
		token,
		http.MethodGet,
		CalendarListEndpoint,
		"",
		nil,
		&list,
	)
	if err != nil {
		return nil, err
	}

	return list.Items, nil
}
