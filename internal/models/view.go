package models

import (
	"fmt"
	"time"

	"aical.dev/aical/pkg/gcal"
)

type ViewMode string

const (
	ViewDay    ViewMode = "day"
	ViewWeek   ViewMode = "week"
	ViewMonth  ViewMode = "month"
	ViewAgenda ViewMode = "agenda"
)

func ParseViewMode(value string) (ViewMode, error) {
	switch ViewMode(value) {
	case ViewDay, ViewWeek, ViewMonth, ViewAgenda:
		return ViewMode(value), nil
	default:
		return "", fmt.Errorf("unknown view mode %q", value)
	}
}

// ViewState is purely local UI-adjacent state, never persisted.
type ViewState struct {
	CurrentDate    time.Time   `json:"currentDate"`
	ActiveView     ViewMode    `json:"activeView"`
	SidebarOpen    bool        `json:"sidebarOpen"`
	EventModalOpen bool        `json:"eventModalOpen"`
	SelectedEvent  *gcal.Event `json:"selectedEvent,omitempty"`
}
