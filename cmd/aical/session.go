package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	httptools "github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/parse"

	"aical.dev/aical/internal/dtos"
	"aical.dev/aical/internal/services"
)

func (app *Application) sessionRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(fmt.Sprintf("GET /%s/session", prefix), app.sessionHandler)
	mux.HandleFunc(fmt.Sprintf("POST /%s/view", prefix), app.viewHandler)
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/view/sidebar/toggle", prefix),
		app.sidebarToggleHandler,
	)

	mux.HandleFunc(fmt.Sprintf("GET /%s/calendars", prefix), app.calendarsHandler)
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/calendars/{id}/toggle", prefix),
		app.calendarToggleHandler,
	)

	mux.HandleFunc(fmt.Sprintf("GET /%s/events", prefix), app.eventsHandler)
	mux.HandleFunc(fmt.Sprintf("POST /%s/events", prefix), app.createEventHandler)
	mux.HandleFunc(
		fmt.Sprintf("PUT /%s/calendars/{calendarID}/events/{id}", prefix),
		app.updateEventHandler,
	)
	mux.HandleFunc(
		fmt.Sprintf("DELETE /%s/calendars/{calendarID}/events/{id}", prefix),
		app.deleteEventHandler,
	)
}

func (app *Application) sessionHandler(w http.ResponseWriter, _ *http.Request) {
	app.writeJSON(w, http.StatusOK, app.services.Session.State())
}

func (app *Application) viewHandler(w http.ResponseWriter, r *http.Request) {
	var viewDto dtos.ViewDto

	err := httptools.ReadJSON(r.Body, &viewDto)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if ok, errs := viewDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	if viewDto.ActiveView != "" {
		if err = app.services.Session.SetActiveView(viewDto.ActiveView); err != nil {
			app.writeError(w, http.StatusBadRequest, "invalid_view", err.Error())
			return
		}
	}

	if viewDto.CurrentDate != "" {
		date, parseErr := time.Parse(time.RFC3339, viewDto.CurrentDate)
		if parseErr != nil {
			app.writeError(w, http.StatusBadRequest, "invalid_date", parseErr.Error())
			return
		}
		app.services.Session.SetCurrentDate(date)
	}

	app.writeJSON(w, http.StatusOK, app.services.Session.State())
}

func (app *Application) sidebarToggleHandler(w http.ResponseWriter, _ *http.Request) {
	open := app.services.Session.ToggleSidebar()
	app.writeJSON(w, http.StatusOK, map[string]bool{"sidebarOpen": open})
}

// calendarsHandler bootstraps the calendar list and the first aggregation.
func (app *Application) calendarsHandler(w http.ResponseWriter, r *http.Request) {
	err := app.services.Session.LoadCalendars(r.Context())
	if err != nil {
		app.handleSessionError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, app.services.Session.Calendars())
}

func (app *Application) calendarToggleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parse.URLParam[string](r, "id", nil)
	if err != nil {
		panic(err)
	}

	err = app.services.Session.ToggleCalendar(r.Context(), id)
	if err != nil {
		app.handleSessionError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, app.services.Session.Calendars())
}

func (app *Application) eventsHandler(w http.ResponseWriter, r *http.Request) {
	err := app.services.Session.RefreshEvents(r.Context())
	if err != nil {
		app.handleSessionError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, app.services.Session.Events())
}

func (app *Application) createEventHandler(w http.ResponseWriter, r *http.Request) {
	var upsertDto dtos.UpsertEventDto

	err := httptools.ReadJSON(r.Body, &upsertDto)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if ok, errs := upsertDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	created, err := app.services.Session.CreateEvent(
		r.Context(),
		upsertDto.CalendarID,
		upsertDto.Event,
	)
	if err != nil {
		app.handleSessionError(w, err)
		return
	}

	app.writeJSON(w, http.StatusCreated, created)
}

func (app *Application) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	calendarID, err := parse.URLParam[string](r, "calendarID", nil)
	if err != nil {
		panic(err)
	}

	id, err := parse.URLParam[string](r, "id", nil)
	if err != nil {
		panic(err)
	}

	var upsertDto dtos.UpsertEventDto

	err = httptools.ReadJSON(r.Body, &upsertDto)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	updated, err := app.services.Session.UpdateEvent(
		r.Context(),
		calendarID,
		id,
		upsertDto.Event,
	)
	if err != nil {
		app.handleSessionError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, updated)
}

func (app *Application) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	calendarID, err := parse.URLParam[string](r, "calendarID", nil)
	if err != nil {
		panic(err)
	}

	id, err := parse.URLParam[string](r, "id", nil)
	if err != nil {
		panic(err)
	}

	err = app.services.Session.DeleteEvent(r.Context(), calendarID, id)
	if err != nil {
		app.handleSessionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) icsFeedHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/calendar")
	//nolint:errcheck //nothing left to do on a failed write
	w.Write([]byte(app.services.Session.ExportICS()))
}

func (app *Application) handleSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotLoggedIn):
		app.writeError(w, http.StatusUnauthorized, "not_logged_in", err.Error())
	case errors.Is(err, services.ErrUnknownCalendar):
		app.writeError(w, http.StatusNotFound, "unknown_calendar", err.Error())
	default:
		app.writeError(w, http.StatusBadGateway, "fetch_failed", err.Error())
	}
}
