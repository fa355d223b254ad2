package main

import (
	"errors"
	"fmt"
	"net/http"

	httptools "github.com/xdoubleu/essentia/v2/pkg/communication/httptools"

	"aical.dev/aical/internal/dtos"
	"aical.dev/aical/pkg/genai"
)

func (app *Application) assistantRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/assistant/chat", prefix),
		app.assistantChatHandler,
	)
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/assistant/history", prefix),
		app.assistantHistoryHandler,
	)
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/assistant/summarize", prefix),
		app.assistantSummarizeHandler,
	)
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/assistant/suggest", prefix),
		app.assistantSuggestHandler,
	)
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/assistant/describe", prefix),
		app.assistantDescribeHandler,
	)
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/assistant/extract", prefix),
		app.assistantExtractHandler,
	)
}

func (app *Application) assistantChatHandler(w http.ResponseWriter, r *http.Request) {
	var messageDto dtos.ChatMessageDto

	err := httptools.ReadJSON(r.Body, &messageDto)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if ok, errs := messageDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	reply, err := app.services.Assistant.Chat(r.Context(), messageDto.Content)
	if err != nil {
		app.handleAssistantError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, reply)
}

func (app *Application) assistantHistoryHandler(w http.ResponseWriter, _ *http.Request) {
	app.writeJSON(w, http.StatusOK, app.services.Assistant.History())
}

func (app *Application) assistantSummarizeHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	summary, err := app.services.Assistant.Summarize(r.Context())
	if err != nil {
		app.handleAssistantError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]string{"text": summary})
}

func (app *Application) assistantSuggestHandler(w http.ResponseWriter, r *http.Request) {
	var suggestDto dtos.SuggestTimeDto

	err := httptools.ReadJSON(r.Body, &suggestDto)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if ok, errs := suggestDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	suggestion, err := app.services.Assistant.SuggestFreeTime(
		r.Context(),
		suggestDto.Task,
	)
	if err != nil {
		app.handleAssistantError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]string{"text": suggestion})
}

func (app *Application) assistantDescribeHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	var describeDto dtos.DescribeDto

	err := httptools.ReadJSON(r.Body, &describeDto)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if ok, errs := describeDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	description, err := app.services.Assistant.GenerateDescription(
		r.Context(),
		describeDto.Title,
	)
	if err != nil {
		app.handleAssistantError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]string{"text": description})
}

func (app *Application) assistantExtractHandler(w http.ResponseWriter, r *http.Request) {
	var extractDto dtos.ExtractDto

	err := httptools.ReadJSON(r.Body, &extractDto)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if ok, errs := extractDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	extracted, err := app.services.Assistant.ExtractEvent(
		r.Context(),
		extractDto.Prompt,
	)
	if err != nil {
		app.handleAssistantError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, extracted)
}

// handleAssistantError keeps the assistant failure modes distinguishable for
// the presentation layer: a missing credential is a configuration problem,
// everything else is "assistant unavailable".
func (app *Application) handleAssistantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, genai.ErrMissingAPIKey):
		app.writeError(w, http.StatusServiceUnavailable, "configuration_missing",
			err.Error())
	case errors.Is(err, genai.ErrQuotaExceeded):
		app.writeError(w, http.StatusTooManyRequests, "assistant_quota", err.Error())
	case errors.Is(err, genai.ErrMalformedResponse):
		app.writeError(w, http.StatusBadGateway, "assistant_parse_error", err.Error())
	default:
		app.writeError(w, http.StatusBadGateway, "assistant_unavailable", err.Error())
	}
}
