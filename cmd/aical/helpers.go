package main

import (
	"encoding/json"
	"net/http"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
)

func (app *Application) writeJSON(
	w http.ResponseWriter,
	status int,
	data any,
) {
	body, err := json.Marshal(data)
	if err != nil {
		app.logger.Error("failed to marshal response", logging.ErrAttr(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck //nothing left to do on a failed write
	w.Write(body)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (app *Application) writeError(
	w http.ResponseWriter,
	status int,
	code string,
	message string,
) {
	app.writeJSON(w, status, errorResponse{Error: code, Message: message})
}
