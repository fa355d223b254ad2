package main

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	wstools "github.com/xdoubleu/essentia/v2/pkg/communication/wstools"
	"github.com/xdoubleu/essentia/v2/pkg/logging"

	"aical.dev/aical/internal/dtos"
)

// stateFeedHandler streams session-state snapshots to the presentation
// layer: one message whenever the store changes.
func (app *Application) stateFeedHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(
		w,
		r,
		//nolint:exhaustruct //other fields are optional
		&websocket.AcceptOptions{InsecureSkipVerify: true},
	)
	if err != nil {
		app.logger.Error("websocket accept error", logging.ErrAttr(err))
		return
	}
	defer conn.Close(
		websocket.StatusNormalClosure,
		"closing connection",
	)

	var msg dtos.SubscribeMessageDto
	err = wsjson.Read(r.Context(), conn, &msg)
	if err != nil {
		wstools.ServerErrorResponse(r.Context(), conn, err)
		return
	}

	if valid, errs := msg.Validate(); !valid {
		wstools.FailedValidationResponse(r.Context(), conn, errs)
		return
	}

	id, updates := app.services.Session.Subscribe()
	defer app.services.Session.Unsubscribe(id)

	for {
		select {
		case <-r.Context().Done():
			return
		case state, ok := <-updates:
			if !ok {
				return
			}

			if err = wsjson.Write(r.Context(), conn, state); err != nil {
				return
			}
		}
	}
}
