package gcal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	httptools "github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
)

const DefaultBaseURL = "https://www.googleapis.com/calendar/v3"

type client struct {
	logger  *slog.Logger
	baseURL string
}

func New(logger *slog.Logger) Client {
	return NewWithBaseURL(logger, DefaultBaseURL)
}

// NewWithBaseURL exists so tests can point the client at a local server.
func NewWithBaseURL(logger *slog.Logger, baseURL string) Client {
	return client{
		logger:  logger,
		baseURL: baseURL,
	}
}

func (client client) sendRequest(
	ctx context.Context,
	token string,
	method string,
	endpoint string,
	query string,
	body any,
	dst any,
) error {
	u, err := url.Parse(fmt.Sprintf("%s/%s", client.baseURL, endpoint))
	if err != nil {
		return err
	}

	u.RawQuery = query

	var req *http.Request
	if body != nil {
		var marshalled []byte
		marshalled, err = json.Marshal(body)
		if err != nil {
			return err
		}

		req, err = http.NewRequestWithContext(
			ctx,
			method,
			u.String(),
			bytes.NewBuffer(marshalled),
		)
		if err != nil {
			return err
		}

		req.Header.Add("Content-Type", "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
		if err != nil {
			return err
		}
	}

	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return errorFromResponse(res)
	}

	if dst == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	return httptools.ReadJSON(res.Body, dst)
}
