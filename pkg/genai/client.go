package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
const DefaultModel = "gemini-2.5-flash"

type client struct {
	logger  *slog.Logger
	apiKey  string
	baseURL string
	model   string
}

func New(logger *slog.Logger, apiKey string) Client {
	return NewWithBaseURL(logger, apiKey, DefaultBaseURL)
}

// NewWithBaseURL exists so tests can point the client at a local server.
func NewWithBaseURL(logger *slog.Logger, apiKey string, baseURL string) Client {
	return client{
		logger:  logger,
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   DefaultModel,
	}
}

func (client client) sendRequest(
	ctx context.Context,
	body generateRequest,
	dst *generateResponse,
) error {
	if client.apiKey == "" {
		return ErrMissingAPIKey
	}

	endpoint := fmt.Sprintf("models/%s:generateContent", client.model)
	u, err := url.Parse(fmt.Sprintf("%s/%s", client.baseURL, endpoint))
	if err != nil {
		return err
	}

	marshalled, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		u.String(),
		bytes.NewBuffer(marshalled),
	)
	if err != nil {
		return err
	}

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("x-goog-api-key", client.apiKey)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		resBody, _ := io.ReadAll(res.Body)

		if res.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", ErrQuotaExceeded, string(resBody))
		}

		return &APIError{
			StatusCode: res.StatusCode,
			Body:       string(resBody),
		}
	}

	return json.NewDecoder(res.Body).Decode(dst)
}
