package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMissingAPIKey = errors.New("missing Gemini API key")
var ErrQuotaExceeded = errors.New("completion quota or rate limit exceeded")
var ErrEmptyResponse = errors.New("empty completion response")
var ErrMalformedResponse = errors.New("malformed structured completion response")

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion api error (%d): %s", e.StatusCode, e.Body)
}

// Schema is a subset of the OpenAPI schema object accepted by the
// generateContent structured-output mode.
type Schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty"`
	Items       *Schema           `json:"items,omitempty"`
	Required    []string          `json:"required,omitempty"`
	Nullable    bool              `json:"nullable,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (res generateResponse) text() (string, error) {
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	text := res.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

func (client client) GenerateText(
	ctx context.Context,
	prompt string,
) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	var res generateResponse
	err := client.sendRequest(ctx, req, &res)
	if err != nil {
		return "", err
	}

	return res.text()
}

// GenerateStructured requests a schema-constrained JSON response and decodes
// it into dst. A response that does not match the schema is an error, never a
// partial guess.
func (client client) GenerateStructured(
	ctx context.Context,
	prompt string,
	schema Schema,
	dst any,
) error {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   &schema,
		},
	}

	var res generateResponse
	err := client.sendRequest(ctx, req, &res)
	if err != nil {
		return err
	}

	text, err := res.text()
	if err != nil {
		return err
	}

	if err = json.Unmarshal([]byte(text), dst); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}

	return nil
}
