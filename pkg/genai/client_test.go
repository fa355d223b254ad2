package genai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/logging"

	"aical.dev/aical/pkg/genai"
)

func completionBody(text string) string {
	return `{"candidates": [{"content": {"parts": [{"text": ` +
		string(mustMarshal(text)) + `}]}}]}`
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func TestGenerateText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("x-goog-api-key")
			//nolint:errcheck //test server
			json.NewDecoder(r.Body).Decode(&gotBody)

			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck //test server
			w.Write([]byte(completionBody("You have a busy week ahead.")))
		}),
	)
	defer ts.Close()

	client := genai.NewWithBaseURL(logging.NewNopLogger(), "key123", ts.URL)

	text, err := client.GenerateText(context.Background(), "Summarize my week")
	require.NoError(t, err)

	assert.Equal(t, "You have a busy week ahead.", text)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "key123", gotKey)
	assert.NotContains(t, gotBody, "generationConfig")
}

func TestGenerateTextMissingKey(t *testing.T) {
	client := genai.NewWithBaseURL(logging.NewNopLogger(), "", "http://localhost:1")

	_, err := client.GenerateText(context.Background(), "anything")
	assert.ErrorIs(t, err, genai.ErrMissingAPIKey)
}

func TestGenerateTextQuotaExceeded(t *testing.T) {
	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			//nolint:errcheck //test server
			w.Write([]byte(`{"error": {"code": 429, "message": "quota exceeded"}}`))
		}),
	)
	defer ts.Close()

	client := genai.NewWithBaseURL(logging.NewNopLogger(), "key123", ts.URL)

	_, err := client.GenerateText(context.Background(), "anything")
	assert.ErrorIs(t, err, genai.ErrQuotaExceeded)
}

func TestGenerateTextEmptyResponse(t *testing.T) {
	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck //test server
			w.Write([]byte(`{"candidates": []}`))
		}),
	)
	defer ts.Close()

	client := genai.NewWithBaseURL(logging.NewNopLogger(), "key123", ts.URL)

	_, err := client.GenerateText(context.Background(), "anything")
	assert.ErrorIs(t, err, genai.ErrEmptyResponse)
}

func TestGenerateStructured(t *testing.T) {
	var gotBody map[string]any

	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			//nolint:errcheck //test server
			json.NewDecoder(r.Body).Decode(&gotBody)

			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck //test server
			w.Write([]byte(completionBody(`{"title": "Dentist", "confirmed": true}`)))
		}),
	)
	defer ts.Close()

	client := genai.NewWithBaseURL(logging.NewNopLogger(), "key123", ts.URL)

	schema := genai.Schema{
		Type: "object",
		Properties: map[string]genai.Schema{
			"title":     {Type: "string"},
			"confirmed": {Type: "boolean"},
		},
	}

	var dst struct {
		Title     string `json:"title"`
		Confirmed bool   `json:"confirmed"`
	}
	err := client.GenerateStructured(
		context.Background(),
		"Extract the event",
		schema,
		&dst,
	)
	require.NoError(t, err)

	assert.Equal(t, "Dentist", dst.Title)
	assert.True(t, dst.Confirmed)

	generationConfig, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", generationConfig["responseMimeType"])
	assert.Contains(t, generationConfig, "responseSchema")
}

func TestGenerateStructuredMalformed(t *testing.T) {
	ts := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck //test server
			w.Write([]byte(completionBody("this is not json")))
		}),
	)
	defer ts.Close()

	client := genai.NewWithBaseURL(logging.NewNopLogger(), "key123", ts.URL)

	var dst struct {
		Title string `json:"title"`
	}
	err := client.GenerateStructured(
		context.Background(),
		"Extract the event",
		genai.Schema{Type: "object"},
		&dst,
	)
	assert.ErrorIs(t, err, genai.ErrMalformedResponse)
}
