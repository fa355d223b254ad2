package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/logging"

	"aical.dev/aical/internal/mocks"
	"aical.dev/aical/internal/models"
	"aical.dev/aical/internal/services"
	"aical.dev/aical/pkg/gcal"
	"aical.dev/aical/pkg/genai"
)

func newTestAssistant(
	t *testing.T,
) (*services.AssistantService, *services.SessionService, *mocks.MockGenAIClient) {
	t.Helper()

	session, _ := newTestSession(t)
	mock := mocks.NewMockGenAIClient()

	assistant := services.NewAssistantService(
		logging.NewNopLogger(),
		mock,
		session,
	)

	return assistant, session, mock
}

func TestSummarizePrompt(t *testing.T) {
	assistant, session, mock := newTestAssistant(t)

	//nolint:exhaustruct //other fields are optional
	session.AddEvent(gcal.Event{
		ID:      "ev1",
		Summary: "Standup",
		Start:   &gcal.EventDateTime{DateTime: "2026-03-14T09:30:00Z"},
	})

	text, err := assistant.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mocked completion", text)

	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, "Summarize the user's upcoming calendar events")
	assert.Contains(t, prompt, `"Standup"`)
}

func TestSummarizePromptWithoutEvents(t *testing.T) {
	assistant, _, mock := newTestAssistant(t)

	_, err := assistant.Summarize(context.Background())
	require.NoError(t, err)

	assert.Contains(t, mock.LastPrompt(), "The user has no upcoming events.")
}

func TestGenerateDescriptionPrompt(t *testing.T) {
	assistant, _, mock := newTestAssistant(t)

	_, err := assistant.GenerateDescription(context.Background(), "Team Offsite")
	require.NoError(t, err)

	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, `"Team Offsite"`)
	assert.Contains(t, prompt, "event description")
}

func TestChatDispatch(t *testing.T) {
	assistant, _, mock := newTestAssistant(t)

	_, err := assistant.Chat(context.Background(), "Summarize my week please")
	require.NoError(t, err)
	assert.Contains(t, mock.LastPrompt(), "Summarize the user's upcoming")

	_, err = assistant.Chat(context.Background(), "Find time for the gym")
	require.NoError(t, err)
	assert.Contains(t, mock.LastPrompt(), "scheduling assistant")

	_, err = assistant.Chat(context.Background(), "What's on next Tuesday?")
	require.NoError(t, err)
	assert.Contains(t, mock.LastPrompt(), "Answer the user's question")
}

func TestChatHistory(t *testing.T) {
	assistant, _, _ := newTestAssistant(t)

	reply, err := assistant.Chat(context.Background(), "What's on next Tuesday?")
	require.NoError(t, err)
	assert.Equal(t, models.RoleModel, reply.Role)
	assert.Equal(t, "mocked completion", reply.Content)
	assert.NotEmpty(t, reply.ID)

	history := assistant.History()
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, "What's on next Tuesday?", history[0].Content)
	assert.Equal(t, reply, history[1])
}

func TestChatGatewayError(t *testing.T) {
	assistant, _, mock := newTestAssistant(t)

	mock.Err = genai.ErrQuotaExceeded

	_, err := assistant.Chat(context.Background(), "What's on next Tuesday?")
	assert.ErrorIs(t, err, genai.ErrQuotaExceeded)

	// the user message is recorded, a model reply is not
	history := assistant.History()
	require.Len(t, history, 1)
	assert.Equal(t, models.RoleUser, history[0].Role)
}

func TestExtractEvent(t *testing.T) {
	assistant, _, mock := newTestAssistant(t)

	mock.StructuredResponse = `{
		"isCreationRequest": true,
		"title": "Dentist",
		"startIso": "2026-03-14T09:30:00Z",
		"endIso": "2026-03-14T10:00:00Z"
	}`

	extracted, err := assistant.ExtractEvent(
		context.Background(),
		"Book a dentist appointment Saturday morning",
	)
	require.NoError(t, err)

	assert.True(t, extracted.IsCreationRequest)
	assert.Equal(t, "Dentist", extracted.Title)
	assert.Equal(t, "2026-03-14T09:30:00Z", extracted.StartISO)
}

func TestExtractEventMalformed(t *testing.T) {
	assistant, _, mock := newTestAssistant(t)

	mock.StructuredResponse = "not json at all"

	_, err := assistant.ExtractEvent(context.Background(), "anything")
	assert.ErrorIs(t, err, genai.ErrMalformedResponse)
}

func TestChatUnavailableAssistant(t *testing.T) {
	assistant, _, mock := newTestAssistant(t)

	mock.Err = errors.New("connection refused")

	_, err := assistant.Chat(context.Background(), "Summarize my week")
	assert.Error(t, err)
	assert.Len(t, assistant.History(), 1)
}
