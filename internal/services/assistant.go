package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aical.dev/aical/internal/dtos"
	"aical.dev/aical/internal/models"
	"aical.dev/aical/pkg/gcal"
	"aical.dev/aical/pkg/genai"
)

const noUpcomingEvents = "The user has no upcoming events."

//nolint:gochecknoglobals //compiled once
var freeTimePattern = regexp.MustCompile(`free|suggest|find time`)

// AssistantService builds natural-language prompts from the current event
// list and delegates to the completion gateway. Gateway errors propagate to
// the caller so the presentation layer can show "assistant unavailable"
// distinctly from a normal answer.
type AssistantService struct {
	logger  *slog.Logger
	client  genai.Client
	session *SessionService

	mu      sync.Mutex
	history []models.ChatMessage
}

func NewAssistantService(
	logger *slog.Logger,
	client genai.Client,
	session *SessionService,
) *AssistantService {
	return &AssistantService{
		logger:  logger,
		client:  client,
		session: session,
		history: []models.ChatMessage{},
	}
}

func formatEventsForPrompt(events []gcal.Event) string {
	if len(events) == 0 {
		return noUpcomingEvents
	}

	lines := make([]string, 0, len(events))
	for _, event := range events {
		when := "an unknown time"
		if event.Start != nil {
			start, allDay, err := event.Start.Time()
			if err == nil && allDay {
				when = start.Format("Mon, 2 Jan 2006")
			} else if err == nil {
				when = start.Local().Format("Mon, 2 Jan 2006 15:04")
			}
		}

		lines = append(lines, fmt.Sprintf("- %q at %s", event.Summary, when))
	}

	return strings.Join(lines, "\n")
}

func today() string {
	return time.Now().Format("Monday, 2 January 2006")
}

func (service *AssistantService) Summarize(ctx context.Context) (string, error) {
	prompt := fmt.Sprintf(
		`You are a helpful assistant. Summarize the user's upcoming calendar events in a friendly and concise way.
Today's date is %s.
Here are the events:
%s

Provide a brief summary of the upcoming schedule.`,
		today(),
		formatEventsForPrompt(service.session.Events()),
	)

	return service.client.GenerateText(ctx, prompt)
}

func (service *AssistantService) SuggestFreeTime(
	ctx context.Context,
	task string,
) (string, error) {
	prompt := fmt.Sprintf(
		`You are a scheduling assistant. A user wants to find time for a task.
Analyze their calendar and suggest 2-3 specific time slots.
Today's date is %s.
The user's request is: %q
Here is their current schedule:
%s

Suggest a few optimal time slots for their task, considering their existing schedule.`,
		today(),
		task,
		formatEventsForPrompt(service.session.Events()),
	)

	return service.client.GenerateText(ctx, prompt)
}

func (service *AssistantService) GenerateDescription(
	ctx context.Context,
	title string,
) (string, error) {
	prompt := fmt.Sprintf(
		`You are an event planning assistant.
Generate a concise and professional event description for a calendar event with the title: %q.
The description should be a short paragraph.`,
		title,
	)

	return service.client.GenerateText(ctx, prompt)
}

func (service *AssistantService) AnswerQuestion(
	ctx context.Context,
	question string,
) (string, error) {
	prompt := fmt.Sprintf(
		`You are a personal calendar assistant. Answer the user's question based on their calendar.
Today's date is %s.
The user's question is: %q
Here is their calendar data:
%s

Provide a direct and helpful answer to their question.`,
		today(),
		question,
		formatEventsForPrompt(service.session.Events()),
	)

	return service.client.GenerateText(ctx, prompt)
}

// ExtractEvent asks for a schema-constrained answer describing whether the
// text is an event-creation request and, if so, its title and times. A
// malformed response is an error, never a partial guess.
func (service *AssistantService) ExtractEvent(
	ctx context.Context,
	text string,
) (*dtos.ExtractedEventDto, error) {
	prompt := fmt.Sprintf(
		`Decide whether the following message asks to create a calendar event.
Today's date is %s.
If it does, extract a short title and the start and end times as ISO 8601 timestamps.
The message is: %q`,
		today(),
		text,
	)

	schema := genai.Schema{
		Type: "object",
		Properties: map[string]genai.Schema{
			"isCreationRequest": {Type: "boolean"},
			"title":             {Type: "string"},
			"startIso":          {Type: "string"},
			"endIso":            {Type: "string"},
		},
		Required: []string{"isCreationRequest"},
	}

	var extracted dtos.ExtractedEventDto
	err := service.client.GenerateStructured(ctx, prompt, schema, &extracted)
	if err != nil {
		return nil, err
	}

	return &extracted, nil
}

// Chat appends the user message to the transcript, routes it to the matching
// operation and appends the model's reply. On a gateway error no model
// message is recorded and the error propagates.
func (service *AssistantService) Chat(
	ctx context.Context,
	content string,
) (models.ChatMessage, error) {
	service.appendMessage(models.RoleUser, content)

	lowered := strings.ToLower(content)

	var reply string
	var err error
	switch {
	case strings.Contains(lowered, "summarize"):
		reply, err = service.Summarize(ctx)
	case freeTimePattern.MatchString(lowered):
		reply, err = service.SuggestFreeTime(ctx, content)
	default:
		reply, err = service.AnswerQuestion(ctx, content)
	}

	if err != nil {
		return models.ChatMessage{}, err
	}

	return service.appendMessage(models.RoleModel, reply), nil
}

func (service *AssistantService) appendMessage(
	role models.ChatRole,
	content string,
) models.ChatMessage {
	message := models.ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}

	service.mu.Lock()
	service.history = append(service.history, message)
	service.mu.Unlock()

	return message
}

func (service *AssistantService) History() []models.ChatMessage {
	service.mu.Lock()
	defer service.mu.Unlock()

	history := make([]models.ChatMessage, len(service.history))
	copy(history, service.history)
	return history
}
