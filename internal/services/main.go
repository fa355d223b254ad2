package services

import (
	"log/slog"

	"aical.dev/aical/internal/tokencache"
	"aical.dev/aical/pkg/gcal"
	"aical.dev/aical/pkg/genai"
)

type Services struct {
	Session   *SessionService
	Assistant *AssistantService
}

func New(
	logger *slog.Logger,
	cache *tokencache.Cache,
	calendarClient gcal.Client,
	genaiClient genai.Client,
) *Services {
	session := NewSessionService(logger, calendarClient, cache)

	return &Services{
		Session:   session,
		Assistant: NewAssistantService(logger, genaiClient, session),
	}
}
