package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"aical.dev/aical/pkg/genai"
)

// MockGenAIClient records prompts and replays canned responses.
type MockGenAIClient struct {
	mu sync.Mutex

	TextResponse       string
	StructuredResponse string
	Err                error

	Prompts []string
}

func NewMockGenAIClient() *MockGenAIClient {
	return &MockGenAIClient{
		TextResponse: "mocked completion",
	}
}

func (m *MockGenAIClient) GenerateText(
	_ context.Context,
	prompt string,
) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil {
		return "", m.Err
	}

	return m.TextResponse, nil
}

func (m *MockGenAIClient) GenerateStructured(
	_ context.Context,
	prompt string,
	_ genai.Schema,
	dst any,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil {
		return m.Err
	}

	if err := json.Unmarshal([]byte(m.StructuredResponse), dst); err != nil {
		return fmt.Errorf("%w: %s", genai.ErrMalformedResponse, err)
	}

	return nil
}

func (m *MockGenAIClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Prompts) == 0 {
		return ""
	}

	return m.Prompts[len(m.Prompts)-1]
}
