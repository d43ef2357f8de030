package llm

import (
	"context"

	"mindcare-bot/internal/domain"
)

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error

	Calls       int
	LastMessage string
	LastHistory []domain.ConversationTurn
}

func (m *MockClient) Complete(_ context.Context, message string, history []domain.ConversationTurn) (string, error) {
	m.Calls++
	m.LastMessage = message
	m.LastHistory = history
	return m.Response, m.Err
}
