package chatbot

import (
	"context"
	"sync"

	"mindcare-bot/internal/domain"
)

// historyWindow es cuantos turnos guarda el Chatbot en memoria.
const historyWindow = 20

// Chatbot mantiene contexto e historial de una sola conversacion.
// Lo usa el CLI; el servidor HTTP externaliza el contexto por sesion.
type Chatbot struct {
	orch *Orchestrator

	mu      sync.Mutex
	dc      DialogueContext
	history []domain.ConversationTurn
}

func New(orch *Orchestrator) *Chatbot {
	return &Chatbot{orch: orch}
}

// Respond genera una respuesta y avanza el estado de la conversacion.
func (c *Chatbot) Respond(ctx context.Context, message string) ResponseResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := append([]domain.ConversationTurn(nil), c.history...)
	result, next := c.orch.GenerateResponse(ctx, message, history, c.dc)
	c.dc = next

	c.history = append(c.history,
		domain.ConversationTurn{Role: domain.TurnRoleUser, Content: message},
		domain.ConversationTurn{Role: domain.TurnRoleAssistant, Content: result.Message},
	)
	if len(c.history) > historyWindow {
		c.history = c.history[len(c.history)-historyWindow:]
	}
	return result
}

// Context devuelve una copia del contexto actual.
func (c *Chatbot) Context() DialogueContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dc
}

// Reset olvida contexto e historial.
func (c *Chatbot) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dc = DialogueContext{}
	c.history = nil
}
