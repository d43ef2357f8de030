package domain

import "time"

const (
	RoleUser   = "user"
	RoleBot    = "bot"
	RoleSystem = "system"
)

// Message es un mensaje persistido de una conversacion.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SessionID      string    `json:"session_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	SentimentScore *float64  `json:"sentiment_score,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"
)

// ConversationTurn es la forma que consume el adaptador de modelo.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn convierte un mensaje persistido al formato del adaptador.
// Los mensajes de sistema no forman parte del historial.
func (m Message) Turn() (ConversationTurn, bool) {
	switch m.Role {
	case RoleUser:
		return ConversationTurn{Role: TurnRoleUser, Content: m.Content}, true
	case RoleBot:
		return ConversationTurn{Role: TurnRoleAssistant, Content: m.Content}, true
	default:
		return ConversationTurn{}, false
	}
}
