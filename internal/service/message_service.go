package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"mindcare-bot/internal/domain"
	"mindcare-bot/internal/repository"
)

// MessageService encapsula la persistencia de los mensajes de una conversacion.
type MessageService struct {
	repo repository.MessageRepository
}

var (
	ErrMessageServiceNotConfigured = errors.New("message service not configured")
	ErrMessageInvalidInput         = errors.New("message invalid input")
)

func NewMessageService(repo repository.MessageRepository) *MessageService {
	return &MessageService{repo: repo}
}

// Save normaliza y guarda un mensaje; devuelve el mensaje con id y fecha asignados.
func (s *MessageService) Save(ctx context.Context, msg domain.Message) (domain.Message, error) {
	if s == nil || s.repo == nil {
		return domain.Message{}, ErrMessageServiceNotConfigured
	}

	msg.SessionID = strings.TrimSpace(msg.SessionID)
	msg.Role = strings.TrimSpace(msg.Role)
	msg.Content = strings.TrimSpace(msg.Content)

	if msg.SessionID == "" || msg.Content == "" {
		return domain.Message{}, ErrMessageInvalidInput
	}
	switch msg.Role {
	case domain.RoleUser, domain.RoleBot, domain.RoleSystem:
	default:
		return domain.Message{}, ErrMessageInvalidInput
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

func (s *MessageService) ListBySession(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if s == nil || s.repo == nil {
		return nil, ErrMessageServiceNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return []domain.Message{}, nil
	}
	msgs, err := s.repo.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

// History devuelve los ultimos turnos de la sesion como historial para el modelo,
// en orden cronologico y sin mensajes de sistema.
func (s *MessageService) History(ctx context.Context, sessionID string, limit int) ([]domain.ConversationTurn, error) {
	if s == nil || s.repo == nil {
		return nil, ErrMessageServiceNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" || limit <= 0 {
		return nil, nil
	}
	msgs, err := s.repo.ListRecentBySessionID(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	turns := make([]domain.ConversationTurn, 0, len(msgs))
	for _, m := range msgs {
		if turn, ok := m.Turn(); ok {
			turns = append(turns, turn)
		}
	}
	return turns, nil
}
