package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindcare-bot/internal/chatbot"
	"mindcare-bot/internal/domain"
	"mindcare-bot/internal/repository"
)

const defaultHistoryLimit = 10

var (
	ErrConversationServiceNotConfigured = errors.New("conversation service not configured")
	ErrConversationEnded                = errors.New("conversation has ended")
	ErrConversationForbidden            = errors.New("conversation belongs to another user")
)

// Responder es el motor de respuestas; *chatbot.Orchestrator lo implementa.
type Responder interface {
	GenerateResponse(ctx context.Context, message string, history []domain.ConversationTurn, dc chatbot.DialogueContext) (chatbot.ResponseResult, chatbot.DialogueContext)
	DetectCrisis(message string) bool
	Greeting() string
}

// ProcessInput es un mensaje entrante de la interfaz web.
type ProcessInput struct {
	SessionID string
	UserID    string
	Message   string
}

// ProcessOutput es la respuesta que ve el cliente.
type ProcessOutput struct {
	BotResponse      string                   `json:"bot_response"`
	IsCrisis         bool                     `json:"is_crisis"`
	Sentiment        *float64                 `json:"sentiment"`
	SupportResources []domain.SupportResource `json:"support_resources"`
	Timestamp        time.Time                `json:"timestamp"`
	MessageID        string                   `json:"message_id"`
	SessionID        string                   `json:"session_id"`
	Warning          string                   `json:"warning,omitempty"`
	Error            string                   `json:"error,omitempty"`
}

// SessionStart es el resultado de abrir una sesion.
type SessionStart struct {
	SessionID string    `json:"session_id"`
	Greeting  string    `json:"greeting"`
	MessageID string    `json:"message_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationService une persistencia, contexto de dialogo y el motor de respuestas.
type ConversationService struct {
	convs        repository.ConversationRepository
	messages     *MessageService
	contexts     DialogueContextStore
	resources    *ResourceService
	responder    Responder
	historyLimit int
	logger       *zap.Logger
}

// ConversationDeps agrupa las dependencias del servicio.
type ConversationDeps struct {
	Conversations repository.ConversationRepository
	Messages      *MessageService
	Contexts      DialogueContextStore
	Resources     *ResourceService
	Responder     Responder
	HistoryLimit  int
	Logger        *zap.Logger
}

func NewConversationService(deps ConversationDeps) *ConversationService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = defaultHistoryLimit
	}
	if deps.Contexts == nil {
		deps.Contexts = NewMemoryDialogueContextStore(0)
	}
	return &ConversationService{
		convs:        deps.Conversations,
		messages:     deps.Messages,
		contexts:     deps.Contexts,
		resources:    deps.Resources,
		responder:    deps.Responder,
		historyLimit: deps.HistoryLimit,
		logger:       deps.Logger,
	}
}

func (s *ConversationService) configured() bool {
	return s != nil && s.convs != nil && s.messages != nil && s.responder != nil
}

// GetOrCreate devuelve la conversacion de la sesion, creandola si no existe.
func (s *ConversationService) GetOrCreate(ctx context.Context, sessionID, userID string) (domain.Conversation, error) {
	if !s.configured() {
		return domain.Conversation{}, ErrConversationServiceNotConfigured
	}
	conv, err := s.convs.GetBySessionID(ctx, sessionID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}

	conv = domain.Conversation{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    strings.TrimSpace(userID),
		StartedAt: time.Now().UTC(),
		IsActive:  true,
	}
	if err := s.convs.Create(ctx, conv); err != nil {
		return domain.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	// otra peticion pudo crearla antes; la fila guardada manda
	stored, err := s.convs.GetBySessionID(ctx, sessionID)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("reload conversation: %w", err)
	}
	return stored, nil
}

// AppendMessage guarda un mensaje en la conversacion.
func (s *ConversationService) AppendMessage(ctx context.Context, conv domain.Conversation, role, content string, sentiment *float64) (domain.Message, error) {
	if !s.configured() {
		return domain.Message{}, ErrConversationServiceNotConfigured
	}
	return s.messages.Save(ctx, domain.Message{
		ConversationID: conv.ID,
		SessionID:      conv.SessionID,
		Role:           role,
		Content:        content,
		SentimentScore: sentiment,
	})
}

// RecentHistory devuelve los ultimos turnos en orden cronologico.
func (s *ConversationService) RecentHistory(ctx context.Context, sessionID string, limit int) ([]domain.ConversationTurn, error) {
	if !s.configured() {
		return nil, ErrConversationServiceNotConfigured
	}
	return s.messages.History(ctx, sessionID, limit)
}

// StartSession abre una sesion nueva con un saludo del banco de saludos.
func (s *ConversationService) StartSession(ctx context.Context, userID string) (SessionStart, error) {
	if !s.configured() {
		return SessionStart{}, ErrConversationServiceNotConfigured
	}
	conv, err := s.GetOrCreate(ctx, uuid.NewString(), userID)
	if err != nil {
		return SessionStart{}, err
	}
	greeting := s.responder.Greeting()
	msg, err := s.AppendMessage(ctx, conv, domain.RoleBot, greeting, nil)
	if err != nil {
		return SessionStart{}, fmt.Errorf("save greeting: %w", err)
	}
	s.logger.Info("session started", zap.String("session_id", conv.SessionID))
	return SessionStart{
		SessionID: conv.SessionID,
		Greeting:  greeting,
		MessageID: msg.ID,
		Timestamp: msg.CreatedAt,
	}, nil
}

// ProcessMessage atiende un mensaje del usuario de punta a punta.
// Un mensaje de crisis siempre recibe el guion de crisis: los fallos de almacenamiento solo se registran.
func (s *ConversationService) ProcessMessage(ctx context.Context, in ProcessInput) (ProcessOutput, error) {
	if !s.configured() {
		return ProcessOutput{}, ErrConversationServiceNotConfigured
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return ProcessOutput{}, ErrMessageInvalidInput
	}
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	crisis := s.responder.DetectCrisis(message)
	persist := true

	conv, err := s.GetOrCreate(ctx, sessionID, in.UserID)
	switch {
	case err != nil && crisis:
		s.logger.Error("conversation unavailable, answering crisis without persistence",
			zap.String("session_id", sessionID), zap.Error(err))
		conv = domain.Conversation{SessionID: sessionID}
		persist = false
	case err != nil:
		return ProcessOutput{}, err
	case !conv.IsActive && crisis:
		s.logger.Warn("crisis message on ended conversation", zap.String("session_id", sessionID))
		persist = false
	case !conv.IsActive:
		return ProcessOutput{}, ErrConversationEnded
	}

	// el historial se lee antes de guardar el mensaje actual
	var history []domain.ConversationTurn
	if persist {
		history, err = s.RecentHistory(ctx, sessionID, s.historyLimit)
		if err != nil {
			if !crisis {
				return ProcessOutput{}, fmt.Errorf("load history: %w", err)
			}
			s.logger.Error("history unavailable on crisis turn", zap.String("session_id", sessionID), zap.Error(err))
			history = nil
		}
	}
	dc, err := s.contexts.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn("dialogue context load failed", zap.String("session_id", sessionID), zap.Error(err))
		dc = chatbot.DialogueContext{}
	}

	result, next := s.responder.GenerateResponse(ctx, message, history, dc)

	botMsg := domain.Message{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if persist {
		saved, err := s.saveTurn(ctx, conv, message, result)
		switch {
		case err == nil:
			botMsg = saved
		case result.IsCrisis:
			s.logger.Error("crisis turn not persisted", zap.String("session_id", sessionID), zap.Error(err))
		default:
			return ProcessOutput{}, err
		}
		if err := s.contexts.Save(ctx, sessionID, next); err != nil {
			s.logger.Warn("dialogue context save failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	out := ProcessOutput{
		BotResponse:      result.Message,
		IsCrisis:         result.IsCrisis,
		Sentiment:        result.Sentiment,
		SupportResources: []domain.SupportResource{},
		Timestamp:        botMsg.CreatedAt,
		MessageID:        botMsg.ID,
		SessionID:        sessionID,
		Warning:          result.Warning,
		Error:            result.Error,
	}
	if result.IsCrisis && s.resources != nil {
		res, err := s.resources.Emergency(ctx)
		if err != nil {
			s.logger.Error("emergency resources unavailable", zap.String("session_id", sessionID), zap.Error(err))
		} else {
			out.SupportResources = res
		}
	}
	return out, nil
}

func (s *ConversationService) saveTurn(ctx context.Context, conv domain.Conversation, message string, result chatbot.ResponseResult) (domain.Message, error) {
	if _, err := s.AppendMessage(ctx, conv, domain.RoleUser, message, result.Sentiment); err != nil {
		return domain.Message{}, fmt.Errorf("save user message: %w", err)
	}
	botMsg, err := s.AppendMessage(ctx, conv, domain.RoleBot, result.Message, nil)
	if err != nil {
		return domain.Message{}, fmt.Errorf("save bot message: %w", err)
	}
	return botMsg, nil
}

// owned devuelve la conversacion si el llamador puede verla.
// Las conversaciones anonimas son accesibles con el session id; las de un usuario solo para el.
func (s *ConversationService) owned(ctx context.Context, sessionID, userID string) (domain.Conversation, error) {
	conv, err := s.convs.GetBySessionID(ctx, sessionID)
	if err != nil {
		return domain.Conversation{}, err
	}
	if conv.UserID != "" && conv.UserID != strings.TrimSpace(userID) {
		return domain.Conversation{}, ErrConversationForbidden
	}
	return conv, nil
}

// Transcript devuelve todos los mensajes de la sesion en orden cronologico.
func (s *ConversationService) Transcript(ctx context.Context, sessionID, userID string) ([]domain.Message, error) {
	if !s.configured() {
		return nil, ErrConversationServiceNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if _, err := s.owned(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	return s.messages.ListBySession(ctx, sessionID)
}

// Clear cierra la conversacion y olvida su contexto de dialogo.
func (s *ConversationService) Clear(ctx context.Context, sessionID, userID string) error {
	if !s.configured() {
		return ErrConversationServiceNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if _, err := s.owned(ctx, sessionID, userID); err != nil {
		return err
	}
	if err := s.convs.End(ctx, sessionID, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.contexts.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("dialogue context delete failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	s.logger.Info("conversation cleared", zap.String("session_id", sessionID))
	return nil
}
