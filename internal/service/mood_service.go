package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mindcare-bot/internal/domain"
	"mindcare-bot/internal/repository"
)

const moodHistoryLimit = 10

var (
	ErrMoodServiceNotConfigured = errors.New("mood service not configured")
	ErrMoodInvalidLevel         = errors.New("mood level must be between 1 and 5")
	ErrMoodInvalidInput         = errors.New("mood invalid input")
	ErrMoodNotFound             = errors.New("mood entry not found")
	ErrMoodForbidden            = errors.New("mood entry requires an authenticated owner")
)

// MoodInput es lo que llega del cliente al registrar un estado de animo.
type MoodInput struct {
	UserID    string
	SessionID string
	Level     int
	Notes     string
}

// MoodService registra y consulta el seguimiento de animo.
type MoodService struct {
	repo  repository.MoodRepository
	convs repository.ConversationRepository
}

func NewMoodService(repo repository.MoodRepository, convs repository.ConversationRepository) *MoodService {
	return &MoodService{repo: repo, convs: convs}
}

func (s *MoodService) Record(ctx context.Context, in MoodInput) (domain.MoodEntry, error) {
	if s == nil || s.repo == nil {
		return domain.MoodEntry{}, ErrMoodServiceNotConfigured
	}
	if !domain.ValidMoodLevel(in.Level) {
		return domain.MoodEntry{}, ErrMoodInvalidLevel
	}
	in.UserID = strings.TrimSpace(in.UserID)
	in.SessionID = strings.TrimSpace(in.SessionID)
	if in.UserID == "" && in.SessionID == "" {
		return domain.MoodEntry{}, ErrMoodInvalidInput
	}

	entry := domain.MoodEntry{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		SessionID: in.SessionID,
		MoodLevel: in.Level,
		MoodLabel: domain.MoodLabel(in.Level),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: time.Now().UTC(),
	}
	if in.SessionID != "" && s.convs != nil {
		conv, err := s.convs.GetBySessionID(ctx, in.SessionID)
		switch {
		case err == nil:
			entry.ConversationID = conv.ID
		case !errors.Is(err, repository.ErrNotFound):
			return domain.MoodEntry{}, fmt.Errorf("lookup conversation: %w", err)
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return domain.MoodEntry{}, fmt.Errorf("create mood entry: %w", err)
	}
	return entry, nil
}

// Recent devuelve las ultimas entradas: por usuario si esta autenticado, si no por sesion anonima.
func (s *MoodService) Recent(ctx context.Context, userID, sessionID string) ([]domain.MoodEntry, error) {
	if s == nil || s.repo == nil {
		return nil, ErrMoodServiceNotConfigured
	}
	var (
		entries []domain.MoodEntry
		err     error
	)
	switch {
	case strings.TrimSpace(userID) != "":
		entries, err = s.repo.ListByUserID(ctx, strings.TrimSpace(userID), moodHistoryLimit)
	case strings.TrimSpace(sessionID) != "":
		entries, err = s.repo.ListAnonymousBySessionID(ctx, strings.TrimSpace(sessionID), moodHistoryLimit)
	default:
		return []domain.MoodEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list mood entries: %w", err)
	}
	for i := range entries {
		entries[i].MoodLabel = domain.MoodLabel(entries[i].MoodLevel)
	}
	if entries == nil {
		entries = []domain.MoodEntry{}
	}
	return entries, nil
}

// Delete borra una entrada solo si pertenece al usuario autenticado.
// Las entradas ajenas se reportan como inexistentes.
func (s *MoodService) Delete(ctx context.Context, userID, id string) error {
	if s == nil || s.repo == nil {
		return ErrMoodServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrMoodForbidden
	}
	entry, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMoodNotFound
	}
	if err != nil {
		return fmt.Errorf("get mood entry: %w", err)
	}
	if entry.UserID != userID {
		return ErrMoodNotFound
	}
	if err := s.repo.Delete(ctx, entry.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMoodNotFound
		}
		return fmt.Errorf("delete mood entry: %w", err)
	}
	return nil
}
