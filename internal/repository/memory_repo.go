package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"mindcare-bot/internal/domain"
)

// Implementaciones en memoria, usadas cuando no hay DATABASE_URL y en tests.

type MemoryConversationRepository struct {
	mu    sync.RWMutex
	bySID map[string]domain.Conversation
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{bySID: make(map[string]domain.Conversation)}
}

func (r *MemoryConversationRepository) Create(_ context.Context, conv domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[conv.SessionID]; !ok {
		r.bySID[conv.SessionID] = conv
	}
	return nil
}

func (r *MemoryConversationRepository) GetBySessionID(_ context.Context, sessionID string) (domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.bySID[sessionID]
	if !ok {
		return domain.Conversation{}, ErrNotFound
	}
	return conv, nil
}

func (r *MemoryConversationRepository) End(_ context.Context, sessionID string, endedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.bySID[sessionID]
	if !ok {
		return ErrNotFound
	}
	conv.IsActive = false
	conv.EndedAt = &endedAt
	r.bySID[sessionID] = conv
	return nil
}

type MemoryMessageRepository struct {
	mu        sync.RWMutex
	bySession map[string][]domain.Message
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{bySession: make(map[string][]domain.Message)}
}

func (r *MemoryMessageRepository) Create(_ context.Context, message domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySession[message.SessionID] = append(r.bySession[message.SessionID], message)
	return nil
}

func (r *MemoryMessageRepository) ListBySessionID(_ context.Context, sessionID string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Message(nil), r.bySession[sessionID]...), nil
}

func (r *MemoryMessageRepository) ListRecentBySessionID(_ context.Context, sessionID string, limit int) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.bySession[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]domain.Message(nil), msgs...), nil
}

type MemoryMoodRepository struct {
	mu      sync.RWMutex
	entries map[string]domain.MoodEntry
}

func NewMemoryMoodRepository() *MemoryMoodRepository {
	return &MemoryMoodRepository{entries: make(map[string]domain.MoodEntry)}
}

func (r *MemoryMoodRepository) Create(_ context.Context, entry domain.MoodEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *MemoryMoodRepository) GetByID(_ context.Context, id string) (domain.MoodEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok {
		return domain.MoodEntry{}, ErrNotFound
	}
	return entry, nil
}

func (r *MemoryMoodRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *MemoryMoodRepository) ListByUserID(_ context.Context, userID string, limit int) ([]domain.MoodEntry, error) {
	return r.filter(limit, func(e domain.MoodEntry) bool { return e.UserID == userID }), nil
}

func (r *MemoryMoodRepository) ListAnonymousBySessionID(_ context.Context, sessionID string, limit int) ([]domain.MoodEntry, error) {
	return r.filter(limit, func(e domain.MoodEntry) bool { return e.UserID == "" && e.SessionID == sessionID }), nil
}

func (r *MemoryMoodRepository) filter(limit int, keep func(domain.MoodEntry) bool) []domain.MoodEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.MoodEntry
	for _, e := range r.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type MemoryResourceRepository struct {
	mu      sync.RWMutex
	byTitle map[string]domain.SupportResource
}

func NewMemoryResourceRepository() *MemoryResourceRepository {
	return &MemoryResourceRepository{byTitle: make(map[string]domain.SupportResource)}
}

func (r *MemoryResourceRepository) List(_ context.Context, filter ResourceFilter) ([]domain.SupportResource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.SupportResource
	for _, res := range r.byTitle {
		if filter.matches(res) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsEmergency != out[j].IsEmergency {
			return out[i].IsEmergency
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (r *MemoryResourceRepository) UpsertByTitle(_ context.Context, res domain.SupportResource) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byTitle[res.Title]
	if ok {
		res.ID = existing.ID
		res.CreatedAt = existing.CreatedAt
	}
	r.byTitle[res.Title] = res
	return !ok, nil
}
