package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"mindcare-bot/internal/chatbot"
)

// DialogueContextStore externaliza el contexto de dialogo por sesion.
// Load de una sesion desconocida devuelve el contexto vacio, no un error.
type DialogueContextStore interface {
	Load(ctx context.Context, sessionID string) (chatbot.DialogueContext, error)
	Save(ctx context.Context, sessionID string, dc chatbot.DialogueContext) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	dc        chatbot.DialogueContext
	expiresAt time.Time
}

const maxContextSweepInterval = 5 * time.Minute

type memoryDialogueContextStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	items     map[string]memoryEntry
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryDialogueContextStore(ttl time.Duration) DialogueContextStore {
	return newMemoryDialogueContextStore(ttl, time.Now)
}

func newMemoryDialogueContextStore(ttl time.Duration, now func() time.Time) *memoryDialogueContextStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &memoryDialogueContextStore{
		ttl:   ttl,
		items: make(map[string]memoryEntry),
		now:   now,
	}
}

func (s *memoryDialogueContextStore) Load(_ context.Context, sessionID string) (chatbot.DialogueContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	s.maybeSweep(now)
	entry, ok := s.items[sessionID]
	if !ok {
		return chatbot.DialogueContext{}, nil
	}
	if now.After(entry.expiresAt) {
		delete(s.items, sessionID)
		return chatbot.DialogueContext{}, nil
	}
	return entry.dc, nil
}

func (s *memoryDialogueContextStore) Save(_ context.Context, sessionID string, dc chatbot.DialogueContext) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	s.maybeSweep(now)
	s.items[sessionID] = memoryEntry{dc: dc, expiresAt: now.Add(s.ttl)}
	return nil
}

// maybeSweep borra sesiones vencidas; corre a lo sumo una vez por intervalo.
func (s *memoryDialogueContextStore) maybeSweep(now time.Time) {
	interval := s.ttl
	if interval > maxContextSweepInterval {
		interval = maxContextSweepInterval
	}
	if now.Sub(s.lastSweep) < interval {
		return
	}
	s.lastSweep = now
	for id, entry := range s.items {
		if now.After(entry.expiresAt) {
			delete(s.items, id)
		}
	}
}

func (s *memoryDialogueContextStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *memoryDialogueContextStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisDialogueContextStore struct {
	client  redisKVClient
	ttl     time.Duration
	prefix  string
	timeout time.Duration
}

func NewRedisDialogueContextStore(client *redis.Client, ttl time.Duration) DialogueContextStore {
	if client == nil {
		return nil
	}
	return newRedisDialogueContextStore(client, ttl)
}

func newRedisDialogueContextStore(client redisKVClient, ttl time.Duration) *redisDialogueContextStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisDialogueContextStore{
		client:  client,
		ttl:     ttl,
		prefix:  "chat:dialogue:",
		timeout: 500 * time.Millisecond,
	}
}

func (s *redisDialogueContextStore) Load(ctx context.Context, sessionID string) (chatbot.DialogueContext, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return chatbot.DialogueContext{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.prefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return chatbot.DialogueContext{}, nil
	}
	if err != nil {
		return chatbot.DialogueContext{}, fmt.Errorf("redis get dialogue context: %w", err)
	}
	var dc chatbot.DialogueContext
	if err := json.Unmarshal(raw, &dc); err != nil {
		return chatbot.DialogueContext{}, fmt.Errorf("decode dialogue context: %w", err)
	}
	return dc, nil
}

func (s *redisDialogueContextStore) Save(ctx context.Context, sessionID string, dc chatbot.DialogueContext) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	raw, err := json.Marshal(dc)
	if err != nil {
		return fmt.Errorf("encode dialogue context: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+sessionID, raw, s.ttl).Err()
}

func (s *redisDialogueContextStore) Delete(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}
