package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mindcare-bot/internal/config"
	"mindcare-bot/internal/db"
	"mindcare-bot/internal/repository"
	"mindcare-bot/internal/service"
)

// Stores agrupa los repositorios y el almacen de contexto elegidos segun la configuracion.
type Stores struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Moods         repository.MoodRepository
	Resources     repository.ResourceRepository
	Contexts      service.DialogueContextStore
	Limiter       service.MessageRateLimiter // nil si el limite esta desactivado

	pool  *pgxpool.Pool
	redis *redis.Client
}

// OpenStores usa Postgres si hay DATABASE_URL y Redis si hay REDIS_ADDR; si no, memoria.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Stores{}

	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.Ping(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("db ping: %w", err)
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		s.pool = pool
		s.Conversations = repository.NewPgConversationRepository(pool)
		s.Messages = repository.NewPgMessageRepository(pool)
		s.Moods = repository.NewPgMoodRepository(pool)
		s.Resources = repository.NewPgResourceRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		s.Conversations = repository.NewMemoryConversationRepository()
		s.Messages = repository.NewMemoryMessageRepository()
		s.Moods = repository.NewMemoryMoodRepository()
		s.Resources = repository.NewMemoryResourceRepository()
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(ctxPing).Err()
		cancel()
		if err != nil {
			logger.Warn("redis ping failed, using in-memory dialogue context", zap.Error(err))
			_ = client.Close()
		} else {
			s.redis = client
			s.Contexts = service.NewRedisDialogueContextStore(client, cfg.DialogueContextTTL)
			if cfg.RateLimitMessages > 0 {
				s.Limiter = service.NewRedisRateLimiter(client, cfg.RateLimitWindow, cfg.RateLimitMessages)
			}
		}
	}
	if s.Contexts == nil {
		s.Contexts = service.NewMemoryDialogueContextStore(cfg.DialogueContextTTL)
	}
	if s.Limiter == nil && cfg.RateLimitMessages > 0 {
		s.Limiter = service.NewMemoryRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMessages)
	}
	return s, nil
}

// Close libera conexiones abiertas.
func (s *Stores) Close() {
	if s == nil {
		return
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
