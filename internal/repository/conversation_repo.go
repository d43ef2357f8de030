package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mindcare-bot/internal/domain"
)

type ConversationRepository interface {
	Create(ctx context.Context, conv domain.Conversation) error
	GetBySessionID(ctx context.Context, sessionID string) (domain.Conversation, error)
	End(ctx context.Context, sessionID string, endedAt time.Time) error
}

type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

func (r *PgConversationRepository) Create(ctx context.Context, conv domain.Conversation) error {
	const query = `
		INSERT INTO conversations (id, session_id, user_id, started_at, ended_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		conv.ID,
		conv.SessionID,
		nullable(conv.UserID),
		conv.StartedAt,
		conv.EndedAt,
		conv.IsActive,
	)
	return err
}

func (r *PgConversationRepository) GetBySessionID(ctx context.Context, sessionID string) (domain.Conversation, error) {
	const query = `
		SELECT id, session_id, user_id, started_at, ended_at, is_active
		FROM conversations
		WHERE session_id = $1
	`
	var (
		conv   domain.Conversation
		userID *string
	)
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&conv.ID,
		&conv.SessionID,
		&userID,
		&conv.StartedAt,
		&conv.EndedAt,
		&conv.IsActive,
	)
	if err != nil {
		return domain.Conversation{}, mapNoRows(err)
	}
	conv.UserID = deref(userID)
	return conv, nil
}

func (r *PgConversationRepository) End(ctx context.Context, sessionID string, endedAt time.Time) error {
	const query = `
		UPDATE conversations
		SET is_active = FALSE, ended_at = $2
		WHERE session_id = $1
	`
	tag, err := r.pool.Exec(ctx, query, sessionID, endedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
