package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mindcare-bot/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	ListBySessionID(ctx context.Context, sessionID string) ([]domain.Message, error)
	// ListRecentBySessionID devuelve los ultimos limit mensajes en orden cronologico.
	ListRecentBySessionID(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (id, conversation_id, session_id, role, content, sentiment_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.ConversationID,
		message.SessionID,
		message.Role,
		message.Content,
		message.SentimentScore,
		message.CreatedAt,
	)
	return err
}

func (r *PgMessageRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.Message, error) {
	const query = `
		SELECT id, conversation_id, session_id, role, content, sentiment_score, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	return r.query(ctx, query, sessionID)
}

func (r *PgMessageRepository) ListRecentBySessionID(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	const query = `
		SELECT id, conversation_id, session_id, role, content, sentiment_score, created_at
		FROM (
			SELECT id, conversation_id, session_id, role, content, sentiment_score, created_at
			FROM messages
			WHERE session_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`
	return r.query(ctx, query, sessionID, limit)
}

func (r *PgMessageRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		err = rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.SessionID,
			&msg.Role,
			&msg.Content,
			&msg.SentimentScore,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
