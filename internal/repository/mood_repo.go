package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mindcare-bot/internal/domain"
)

type MoodRepository interface {
	Create(ctx context.Context, entry domain.MoodEntry) error
	GetByID(ctx context.Context, id string) (domain.MoodEntry, error)
	Delete(ctx context.Context, id string) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]domain.MoodEntry, error)
	// ListAnonymousBySessionID solo devuelve entradas sin usuario.
	ListAnonymousBySessionID(ctx context.Context, sessionID string, limit int) ([]domain.MoodEntry, error)
}

type PgMoodRepository struct {
	pool *pgxpool.Pool
}

func NewPgMoodRepository(pool *pgxpool.Pool) *PgMoodRepository {
	return &PgMoodRepository{pool: pool}
}

const moodColumns = `id, user_id, conversation_id, session_id, mood_level, notes, created_at`

func (r *PgMoodRepository) Create(ctx context.Context, entry domain.MoodEntry) error {
	const query = `
		INSERT INTO mood_entries (` + moodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		nullable(entry.UserID),
		nullable(entry.ConversationID),
		nullable(entry.SessionID),
		entry.MoodLevel,
		entry.Notes,
		entry.CreatedAt,
	)
	return err
}

func (r *PgMoodRepository) GetByID(ctx context.Context, id string) (domain.MoodEntry, error) {
	const query = `SELECT ` + moodColumns + ` FROM mood_entries WHERE id = $1`
	entry, err := scanMood(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.MoodEntry{}, mapNoRows(err)
	}
	return entry, nil
}

func (r *PgMoodRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM mood_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgMoodRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.MoodEntry, error) {
	const query = `
		SELECT ` + moodColumns + `
		FROM mood_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, userID, limit)
}

func (r *PgMoodRepository) ListAnonymousBySessionID(ctx context.Context, sessionID string, limit int) ([]domain.MoodEntry, error) {
	const query = `
		SELECT ` + moodColumns + `
		FROM mood_entries
		WHERE session_id = $1 AND user_id IS NULL
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, sessionID, limit)
}

func (r *PgMoodRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.MoodEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.MoodEntry
	for rows.Next() {
		entry, err := scanMood(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMood(row rowScanner) (domain.MoodEntry, error) {
	var (
		entry                          domain.MoodEntry
		userID, conversationID, sessID *string
	)
	err := row.Scan(
		&entry.ID,
		&userID,
		&conversationID,
		&sessID,
		&entry.MoodLevel,
		&entry.Notes,
		&entry.CreatedAt,
	)
	if err != nil {
		return domain.MoodEntry{}, err
	}
	entry.UserID = deref(userID)
	entry.ConversationID = deref(conversationID)
	entry.SessionID = deref(sessID)
	entry.MoodLabel = domain.MoodLabel(entry.MoodLevel)
	return entry, nil
}
