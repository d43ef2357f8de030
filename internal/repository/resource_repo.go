package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mindcare-bot/internal/domain"
)

// ResourceFilter restringe el listado; Emergency nil no filtra.
type ResourceFilter struct {
	Emergency *bool
}

func (f ResourceFilter) matches(r domain.SupportResource) bool {
	return f.Emergency == nil || *f.Emergency == r.IsEmergency
}

type ResourceRepository interface {
	List(ctx context.Context, filter ResourceFilter) ([]domain.SupportResource, error)
	// UpsertByTitle inserta o actualiza por titulo; devuelve true si la fila es nueva.
	UpsertByTitle(ctx context.Context, resource domain.SupportResource) (bool, error)
}

type PgResourceRepository struct {
	pool *pgxpool.Pool
}

func NewPgResourceRepository(pool *pgxpool.Pool) *PgResourceRepository {
	return &PgResourceRepository{pool: pool}
}

func (r *PgResourceRepository) List(ctx context.Context, filter ResourceFilter) ([]domain.SupportResource, error) {
	const query = `
		SELECT id, title, description, url, phone_number, category, is_emergency, created_at
		FROM support_resources
		WHERE ($1::boolean IS NULL OR is_emergency = $1)
		ORDER BY is_emergency DESC, title ASC
	`
	rows, err := r.pool.Query(ctx, query, filter.Emergency)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SupportResource
	for rows.Next() {
		var res domain.SupportResource
		if err := rows.Scan(
			&res.ID,
			&res.Title,
			&res.Description,
			&res.URL,
			&res.PhoneNumber,
			&res.Category,
			&res.IsEmergency,
			&res.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PgResourceRepository) UpsertByTitle(ctx context.Context, res domain.SupportResource) (bool, error) {
	const query = `
		INSERT INTO support_resources (id, title, description, url, phone_number, category, is_emergency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (title) DO UPDATE SET
			description = EXCLUDED.description,
			url = EXCLUDED.url,
			phone_number = EXCLUDED.phone_number,
			category = EXCLUDED.category,
			is_emergency = EXCLUDED.is_emergency
		RETURNING (xmax = 0)
	`
	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		res.ID,
		res.Title,
		res.Description,
		res.URL,
		res.PhoneNumber,
		res.Category,
		res.IsEmergency,
		res.CreatedAt,
	).Scan(&inserted)
	return inserted, err
}
