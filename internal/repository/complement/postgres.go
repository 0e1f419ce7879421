package complement

import (
	"context"

	"acaihouse/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Complement, error) {
	const q = `
SELECT id::text, name, price_cents, active, created_at
FROM complements
WHERE active
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complement
	for rows.Next() {
		var c domain.Complement
		if err := rows.Scan(&c.ID, &c.Name, &c.PriceCents, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Complement, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const q = `
SELECT id::text, name, price_cents, active, created_at
FROM complements
WHERE id = ANY($1::uuid[])
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complement
	for rows.Next() {
		var c domain.Complement
		if err := rows.Scan(&c.ID, &c.Name, &c.PriceCents, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Complement) (*domain.Complement, error) {
	const q = `
INSERT INTO complements (name, price_cents, active)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET
    price_cents = EXCLUDED.price_cents,
    active = EXCLUDED.active
RETURNING id::text, created_at
`
	out := c
	if err := r.pool.QueryRow(ctx, q, c.Name, c.PriceCents, c.Active).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}
