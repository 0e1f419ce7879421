package delivery

import (
	"context"
	"errors"

	"acaihouse/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.DeliveryPerson, error) {
	const q = `
SELECT id::text, name, phone, active, created_at
FROM delivery_people
WHERE active
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DeliveryPerson
	for rows.Next() {
		var p domain.DeliveryPerson
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.DeliveryPerson, error) {
	const q = `
SELECT id::text, name, phone, active, created_at
FROM delivery_people
WHERE id = $1
`
	var p domain.DeliveryPerson
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Phone, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.DeliveryPerson) (*domain.DeliveryPerson, error) {
	const q = `
INSERT INTO delivery_people (name, phone, active)
VALUES ($1, $2, $3)
RETURNING id::text, created_at
`
	out := p
	if p.ID != "" {
		const upd = `
UPDATE delivery_people
SET name = $2, phone = $3, active = $4
WHERE id = $1
RETURNING id::text, created_at
`
		if err := r.pool.QueryRow(ctx, upd, p.ID, p.Name, p.Phone, p.Active).Scan(&out.ID, &out.CreatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
		return &out, nil
	}
	if err := r.pool.QueryRow(ctx, q, p.Name, p.Phone, p.Active).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}
