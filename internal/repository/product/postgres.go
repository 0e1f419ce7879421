package product

import (
	"context"
	"errors"
	"io"
	"log"

	"acaihouse/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id::text, key, name, COALESCE(description, ''), category, price_cents, currency, image_url, active, created_at
FROM products
WHERE active
ORDER BY category ASC, name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Key, &p.Name, &p.Description, &p.Category, &p.PriceCents, &p.Currency, &p.ImageURL, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, key, name, COALESCE(description, ''), category, price_cents, currency, image_url, active, created_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Key, &p.Name, &p.Description, &p.Category, &p.PriceCents, &p.Currency, &p.ImageURL, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (key, name, description, category, price_cents, currency, image_url, active)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
ON CONFLICT (key) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    image_url = EXCLUDED.image_url,
    active = EXCLUDED.active
RETURNING id::text, created_at
`
	out := product
	err := r.pool.QueryRow(ctx, q,
		product.Key,
		product.Name,
		product.Description,
		product.Category,
		product.PriceCents,
		product.Currency,
		product.ImageURL,
		product.Active,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert key=%s error=%v", product.Key, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted key=%s id=%s", out.Key, out.ID)
	return &out, nil
}
