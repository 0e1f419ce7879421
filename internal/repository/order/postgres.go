package order

import (
	"context"
	"encoding/json"
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

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var orderID string
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, status, total_cents, address)
VALUES ($1, $2, $3, $4)
RETURNING id::text
`, in.UserID, domain.OrderStatusPlaced, in.TotalCents, in.Address).Scan(&orderID)
	if err != nil {
		return nil, err
	}

	for _, item := range in.Items {
		complementsJSON, err := json.Marshal(nonNilIDs(item.ComplementIDs))
		if err != nil {
			return nil, err
		}
		var customJSON *string
		if item.Custom != nil {
			b, err := json.Marshal(item.Custom)
			if err != nil {
				return nil, err
			}
			s := string(b)
			customJSON = &s
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, kind, name, quantity, unit_price_cents, total_cents, complement_ids, custom)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb)
`, orderID, item.ProductID, item.Kind, item.Name, item.Quantity, item.UnitPriceCents, item.TotalCents, string(complementsJSON), customJSON); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Printf("order repo: created id=%s user_id=%s items=%d total_cents=%d", orderID, in.UserID, len(in.Items), in.TotalCents)
	return r.GetByID(ctx, orderID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, status, total_cents, address, delivery_person_id::text, created_at
FROM orders
WHERE id = $1
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.TotalCents,
		&o.Address,
		&o.DeliveryPersonID,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	items, err := r.fetchItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, status, total_cents, address, delivery_person_id::text, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	return r.list(ctx, q, userID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, status, total_cents, address, delivery_person_id::text, created_at
FROM orders
ORDER BY created_at DESC
`
	return r.list(ctx, q)
}

func (r *postgresRepo) SetStatus(ctx context.Context, id, status string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) AssignDeliveryPerson(ctx context.Context, id, deliveryPersonID string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET delivery_person_id = $2 WHERE id = $1`, id, deliveryPersonID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.Address, &o.DeliveryPersonID, &o.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := r.fetchItems(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}

func (r *postgresRepo) fetchItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
SELECT id::text, order_id::text, product_id::text, kind, name, quantity, unit_price_cents, total_cents, complement_ids, custom
FROM order_items
WHERE order_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Kind,
			&item.Name,
			&item.Quantity,
			&item.UnitPriceCents,
			&item.TotalCents,
			&item.ComplementIDs,
			&item.Custom,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func nonNilIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
