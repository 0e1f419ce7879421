package cart

import (
	"context"
	"encoding/json"
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

func (r *postgresRepo) GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id::text
`
	var cartID string
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&cartID); err != nil {
		return nil, err
	}
	return r.fetchCart(ctx, cartID)
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT id::text
FROM carts
WHERE user_id = $1
`
	var cartID string
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&cartID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.fetchCart(ctx, cartID)
}

func (r *postgresRepo) AddProductLine(ctx context.Context, in AddProductLineInput) error {
	complementsJSON, err := marshalComplementIDs(in.ComplementIDs)
	if err != nil {
		return err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var lineID string
	var existingQty int
	var unitPrice int64
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity, unit_price_cents
FROM cart_items
WHERE cart_id = $1 AND product_id = $2 AND complement_ids = $3::jsonb
`, in.CartID, in.Product.ID, complementsJSON).Scan(&lineID, &existingQty, &unitPrice)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		newQty := existingQty + in.Quantity
		newTotal := unitPrice * int64(newQty)
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1, total_cents = $2
WHERE id = $3
`, newQty, newTotal, lineID); err != nil {
			return err
		}
	} else {
		total := in.UnitPriceCents * int64(in.Quantity)
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, kind, name, quantity, unit_price_cents, total_cents, complement_ids)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)
`, in.CartID, in.Product.ID, domain.ItemKindProduct, in.Product.Name, in.Quantity, in.UnitPriceCents, total, complementsJSON); err != nil {
			return err
		}
	}

	if err := updateCartTotal(ctx, tx, in.CartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) AddCustomLine(ctx context.Context, in AddCustomLineInput) error {
	customJSON, err := json.Marshal(in.Custom)
	if err != nil {
		return err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	total := in.Custom.ValueCents * int64(in.Quantity)
	if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, kind, name, quantity, unit_price_cents, total_cents, custom)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
`, in.CartID, in.Kind, in.Name, in.Quantity, in.Custom.ValueCents, total, string(customJSON)); err != nil {
		return err
	}

	if err := updateCartTotal(ctx, tx, in.CartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) ChangeItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if quantity <= 0 {
		cmd, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND cart_id = $2
`, itemID, cartID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	} else {
		var unitPrice int64
		err := tx.QueryRow(ctx, `
SELECT unit_price_cents
FROM cart_items
WHERE id = $1 AND cart_id = $2
`, itemID, cartID).Scan(&unitPrice)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		total := unitPrice * int64(quantity)
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1, total_cents = $2
WHERE id = $3 AND cart_id = $4
`, quantity, total, itemID, cartID); err != nil {
			return err
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, itemID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND cart_id = $2
`, itemID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE carts SET total_cents = 0 WHERE id = $1`, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	const cartQuery = `
SELECT id::text, user_id::text, total_cents, created_at
FROM carts
WHERE id = $1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, cartID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.TotalCents,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT id::text, cart_id::text, product_id::text, kind, name, quantity, unit_price_cents, total_cents, complement_ids, custom, created_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Kind,
			&item.Name,
			&item.Quantity,
			&item.UnitPriceCents,
			&item.TotalCents,
			&item.ComplementIDs,
			&item.Custom,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func marshalComplementIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func updateCartTotal(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET total_cents = COALESCE((
	SELECT SUM(total_cents)
	FROM cart_items
	WHERE cart_id = $1
), 0)
WHERE id = $1
`, cartID)
	return err
}
