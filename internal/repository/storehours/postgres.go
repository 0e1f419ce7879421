package storehours

import (
	"context"

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.StoreHours, error) {
	const q = `
SELECT weekday, opens_at, closes_at
FROM store_hours
ORDER BY weekday ASC, opens_at ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StoreHours
	for rows.Next() {
		var h domain.StoreHours
		if err := rows.Scan(&h.Weekday, &h.OpensAt, &h.ClosesAt); err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Replace(ctx context.Context, hours []domain.StoreHours) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM store_hours`); err != nil {
		return err
	}
	for _, h := range hours {
		if _, err := tx.Exec(ctx, `
INSERT INTO store_hours (weekday, opens_at, closes_at)
VALUES ($1, $2, $3)
`, h.Weekday, h.OpensAt, h.ClosesAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
