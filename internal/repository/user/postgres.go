package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"acaihouse/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (email, password_hash, name, phone, address, is_admin)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, email, password_hash, name, phone, address, is_admin, created_at
`
	row := r.pool.QueryRow(ctx, q,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.Name,
		u.Phone,
		u.Address,
		u.IsAdmin,
	)
	out, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: create email=%s error=%v", u.Email, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id::text, email, password_hash, name, phone, address, is_admin, created_at
FROM users
WHERE lower(email) = lower($1)
LIMIT 1
`
	return r.get(ctx, q, email)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id::text, email, password_hash, name, phone, address, is_admin, created_at
FROM users
WHERE id = $1
LIMIT 1
`
	return r.get(ctx, q, id)
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id string, name, phone, address string) (*domain.User, error) {
	const q = `
UPDATE users
SET name = $2, phone = $3, address = $4
WHERE id = $1
RETURNING id::text, email, password_hash, name, phone, address, is_admin, created_at
`
	out, err := scanUser(r.pool.QueryRow(ctx, q, id, name, phone, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) get(ctx context.Context, q string, arg string) (*domain.User, error) {
	out, err := scanUser(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Phone,
		&u.Address,
		&u.IsAdmin,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
