package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Key         string
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Currency    string
}

type complementSeed struct {
	Name       string
	PriceCents int64
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{Key: "acai-300", Name: "Açaí 300ml", Description: "Classic açaí bowl, 300ml", Category: "acai", PriceCents: 1200, Currency: "BRL"},
		{Key: "acai-500", Name: "Açaí 500ml", Description: "Classic açaí bowl, 500ml", Category: "acai", PriceCents: 1700, Currency: "BRL"},
		{Key: "acai-700", Name: "Açaí 700ml", Description: "Classic açaí bowl, 700ml", Category: "acai", PriceCents: 2200, Currency: "BRL"},
		{Key: "icecream-chocolate", Name: "Chocolate Ice Cream", Description: "Two scoops", Category: "ice_cream", PriceCents: 900, Currency: "BRL"},
		{Key: "icecream-strawberry", Name: "Strawberry Ice Cream", Description: "Two scoops", Category: "ice_cream", PriceCents: 900, Currency: "BRL"},
		{Key: "water-500", Name: "Mineral Water 500ml", Category: "drinks", PriceCents: 400, Currency: "BRL"},
	}
	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
	}

	complements := []complementSeed{
		{Name: "Granola", PriceCents: 200},
		{Name: "Condensed milk", PriceCents: 150},
		{Name: "Banana", PriceCents: 100},
		{Name: "Strawberry", PriceCents: 250},
		{Name: "Powdered milk", PriceCents: 150},
		{Name: "Paçoca", PriceCents: 200},
	}
	for _, c := range complements {
		if err := upsertComplement(ctx, pool, c); err != nil {
			return fmt.Errorf("upsert complement %s: %w", c.Name, err)
		}
	}

	if err := seedStoreHours(ctx, pool); err != nil {
		return fmt.Errorf("seed store hours: %w", err)
	}
	if err := seedAdmin(ctx, pool); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := seedDeliveryPeople(ctx, pool); err != nil {
		return fmt.Errorf("seed delivery people: %w", err)
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (key, name, description, category, price_cents, currency)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
ON CONFLICT (key) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency
`
	_, err := pool.Exec(ctx, q, p.Key, p.Name, p.Description, p.Category, p.PriceCents, p.Currency)
	return err
}

func upsertComplement(ctx context.Context, pool *pgxpool.Pool, c complementSeed) error {
	const q = `
INSERT INTO complements (name, price_cents)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE
SET price_cents = EXCLUDED.price_cents
`
	_, err := pool.Exec(ctx, q, c.Name, c.PriceCents)
	return err
}

func seedStoreHours(ctx context.Context, pool *pgxpool.Pool) error {
	// Tue-Sun 13:00-23:00, closed Mondays.
	for weekday := 0; weekday <= 6; weekday++ {
		if weekday == 1 {
			continue
		}
		const q = `
INSERT INTO store_hours (weekday, opens_at, closes_at)
VALUES ($1, '13:00', '23:00')
ON CONFLICT (weekday, opens_at) DO UPDATE SET closes_at = EXCLUDED.closes_at
`
		if _, err := pool.Exec(ctx, q, weekday); err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("Admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, password_hash, name, is_admin)
VALUES ('admin@acaihouse.local', $1, 'Admin', true)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, string(hash))
	return err
}

func seedDeliveryPeople(ctx context.Context, pool *pgxpool.Pool) error {
	names := []string{"Carlos", "Fernanda"}
	for _, name := range names {
		const q = `
INSERT INTO delivery_people (name, active)
SELECT $1, true
WHERE NOT EXISTS (SELECT 1 FROM delivery_people WHERE name = $1)
`
		if _, err := pool.Exec(ctx, q, name); err != nil {
			return err
		}
	}
	return nil
}
