package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS foods (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		category   TEXT NOT NULL DEFAULT '',
		price      NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		available  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS ingredients (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		current_stock DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (current_stock >= 0),
		threshold     DOUBLE PRECISION NOT NULL DEFAULT 0,
		unit          TEXT NOT NULL DEFAULT '',
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS recipes (
		id      BIGSERIAL PRIMARY KEY,
		food_id BIGINT NOT NULL UNIQUE REFERENCES foods(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS recipe_ingredients (
		id            BIGSERIAL PRIMARY KEY,
		recipe_id     BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		ingredient_id BIGINT NOT NULL REFERENCES ingredients(id),
		amount        DOUBLE PRECISION NOT NULL CHECK (amount > 0),
		position      INT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_ingredient ON recipe_ingredients(ingredient_id)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		session_id  TEXT NOT NULL,
		food_id     BIGINT NOT NULL REFERENCES foods(id) ON DELETE CASCADE,
		quantity    INT NOT NULL CHECK (quantity > 0),
		total_price NUMERIC(12,2) NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (session_id, food_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           BIGSERIAL PRIMARY KEY,
		table_number INT NOT NULL CHECK (table_number BETWEEN 1 AND 25),
		status       TEXT NOT NULL,
		order_time   TIMESTAMPTZ NOT NULL,
		delivered_at TIMESTAMPTZ,
		total_price  NUMERIC(12,2) NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id          BIGSERIAL PRIMARY KEY,
		order_id    BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		food_id     BIGINT NOT NULL,
		food_name   TEXT NOT NULL,
		quantity    INT NOT NULL CHECK (quantity > 0),
		total_price NUMERIC(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_status_log (
		id         BIGSERIAL PRIMARY KEY,
		order_id   BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		status     TEXT NOT NULL,
		changed_by TEXT NOT NULL DEFAULT '',
		changed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the schema. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
