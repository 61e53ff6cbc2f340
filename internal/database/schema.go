package database

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		jumia_sku TEXT UNIQUE NOT NULL,
		jysk_url TEXT NOT NULL,
		reference_price DOUBLE PRECISION NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		click_text TEXT,
		row_selector TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(id),
		store_name TEXT NOT NULL,
		qty INTEGER,
		status TEXT NOT NULL,
		price DOUBLE PRECISION,
		original_price DOUBLE PRECISION,
		is_on_sale BOOLEAN NOT NULL DEFAULT FALSE,
		fetched_at TIMESTAMPTZ NOT NULL,
		raw TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(id),
		store_name TEXT NOT NULL,
		alert_type TEXT NOT NULL,
		prev_value TEXT,
		curr_value TEXT,
		sent_at TIMESTAMPTZ NOT NULL,
		channel TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_product_store_time
		ON snapshots(product_id, store_name, fetched_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_product_store_time
		ON alerts(product_id, store_name, sent_at DESC)`,
}

// InitSchema creates the tables and indexes if they do not exist yet.
func (db *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
