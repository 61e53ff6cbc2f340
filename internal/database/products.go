package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stockpeek/jysk-monitor/internal/models"
)

// ListActiveProducts returns the products enabled for monitoring.
func (db *DB) ListActiveProducts(ctx context.Context) ([]models.ProductTarget, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, jumia_sku, jysk_url, reference_price, active, click_text, row_selector
		FROM products
		WHERE active
		ORDER BY jumia_sku`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.ProductTarget
	for rows.Next() {
		var (
			p                      models.ProductTarget
			clickText, rowSelector sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.SKU, &p.URL, &p.ReferencePrice, &p.Active, &clickText, &rowSelector); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.ClickText = clickText.String
		p.RowSelector = rowSelector.String
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpsertProduct inserts a product or refreshes its URL, reference
// price and extraction hints, keyed by SKU.
func (db *DB) UpsertProduct(ctx context.Context, p models.ProductTarget) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO products (jumia_sku, jysk_url, reference_price, click_text, row_selector)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		ON CONFLICT (jumia_sku) DO UPDATE SET
			jysk_url = EXCLUDED.jysk_url,
			reference_price = EXCLUDED.reference_price,
			click_text = EXCLUDED.click_text,
			row_selector = EXCLUDED.row_selector`,
		p.SKU, p.URL, p.ReferencePrice, p.ClickText, p.RowSelector)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.SKU, err)
	}
	return nil
}
