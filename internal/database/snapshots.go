package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stockpeek/jysk-monitor/internal/models"
)

// InsertSnapshots appends one row per store for this run, all carrying
// the same fetched_at and price fact. Snapshots are never updated; a
// new run supersedes the previous one in history.
func (db *DB) InsertSnapshots(ctx context.Context, productID int64, facts []models.StockFact, price models.PriceFact, fetchedAt time.Time) error {
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, fact := range facts {
			_, err := tx.Exec(ctx, `
				INSERT INTO snapshots (product_id, store_name, qty, status, price, original_price, is_on_sale, fetched_at, raw)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))`,
				productID, fact.StoreName, fact.Qty, fact.Status,
				price.CurrentPrice, price.OriginalPrice, price.OnSale,
				fetchedAt, fact.RawText)
			if err != nil {
				return fmt.Errorf("failed to insert snapshot for %s: %w", fact.StoreName, err)
			}
		}
		return nil
	})
}

// LatestSnapshots returns the most recent snapshot per (product,
// store), joined with the product identity, for export and the ops API.
func (db *DB) LatestSnapshots(ctx context.Context) ([]models.Snapshot, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT DISTINCT ON (p.id, s.store_name)
			p.id, p.jumia_sku, p.jysk_url, s.store_name, s.qty, s.status,
			s.price, s.original_price, s.is_on_sale, s.raw, s.fetched_at
		FROM products p
		JOIN snapshots s ON s.product_id = p.id
		ORDER BY p.id, s.store_name, s.fetched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var (
			snap models.Snapshot
			raw  sql.NullString
		)
		if err := rows.Scan(&snap.ProductID, &snap.SKU, &snap.URL, &snap.StoreName,
			&snap.Qty, &snap.Status, &snap.Price, &snap.OriginalPrice,
			&snap.OnSale, &raw, &snap.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.RawText = raw.String
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}
