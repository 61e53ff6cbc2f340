package database

import (
	"context"
	"fmt"
	"time"

	"github.com/stockpeek/jysk-monitor/internal/models"
)

// InsertAlert appends a sent alert to history. The scope lands in the
// store_name column, matching how cooldown lookups key their counts.
func (db *DB) InsertAlert(ctx context.Context, productID int64, scope string, decision models.AlertDecision, channel string) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO alerts (product_id, store_name, alert_type, prev_value, curr_value, sent_at, channel)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		productID, scope, decision.Kind, decision.PrevValue, decision.CurrValue, time.Now(), channel)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// CountAlertsSince counts alerts of one kind for a product/scope sent
// after the cutoff. The cooldown gate treats any nonzero count as
// "recently sent".
func (db *DB) CountAlertsSince(ctx context.Context, productID int64, scope string, kind models.AlertKind, cutoff time.Time) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM alerts
		WHERE product_id = $1 AND store_name = $2 AND alert_type = $3 AND sent_at > $4`,
		productID, scope, kind, cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return count, nil
}
