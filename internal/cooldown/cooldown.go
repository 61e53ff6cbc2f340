// Package cooldown gates repeat alerts: an alert kind for a product
// may only go out again after the configured window has elapsed.
package cooldown

import (
	"context"
	"time"

	"github.com/stockpeek/jysk-monitor/internal/models"
)

// alertCounter is the slice of the alert history the gate needs.
type alertCounter interface {
	CountAlertsSince(ctx context.Context, productID int64, scope string, kind models.AlertKind, cutoff time.Time) (int, error)
}

// HistoryGate answers from the alert history table: sending is allowed
// when no alert of that kind was recorded inside the window.
type HistoryGate struct {
	counter alertCounter
	window  time.Duration
}

func NewHistoryGate(counter alertCounter, window time.Duration) *HistoryGate {
	return &HistoryGate{counter: counter, window: window}
}

func (g *HistoryGate) Allow(ctx context.Context, productID int64, scope string, kind models.AlertKind) (bool, error) {
	count, err := g.counter.CountAlertsSince(ctx, productID, scope, kind, time.Now().Add(-g.window))
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Record is a no-op for the history gate: the alert row the driver
// writes after sending already serves as the marker.
func (g *HistoryGate) Record(ctx context.Context, productID int64, scope string, kind models.AlertKind) error {
	return nil
}
