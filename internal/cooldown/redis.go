package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockpeek/jysk-monitor/internal/config"
	"github.com/stockpeek/jysk-monitor/internal/models"
)

// RedisGate keeps the cooldown marker in Redis with a TTL equal to the
// window, which survives history table cleanups and lets several
// monitor instances share one gate.
type RedisGate struct {
	client *redis.Client
	window time.Duration
}

func NewRedisGate(cfg config.RedisConfig, window time.Duration) *RedisGate {
	return &RedisGate{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		window: window,
	}
}

func (g *RedisGate) key(productID int64, scope string, kind models.AlertKind) string {
	return fmt.Sprintf("cooldown:%d:%s:%s", productID, scope, kind)
}

func (g *RedisGate) Allow(ctx context.Context, productID int64, scope string, kind models.AlertKind) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(productID, scope, kind)).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown lookup failed: %w", err)
	}
	return n == 0, nil
}

func (g *RedisGate) Record(ctx context.Context, productID int64, scope string, kind models.AlertKind) error {
	if err := g.client.Set(ctx, g.key(productID, scope, kind), time.Now().Unix(), g.window).Err(); err != nil {
		return fmt.Errorf("cooldown record failed: %w", err)
	}
	return nil
}

func (g *RedisGate) Close() error {
	return g.client.Close()
}
