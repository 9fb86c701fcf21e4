// Package sequence hands out receipt numbers from a shared Redis counter.
package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/kasir-api/internal/domain/pos"
)

// counterTTL keeps a day's counter past midnight in every timezone.
const counterTTL = 48 * time.Hour

// Counter is the subset of the Redis client the generator uses.
type Counter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	CounterKey(parts ...string) string
}

// RedisGenerator numbers receipts with INCR on a per-prefix, per-day key.
type RedisGenerator struct {
	counter  Counter
	prefixes pos.InvoicePrefixes
	now      func() time.Time
}

func NewRedisGenerator(counter Counter, prefixes pos.InvoicePrefixes) *RedisGenerator {
	return &RedisGenerator{counter: counter, prefixes: prefixes, now: time.Now}
}

func (g *RedisGenerator) Next(ctx context.Context, manual bool) (string, error) {
	prefix := g.prefixes.For(manual)
	day := pos.InvoiceDay(g.now())
	seq, err := g.counter.IncrWithTTL(ctx, g.counter.CounterKey("invoice", prefix, day), counterTTL)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return pos.FormatInvoiceNumber(prefix, day, seq), nil
}
