package sequence

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	values map[string]int64
	ttls   map[string]time.Duration
	err    error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{values: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCounter) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.values[key]++
	f.ttls[key] = ttl
	return f.values[key], nil
}

func (f *fakeCounter) CounterKey(parts ...string) string {
	return "test:" + strings.Join(parts, ":")
}

func TestRedisGeneratorSequences(t *testing.T) {
	counter := newFakeCounter()
	gen := NewRedisGenerator(counter, pos.InvoicePrefixes{Auto: "INV", Manual: "MNL"})
	gen.now = func() time.Time { return time.Date(2026, 1, 18, 23, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	a, err := gen.Next(ctx, false)
	require.NoError(t, err)
	b, err := gen.Next(ctx, false)
	require.NoError(t, err)
	m, err := gen.Next(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, "INV-20260118-0001", a)
	assert.Equal(t, "INV-20260118-0002", b)
	assert.Equal(t, "MNL-20260118-0001", m)
	assert.Equal(t, counterTTL, counter.ttls["test:invoice:INV:20260118"])
}

func TestRedisGeneratorError(t *testing.T) {
	counter := newFakeCounter()
	counter.err = errors.New("redis down")
	gen := NewRedisGenerator(counter, pos.DefaultInvoicePrefixes)

	_, err := gen.Next(context.Background(), false)
	require.ErrorIs(t, err, counter.err)
}
