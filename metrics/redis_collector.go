package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/integratewise/webhook-gateway/event/redis"
)

// RedisCollector implements the Collector interface over the Redis
// operational cache the pipeline writes to
type RedisCollector struct {
	cache *redis.Cache
}

// NewRedisCollector creates a new Redis metrics collector
func NewRedisCollector(cache *redis.Cache) *RedisCollector {
	return &RedisCollector{cache: cache}
}

// Collect gathers all metrics from Redis
func (c *RedisCollector) Collect(ctx context.Context) (Metrics, error) {
	received, err := c.GetReceivedCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting received counts: %w", err)
	}

	invalid, err := c.GetInvalidSignatureCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting invalid signature counts: %w", err)
	}

	throughput, err := c.GetThroughput(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting throughput: %w", err)
	}

	return Metrics{
		ReceivedCounts:         received,
		InvalidSignatureCounts: invalid,
		Throughput:             throughput,
		Timestamp:              time.Now(),
	}, nil
}

// GetReceivedCounts returns ingested events per provider
func (c *RedisCollector) GetReceivedCounts(ctx context.Context) (map[string]int64, error) {
	return c.cache.ReceivedCounts(ctx)
}

// GetInvalidSignatureCounts returns failed verifications per provider
func (c *RedisCollector) GetInvalidSignatureCounts(ctx context.Context) (map[string]int64, error) {
	return c.cache.InvalidSignatureCounts(ctx)
}

// GetThroughput returns events ingested over the standard time windows
func (c *RedisCollector) GetThroughput(ctx context.Context) (ThroughputMetrics, error) {
	lastMinute, err := c.cache.ThroughputSince(ctx, time.Minute)
	if err != nil {
		return ThroughputMetrics{}, fmt.Errorf("reading 1m window: %w", err)
	}

	lastFive, err := c.cache.ThroughputSince(ctx, 5*time.Minute)
	if err != nil {
		return ThroughputMetrics{}, fmt.Errorf("reading 5m window: %w", err)
	}

	lastFifteen, err := c.cache.ThroughputSince(ctx, 15*time.Minute)
	if err != nil {
		return ThroughputMetrics{}, fmt.Errorf("reading 15m window: %w", err)
	}

	return ThroughputMetrics{
		LastMinute:         lastMinute,
		LastFiveMinutes:    lastFive,
		LastFifteenMinutes: lastFifteen,
	}, nil
}
