package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/integratewise/webhook-gateway/event"
	"github.com/redis/go-redis/v9"
)

/* Redis-backed operational cache for the ingestion pipeline
 * Keeps per-provider counters and a capped ring of recent events for the
 * metrics collector and the health endpoint. Written best-effort after
 * persistence: the datastore of record is PostgreSQL, so losing a counter
 * update only skews operational numbers.
 */

const (
	receivedHashKey = "webhooks:received"       // HINCRBY field per provider
	invalidHashKey  = "webhooks:invalid_sig"    // HINCRBY field per provider
	recentListKey   = "webhooks:recent"         // LPUSH/LTRIM ring of summaries
	throughputKey   = "webhooks:throughput:%s"  // per-minute buckets, formatted 2006-01-02T15:04
	recentRingSize  = 100
)

// Summary is the compact event record kept in the recent ring
type Summary struct {
	ID             string    `json:"id"`
	Provider       string    `json:"provider"`
	EventType      string    `json:"event_type"`
	SignatureValid bool      `json:"signature_valid"`
	CreatedAt      time.Time `json:"created_at"`
}

type Cache struct {
	client *redis.Client
}

// NewCache creates a new Redis operational cache
func NewCache(addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// NewCacheWithClient wraps an existing client, used by tests
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Record updates counters and the recent-event ring for one ingested event
func (c *Cache) Record(ctx context.Context, ev event.InboundEvent) error {
	p := ev.Provider.String()

	if err := c.client.HIncrBy(ctx, receivedHashKey, p, 1).Err(); err != nil {
		return fmt.Errorf("incrementing received counter: %w", err)
	}

	if !ev.SignatureValid {
		if err := c.client.HIncrBy(ctx, invalidHashKey, p, 1).Err(); err != nil {
			return fmt.Errorf("incrementing invalid signature counter: %w", err)
		}
	}

	bucket := fmt.Sprintf(throughputKey, ev.CreatedAt.UTC().Format("2006-01-02T15:04"))
	if err := c.client.Incr(ctx, bucket).Err(); err != nil {
		return fmt.Errorf("incrementing throughput bucket: %w", err)
	}
	// Minute buckets expire on their own; 20 minutes covers every window
	// the collector reads
	c.client.Expire(ctx, bucket, 20*time.Minute)

	summary, err := json.Marshal(Summary{
		ID:             ev.ID,
		Provider:       p,
		EventType:      ev.EventType,
		SignatureValid: ev.SignatureValid,
		CreatedAt:      ev.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.LPush(ctx, recentListKey, summary)
	pipe.LTrim(ctx, recentListKey, 0, recentRingSize-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pushing recent event: %w", err)
	}

	return nil
}

// ReceivedCounts returns the number of events received per provider
func (c *Cache) ReceivedCounts(ctx context.Context) (map[string]int64, error) {
	return c.readHash(ctx, receivedHashKey)
}

// InvalidSignatureCounts returns the number of failed verifications per provider
func (c *Cache) InvalidSignatureCounts(ctx context.Context) (map[string]int64, error) {
	return c.readHash(ctx, invalidHashKey)
}

// Recent returns up to limit most recent event summaries, newest first
func (c *Cache) Recent(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 || limit > recentRingSize {
		limit = recentRingSize
	}

	raw, err := c.client.LRange(ctx, recentListKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading recent events: %w", err)
	}

	summaries := make([]Summary, 0, len(raw))
	for _, item := range raw {
		var s Summary
		if err := json.Unmarshal([]byte(item), &s); err != nil {
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// ThroughputSince sums the per-minute buckets over the trailing window
func (c *Cache) ThroughputSince(ctx context.Context, window time.Duration) (int64, error) {
	var total int64
	now := time.Now().UTC()
	minutes := int(window.Minutes())

	for i := 0; i < minutes; i++ {
		bucket := fmt.Sprintf(throughputKey, now.Add(-time.Duration(i)*time.Minute).Format("2006-01-02T15:04"))
		n, err := c.client.Get(ctx, bucket).Int64()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("reading throughput bucket: %w", err)
		}
		total += n
	}
	return total, nil
}

// Close closes the Redis connection
func (c *Cache) Close(ctx context.Context) error {
	return c.client.Close()
}

func (c *Cache) readHash(ctx context.Context, key string) (map[string]int64, error) {
	raw, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	counts := make(map[string]int64, len(raw))
	for field, value := range raw {
		var n int64
		fmt.Sscanf(value, "%d", &n)
		counts[field] = n
	}
	return counts, nil
}
