//go:build integration

package redis_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/integratewise/webhook-gateway/event"
	"github.com/integratewise/webhook-gateway/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingestedEvent(p provider.Provider, valid bool) event.InboundEvent {
	return event.InboundEvent{
		ID:             uuid.New().String(),
		Provider:       p,
		EventType:      "push",
		RawPayload:     json.RawMessage(`{}`),
		SignatureValid: valid,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestCache_Record_Integration(t *testing.T) {
	t.Run("counts received events per provider", func(t *testing.T) {
		ctx := context.Background()

		rc, cleanup := SetupRedisContainer(t, ctx)
		defer cleanup()

		cache := CreateTestCache(t, rc.Addr)
		defer cache.Close(ctx)

		require.NoError(t, cache.Record(ctx, ingestedEvent(provider.GitHub, true)))
		require.NoError(t, cache.Record(ctx, ingestedEvent(provider.GitHub, true)))
		require.NoError(t, cache.Record(ctx, ingestedEvent(provider.Slack, true)))

		counts, err := cache.ReceivedCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts["github"])
		assert.Equal(t, int64(1), counts["slack"])
	})

	t.Run("counts invalid signatures separately", func(t *testing.T) {
		ctx := context.Background()

		rc, cleanup := SetupRedisContainer(t, ctx)
		defer cleanup()

		cache := CreateTestCache(t, rc.Addr)
		defer cache.Close(ctx)

		require.NoError(t, cache.Record(ctx, ingestedEvent(provider.GitHub, true)))
		require.NoError(t, cache.Record(ctx, ingestedEvent(provider.GitHub, false)))

		invalid, err := cache.InvalidSignatureCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), invalid["github"])

		received, err := cache.ReceivedCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), received["github"])
	})

	t.Run("recent ring returns newest first and stays capped", func(t *testing.T) {
		ctx := context.Background()

		rc, cleanup := SetupRedisContainer(t, ctx)
		defer cleanup()

		cache := CreateTestCache(t, rc.Addr)
		defer cache.Close(ctx)

		var lastID string
		for i := 0; i < 105; i++ {
			ev := ingestedEvent(provider.Vercel, true)
			ev.EventType = fmt.Sprintf("deployment-%d", i)
			lastID = ev.ID
			require.NoError(t, cache.Record(ctx, ev))
		}

		recent, err := cache.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, recent, 100)
		assert.Equal(t, lastID, recent[0].ID)
		assert.Equal(t, "deployment-104", recent[0].EventType)
	})

	t.Run("instance heartbeats are visible until they expire", func(t *testing.T) {
		ctx := context.Background()

		rc, cleanup := SetupRedisContainer(t, ctx)
		defer cleanup()

		cache := CreateTestCache(t, rc.Addr)
		defer cache.Close(ctx)

		require.NoError(t, cache.SetInstanceHeartbeat(ctx, "gw-1", "serving"))
		require.NoError(t, cache.SetInstanceHeartbeat(ctx, "gw-2", "draining"))

		instances, err := cache.ActiveInstances(ctx)
		require.NoError(t, err)
		require.Len(t, instances, 2)

		statuses := map[string]string{}
		for _, hb := range instances {
			statuses[hb.InstanceID] = hb.Status
		}
		assert.Equal(t, "serving", statuses["gw-1"])
		assert.Equal(t, "draining", statuses["gw-2"])
	})

	t.Run("throughput window covers just-recorded events", func(t *testing.T) {
		ctx := context.Background()

		rc, cleanup := SetupRedisContainer(t, ctx)
		defer cleanup()

		cache := CreateTestCache(t, rc.Addr)
		defer cache.Close(ctx)

		for i := 0; i < 5; i++ {
			require.NoError(t, cache.Record(ctx, ingestedEvent(provider.Razorpay, true)))
		}

		total, err := cache.ThroughputSince(ctx, 5*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})
}
