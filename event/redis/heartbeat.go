package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// InstanceHeartbeat represents the liveness record one gateway instance
// publishes while it is serving traffic
type InstanceHeartbeat struct {
	InstanceID    string    `json:"instance_id"`
	Status        string    `json:"status"` // "starting", "serving", "draining"
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// SetInstanceHeartbeat stores or refreshes this instance's heartbeat.
// The key carries a 60 second TTL so a crashed instance disappears from
// the active set on its own; callers should refresh every 30 seconds.
func (c *Cache) SetInstanceHeartbeat(ctx context.Context, instanceID, status string) error {
	key := fmt.Sprintf("gateway:heartbeat:%s", instanceID)

	heartbeat := InstanceHeartbeat{
		InstanceID:    instanceID,
		Status:        status,
		LastHeartbeat: time.Now(),
	}

	data, err := json.Marshal(heartbeat)
	if err != nil {
		return fmt.Errorf("marshaling heartbeat: %w", err)
	}

	if err := c.client.Set(ctx, key, data, 60*time.Second).Err(); err != nil {
		return fmt.Errorf("setting heartbeat: %w", err)
	}

	return nil
}

// ActiveInstances retrieves every gateway instance with a live heartbeat
func (c *Cache) ActiveInstances(ctx context.Context) ([]InstanceHeartbeat, error) {
	var instances []InstanceHeartbeat

	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, "gateway:heartbeat:*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning heartbeat keys: %w", err)
		}

		for _, key := range keys {
			data, err := c.client.Get(ctx, key).Result()
			if err == redis.Nil {
				// Key expired between scan and get
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("getting instance heartbeat: %w", err)
			}

			var heartbeat InstanceHeartbeat
			if err := json.Unmarshal([]byte(data), &heartbeat); err != nil {
				continue
			}

			instances = append(instances, heartbeat)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return instances, nil
}
