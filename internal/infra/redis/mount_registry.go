package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "quiz:mount:"

// MountRegistry marks live mounts with expiring keys so several hosts can
// share one count. A crashed host's mounts drop out after ttl.
type MountRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMountRegistry(client *redis.Client, ttl time.Duration) *MountRegistry {
	return &MountRegistry{client: client, ttl: ttl}
}

// Register sets or refreshes the mount's key.
func (r *MountRegistry) Register(ctx context.Context, id string) error {
	if err := r.client.Set(ctx, r.key(id), time.Now().Unix(), r.ttl).Err(); err != nil {
		return fmt.Errorf("register mount %s: %w", id, err)
	}
	return nil
}

func (r *MountRegistry) Unregister(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("unregister mount %s: %w", id, err)
	}
	return nil
}

// Active counts mount keys with SCAN.
func (r *MountRegistry) Active(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("scan mounts: %w", err)
		}
		count += len(keys)
		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}

func (r *MountRegistry) key(id string) string {
	return keyPrefix + id
}
