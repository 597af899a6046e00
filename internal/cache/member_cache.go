package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IcramDoku/cmsc447project/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const memberCacheTTL = 5 * time.Minute

// MemberCache caches resolved group member ID lists in Redis. A nil
// *MemberCache is valid and disables caching, which is how tests and
// Redis-less deployments run.
type MemberCache struct {
	rdb *redis.Client
}

// NewMemberCache connects to Redis at addr. An empty addr disables the
// cache.
func NewMemberCache(addr string) (*MemberCache, error) {
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	log.Println("Redis connection established")
	return &MemberCache{rdb: rdb}, nil
}

func memberKey(groupID uint64) string {
	return fmt.Sprintf("group_members:%d", groupID)
}

// Get returns the cached member IDs for a group, if present.
func (c *MemberCache) Get(ctx context.Context, groupID uint64) ([]uint64, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, memberKey(groupID)).Bytes()
	if err != nil {
		metrics.MemberCacheMisses.Inc()
		return nil, false
	}

	var ids []uint64
	if err := json.Unmarshal(raw, &ids); err != nil {
		// Stale or corrupt entry; treat as a miss and drop it.
		c.rdb.Del(ctx, memberKey(groupID))
		metrics.MemberCacheMisses.Inc()
		return nil, false
	}

	metrics.MemberCacheHits.Inc()
	return ids, true
}

// Set stores the member IDs for a group. Failures are logged, not returned:
// the cache is an optimization and must not fail the request.
func (c *MemberCache) Set(ctx context.Context, groupID uint64, ids []uint64) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, memberKey(groupID), raw, memberCacheTTL).Err(); err != nil {
		log.Printf("member cache: failed to set group %d: %v", groupID, err)
	}
}

// Invalidate drops the cached member list for a group. Called whenever the
// group's membership changes.
func (c *MemberCache) Invalidate(ctx context.Context, groupID uint64) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, memberKey(groupID)).Err(); err != nil {
		log.Printf("member cache: failed to invalidate group %d: %v", groupID, err)
	}
}
