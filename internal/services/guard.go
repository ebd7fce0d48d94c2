package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ActivityGuard observes how often one initiator runs reset operations over a
// sliding time window. It flags excessive activity; it never blocks.
type ActivityGuard interface {
	// RecordReset counts one reset for the initiator and reports whether the
	// initiator now exceeds the configured threshold within the window.
	RecordReset(ctx context.Context, initiator uuid.UUID) (flagged bool, count int64, err error)
}

// NewActivityGuard returns a Redis-backed guard when a client is available
// and an in-process fallback otherwise.
func NewActivityGuard(rdb *redis.Client, threshold int64, window time.Duration) ActivityGuard {
	if rdb != nil {
		return &redisActivityGuard{rdb: rdb, threshold: threshold, window: window}
	}
	return &memoryActivityGuard{
		events:    make(map[uuid.UUID][]time.Time),
		threshold: threshold,
		window:    window,
	}
}

const resetActivityKeyPrefix = "reset_activity:"

// redisActivityGuard keeps one sorted set per initiator, scored by event
// time, pruned to the window on every write.
type redisActivityGuard struct {
	rdb       *redis.Client
	threshold int64
	window    time.Duration
}

func (g *redisActivityGuard) RecordReset(ctx context.Context, initiator uuid.UUID) (bool, int64, error) {
	key := resetActivityKeyPrefix + initiator.String()
	now := time.Now()
	windowStart := now.Add(-g.window)

	pipe := g.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	cardCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, g.window+time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to record reset activity: %w", err)
	}

	count := cardCmd.Val()
	return count > g.threshold, count, nil
}

// memoryActivityGuard is the single-process fallback used when Redis is not
// configured, and in tests.
type memoryActivityGuard struct {
	mu        sync.Mutex
	events    map[uuid.UUID][]time.Time
	threshold int64
	window    time.Duration
}

func (g *memoryActivityGuard) RecordReset(_ context.Context, initiator uuid.UUID) (bool, int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-g.window)

	kept := g.events[initiator][:0]
	for _, t := range g.events[initiator] {
		if t.After(windowStart) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	g.events[initiator] = kept

	count := int64(len(kept))
	return count > g.threshold, count, nil
}
