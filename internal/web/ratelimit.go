package web

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a client may submit another assessment.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const (
	bucketIdleThreshold = 1 * time.Hour
	cleanupInterval     = 30 * time.Minute
)

type clientBucket struct {
	tokens     float64
	lastRefill time.Time
}

// MemoryLimiter is a per-key token bucket held in process memory.
type MemoryLimiter struct {
	mu          sync.Mutex
	capacity    float64
	ratePerSec  float64
	clients     map[string]*clientBucket
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewMemoryLimiter allows burst requests at once and refills at
// requestsPerMinute.
func NewMemoryLimiter(requestsPerMinute, burst int) *MemoryLimiter {
	rl := &MemoryLimiter{
		capacity:    float64(burst),
		ratePerSec:  float64(requestsPerMinute) / 60,
		clients:     make(map[string]*clientBucket),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *MemoryLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, bucket := range r.clients {
		if now.Sub(bucket.lastRefill) > bucketIdleThreshold {
			delete(r.clients, key)
		}
	}
}

func (r *MemoryLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

func (r *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	bucket, exists := r.clients[key]
	if !exists {
		bucket = &clientBucket{tokens: r.capacity, lastRefill: now}
		r.clients[key] = bucket
	} else {
		elapsed := now.Sub(bucket.lastRefill).Seconds()
		bucket.tokens = math.Min(r.capacity, bucket.tokens+elapsed*r.ratePerSec)
		bucket.lastRefill = now
	}

	if bucket.tokens < 1 {
		return false, nil
	}
	bucket.tokens--
	return true, nil
}

// RedisLimiter counts requests per key in fixed one-minute windows shared
// by every replica.
type RedisLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(client redis.Cmdable, requestsPerMinute int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  int64(requestsPerMinute),
		window: time.Minute,
		prefix: "risk:ratelimit",
		now:    time.Now,
	}
}

func (r *RedisLimiter) windowKey(key string) string {
	return fmt.Sprintf("%s:%s:%d", r.prefix, key, r.now().Unix()/int64(r.window/time.Second))
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := r.windowKey(key)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		pipe.Expire(ctx, windowKey, r.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}

	return incr.Val() <= r.limit, nil
}
