package lock

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still holds our token, so a
// holder whose lock already expired cannot release somebody else's.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// Redis is a distributed lock built on SET NX PX.  A lock whose holder
// crashes disappears after TTL.
type Redis struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration

	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewRedis returns a Redis locker.  Keys are stored as prefix:key.
func NewRedis(rdb redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	return &Redis{
		rdb:        rdb,
		prefix:     prefix,
		ttl:        ttl,
		minBackoff: 10 * time.Millisecond,
		maxBackoff: 200 * time.Millisecond,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	full := r.prefix + ":" + key
	token := uuid.NewString()
	backoff := r.minBackoff
	for {
		ok, err := r.rdb.SetNX(ctx, full, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, timeout(ctx, key)
			}
			return nil, err
		}
		if ok {
			return r.unlocker(full, token), nil
		}
		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, timeout(ctx, key)
		case <-t.C:
		}
		if backoff *= 2; backoff > r.maxBackoff {
			backoff = r.maxBackoff
		}
	}
}

func (r *Redis) unlocker(full, token string) func() {
	var once sync.Once
	return func() { once.Do(func() { r.release(full, token) }) }
}

// release runs on a fresh context; the caller's may already be cancelled.
func (r *Redis) release(full, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, r.rdb, []string{full}, token).Err(); err != nil {
		log.Printf("lock: release %s: %v", full, err)
	}
}
