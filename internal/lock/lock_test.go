package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotKey(t *testing.T) {
	d := time.Date(2026, 10, 20, 19, 30, 0, 0, time.UTC)
	assert.Equal(t, "slot:7:2026-10-20", SlotKey(7, d))
}

func TestLocal_MutualExclusion(t *testing.T) {
	l := NewLocal()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "k")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
	assert.Zero(t, l.held(), "released keys are dropped")
}

func TestLocal_TimesOut(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, ErrTimeout)

	// other keys are independent
	u2, err := l.Lock(context.Background(), "other")
	require.NoError(t, err)
	u2()
}

func TestLocal_UnlockIsIdempotent(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock()
	unlock()
	u, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	u()
}

func newRedisLocker(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedis(rdb, "lock", ttl), mr
}

func TestRedis_LockAndRelease(t *testing.T) {
	l, mr := newRedisLocker(t, 10*time.Second)
	unlock, err := l.Lock(context.Background(), "slot:1:2026-10-20")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:slot:1:2026-10-20"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "slot:1:2026-10-20")
	assert.ErrorIs(t, err, ErrTimeout)

	unlock()
	assert.False(t, mr.Exists("lock:slot:1:2026-10-20"))

	u2, err := l.Lock(context.Background(), "slot:1:2026-10-20")
	require.NoError(t, err)
	u2()
}

func TestRedis_ExpiredHolderCannotReleaseNewOwner(t *testing.T) {
	l, mr := newRedisLocker(t, time.Second)
	stale, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	fresh, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists("lock:k"), "stale unlock must not delete the new owner's key")
	fresh()
	assert.False(t, mr.Exists("lock:k"))
}
