package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/store"
)

type payload struct {
	Explanation string `json:"explanation"`
	Total       int    `json:"total"`
}

func TestGetOrCompute_Memory(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	clock := func() time.Time { return now }
	s := store.NewMemoryStore(store.WithClock(clock), store.WithCleanupInterval(0))
	defer s.Close()

	c := New[payload](s, 0, zaptest.NewLogger(t))
	assert.Equal(t, DefaultTTL, c.TTL)

	calls := 0
	compute := func(context.Context) (payload, error) {
		calls++
		return payload{Explanation: "fresh", Total: calls}, nil
	}

	v, hit, err := c.GetOrCompute(ctx, "wireless earbuds", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, v.Total)

	v, hit, err = c.GetOrCompute(ctx, "wireless earbuds", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, v.Total)
	assert.Equal(t, 1, calls)

	// 消息原文区分大小写
	_, hit, err = c.GetOrCompute(ctx, "Wireless earbuds", compute)
	require.NoError(t, err)
	assert.False(t, hit)

	now = now.Add(DefaultTTL + time.Second)
	v, hit, err = c.GetOrCompute(ctx, "wireless earbuds", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, v.Total)
}

func TestGetOrCompute_Error(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(store.WithCleanupInterval(0))
	defer s.Close()
	c := New[payload](s, time.Minute, nil)

	boom := errors.New("boom")
	_, _, err := c.GetOrCompute(ctx, "m", func(context.Context) (payload, error) {
		return payload{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, s.Len())
}

func TestGetOrCompute_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	s := store.NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer s.Close()

	c := New[payload](s, time.Minute, nil)
	_, hit, err := c.GetOrCompute(ctx, "msg", func(context.Context) (payload, error) {
		return payload{Explanation: "x", Total: 1}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, mr.Exists("chat:msg"))

	v, ok := c.Get(ctx, "msg")
	require.True(t, ok)
	assert.Equal(t, "x", v.Explanation)

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, "msg")
	assert.False(t, ok)
}

type failingStore struct{}

func (failingStore) Name() string { return "failing" }
func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "down")
}
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}
func (failingStore) Delete(context.Context, string) error { return nil }
func (failingStore) Close() error                         { return nil }

func TestGetOrCompute_StoreFailureDegrades(t *testing.T) {
	c := New[payload](failingStore{}, time.Minute, zaptest.NewLogger(t))

	v, hit, err := c.GetOrCompute(context.Background(), "m", func(context.Context) (payload, error) {
		return payload{Total: 7}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v.Total)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(store.WithCleanupInterval(0))
	defer s.Close()
	c := New[payload](s, time.Minute, nil)

	c.Set(ctx, "m", payload{Total: 1})
	require.NoError(t, c.Invalidate(ctx, "m"))
	_, ok := c.Get(ctx, "m")
	assert.False(t, ok)
}
