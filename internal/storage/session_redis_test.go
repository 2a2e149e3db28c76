package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/config"
)

// newRedisTestStore 连接真实Redis，环境未提供时跳过测试
func newRedisTestStore(t *testing.T) *RedisSessionStore {
	t.Helper()

	address := os.Getenv("REDIS_ADDRESS")
	if address == "" {
		t.Skip("未设置 REDIS_ADDRESS，跳过Redis集成测试")
	}

	client, err := NewRedisClient(context.Background(), &config.RedisConfig{Address: address})
	require.NoError(t, err)

	store := NewRedisSessionStore(client, time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_CreateAndGet(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()

	id := fmt.Sprintf("redis-test-%d", time.Now().UnixNano())
	require.NoError(t, store.Create(ctx, newTestSession(id)))

	session, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, session.ID)
	require.Len(t, session.Results, 2)
	assert.Equal(t, "Alice", session.Results[0].Name)

	_, err = store.Get(ctx, "redis-test-missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Shortlist(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()

	id := fmt.Sprintf("redis-test-%d", time.Now().UnixNano())
	require.NoError(t, store.Create(ctx, newTestSession(id)))

	require.NoError(t, store.AddToShortlist(ctx, id, "Alice"))
	require.NoError(t, store.AddToShortlist(ctx, id, "Alice")) // 幂等
	require.NoError(t, store.AddToShortlist(ctx, id, "Bob"))
	require.NoError(t, store.RemoveFromShortlist(ctx, id, "Alice"))

	session, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, session.Shortlist)

	assert.ErrorIs(t, store.AddToShortlist(ctx, "redis-test-missing", "X"), ErrSessionNotFound)
}
