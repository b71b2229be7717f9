package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Title string   `json:"title"`
	Cards []string `json:"cards"`
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCache_MissThenHit(t *testing.T) {
	mr, client := newRedis(t)
	c := New(client, time.Minute, nil)
	ctx := context.Background()
	key := BoardKey("b1", "u1")

	var got snapshot
	assert.False(t, c.Get(ctx, key, &got))

	want := snapshot{Title: "Jobs", Cards: []string{"a", "b"}}
	c.Set(ctx, key, want)

	ttl := mr.TTL(key)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected TTL %v", ttl)

	require.True(t, c.Get(ctx, key, &got))
	assert.Equal(t, want, got)
}

func TestCache_ZeroTTLDisablesWrites(t *testing.T) {
	mr, client := newRedis(t)
	c := New(client, 0, nil)

	c.Set(context.Background(), "board:b1", snapshot{Title: "x"})
	assert.False(t, mr.Exists("board:b1"))
}

func TestCache_CorruptEntryIsDropped(t *testing.T) {
	mr, client := newRedis(t)
	c := New(client, time.Minute, nil)
	require.NoError(t, mr.Set("board:b1", "{not json"))

	var got snapshot
	assert.False(t, c.Get(context.Background(), "board:b1", &got))
	assert.False(t, mr.Exists("board:b1"))
}

func TestCache_InvalidatePattern(t *testing.T) {
	mr, client := newRedis(t)
	c := New(client, time.Minute, nil)
	ctx := context.Background()

	c.Set(ctx, BoardKey("b1"), snapshot{})
	c.Set(ctx, BoardKey("b1", "u1"), snapshot{})
	c.Set(ctx, BoardKey("b1", "u2"), snapshot{})
	c.Set(ctx, BoardKey("b2", "u1"), snapshot{})
	c.Set(ctx, UserKey("u1", "boards"), snapshot{})

	c.InvalidatePattern(ctx, BoardPattern("b1"))

	assert.False(t, mr.Exists(BoardKey("b1")))
	assert.False(t, mr.Exists(BoardKey("b1", "u1")))
	assert.False(t, mr.Exists(BoardKey("b1", "u2")))
	assert.True(t, mr.Exists(BoardKey("b2", "u1")))
	assert.True(t, mr.Exists(UserKey("u1", "boards")))
}

func TestCache_RedisDownIsAMiss(t *testing.T) {
	mr, client := newRedis(t)
	c := New(client, time.Minute, nil)
	mr.Close()

	var got snapshot
	assert.False(t, c.Get(context.Background(), "board:b1", &got))
	c.Set(context.Background(), "board:b1", snapshot{})
}

func TestCache_NilClient(t *testing.T) {
	c := New(nil, time.Minute, nil)
	var got snapshot
	assert.False(t, c.Get(context.Background(), "k", &got))
	c.Set(context.Background(), "k", got)
	c.Delete(context.Background(), "k")
	c.InvalidatePattern(context.Background(), "k*")
}

func TestPublisher_Publish(t *testing.T) {
	_, client := newRedis(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "board-events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	p := NewPublisher(client)
	require.NoError(t, p.Publish(ctx, "board-events", snapshot{Title: "moved"}))

	select {
	case msg := <-sub.Channel():
		var got snapshot
		require.NoError(t, sonic.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "moved", got.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a published event")
	}
}
