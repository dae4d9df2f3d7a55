package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func assertRevoked(t *testing.T, rdb *redis.Client, jti string, want bool) {
	t.Helper()
	revoked, err := IsTokenRevoked(context.Background(), rdb, jti)
	require.NoError(t, err)
	assert.Equal(t, want, revoked)
}

func TestInitRedis_Reachable(t *testing.T) {
	mr := miniredis.RunT(t)

	InitRedis(mr.Addr())
	t.Cleanup(func() { client = nil })

	require.NotNil(t, GetClient())
	assert.NoError(t, GetClient().Ping(context.Background()).Err())
}

func TestInitRedis_InvalidURL(t *testing.T) {
	InitRedis("redis://%zz")
	assert.Nil(t, GetClient())
}

func TestNewClient_ParsesURL(t *testing.T) {
	c, err := NewClient("redis://localhost:6390/2")
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, "localhost:6390", c.Options().Addr)
	assert.Equal(t, 2, c.Options().DB)
}

func TestRevokeToken(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	ctx := context.Background()

	assertRevoked(t, rdb, "abc", false)

	require.NoError(t, RevokeToken(ctx, rdb, "abc", time.Now().Add(time.Hour)))
	assertRevoked(t, rdb, "abc", true)
	assert.True(t, mr.Exists("blacklist:abc"))

	ttl := mr.TTL("blacklist:abc")
	assert.Greater(t, ttl, 59*time.Minute)

	mr.FastForward(2 * time.Hour)
	assertRevoked(t, rdb, "abc", false)
}

func TestRevokeToken_ExpiredOrNilIsNoop(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, RevokeToken(ctx, rdb, "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("blacklist:old"))

	assert.NoError(t, RevokeToken(ctx, nil, "x", time.Now().Add(time.Hour)))
	assertRevoked(t, nil, "x", false)
}

func TestIsTokenRevoked_RedisDown(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	mr.Close()

	revoked, err := IsTokenRevoked(context.Background(), rdb, "abc")
	assert.Error(t, err)
	assert.False(t, revoked)
}
