package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chessview/internal/source"
)

var _ source.Cache = (*Redis)(nil)

func newRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r, err := Open(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func TestRedisRoundTrip(t *testing.T) {
	r, mr := newRedis(t)
	ctx := context.Background()

	_, ok, err := r.Get(ctx, "lichess:bob")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "lichess:bob", []byte(`[]`), time.Minute))
	got, ok, err := r.Get(ctx, "lichess:bob")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), got)

	assert.True(t, mr.Exists(KeyPrefix+"lichess:bob"))
	assert.Equal(t, time.Minute, mr.TTL(KeyPrefix+"lichess:bob"))

	mr.FastForward(2 * time.Minute)
	_, ok, err = r.Get(ctx, "lichess:bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenFailsWithoutServer(t *testing.T) {
	_, err := Open(context.Background(), "redis://127.0.0.1:1")
	assert.Error(t, err)

	_, err = Open(context.Background(), "not a url")
	assert.Error(t, err)
}
