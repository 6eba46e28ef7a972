package source

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls int
	recs  []GameRecord
	err   error
}

func (f *countingFetcher) Fetch(ctx context.Context, username string) ([]GameRecord, error) {
	f.calls++
	return f.recs, f.err
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  time.Duration
	fail bool
}

func (m *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, false, errors.New("down")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("down")
	}
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = val
	m.ttl = ttl
	return nil
}

func TestRegistryFetch(t *testing.T) {
	r := NewRegistry()
	r.Register(PlatformSample, SampleFetcher{Label: "Demo"})
	r.Register(PlatformLichess, &countingFetcher{})
	assert.Equal(t, []string{PlatformLichess, PlatformSample}, r.Platforms())

	recs, err := r.Fetch(context.Background(), PlatformSample, "carlsen")
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	_, err = r.Fetch(context.Background(), "fics", "carlsen")
	assert.ErrorIs(t, err, ErrUnknownPlatform)

	_, err = r.Fetch(context.Background(), PlatformSample, " ")
	assert.ErrorIs(t, err, ErrEmptyUsername)
}

func TestCachedServesSecondCallFromCache(t *testing.T) {
	inner := &countingFetcher{recs: Samples("carlsen", "Demo")}
	cache := &memCache{}
	c := &Cached{Platform: PlatformChessCom, Fetcher: inner, Cache: cache, TTL: time.Minute}

	first, err := c.Fetch(context.Background(), "Carlsen")
	require.NoError(t, err)
	second, err := c.Fetch(context.Background(), "carlsen ")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Minute, cache.ttl)
	assert.Contains(t, cache.data, "chesscom:carlsen")
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	inner := &countingFetcher{err: ErrUserNotFound}
	cache := &memCache{}
	c := &Cached{Platform: PlatformLichess, Fetcher: inner, Cache: cache}

	_, err := c.Fetch(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = c.Fetch(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 2, inner.calls)
	assert.Empty(t, cache.data)
}

func TestCachedBypassesBrokenCache(t *testing.T) {
	inner := &countingFetcher{recs: Samples("x", "Demo")}
	c := &Cached{Platform: PlatformLichess, Fetcher: inner, Cache: &memCache{fail: true}}

	recs, err := c.Fetch(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}
