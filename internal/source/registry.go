package source

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"chessview/internal/logging"
)

// Fetcher loads the recent games of a user from one platform.
type Fetcher interface {
	Fetch(ctx context.Context, username string) ([]GameRecord, error)
}

// Cache stores encoded fetch results.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Registry maps platform names to fetchers.
type Registry struct {
	fetchers map[string]Fetcher
}

func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[string]Fetcher)}
}

// Register adds or replaces the fetcher for platform.
func (r *Registry) Register(platform string, f Fetcher) {
	r.fetchers[platform] = f
}

// Platforms lists the registered platform names in order.
func (r *Registry) Platforms() []string {
	out := make([]string, 0, len(r.fetchers))
	for name := range r.fetchers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Fetch looks up username on platform.
func (r *Registry) Fetch(ctx context.Context, platform, username string) ([]GameRecord, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrEmptyUsername
	}
	f, ok := r.fetchers[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	return f.Fetch(ctx, username)
}

// Cached wraps a Fetcher with a result cache. Cache failures are logged
// and otherwise ignored; errors from the wrapped fetcher are not cached.
type Cached struct {
	Platform string
	Fetcher  Fetcher
	Cache    Cache
	TTL      time.Duration
}

func (c *Cached) key(username string) string {
	return c.Platform + ":" + strings.ToLower(strings.TrimSpace(username))
}

func (c *Cached) Fetch(ctx context.Context, username string) ([]GameRecord, error) {
	key := c.key(username)
	if raw, ok, err := c.Cache.Get(ctx, key); err != nil {
		logging.Warnf("cache get %s: %v", key, err)
	} else if ok {
		var recs []GameRecord
		if err := json.Unmarshal(raw, &recs); err == nil {
			logging.Debugf("cache hit %s", key)
			return recs, nil
		}
		logging.Warnf("cache entry %s is corrupt", key)
	}

	recs, err := c.Fetcher.Fetch(ctx, username)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(recs)
	if err == nil {
		err = c.Cache.Set(ctx, key, raw, c.TTL)
	}
	if err != nil {
		logging.Warnf("cache set %s: %v", key, err)
	}
	return recs, nil
}
