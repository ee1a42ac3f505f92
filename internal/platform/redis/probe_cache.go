// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/rankeverything/internal/platform/constants"
	"github.com/taibuivan/rankeverything/internal/platform/imageprobe"
)

// ProbeCache remembers image URLs that passed the image probe.
// It satisfies imageprobe.Cache.
type ProbeCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewProbeCache builds a [ProbeCache] whose entries expire after ttl, capped
// by [imageprobe.CacheTTL].
func NewProbeCache(client redis.UniversalClient, ttl time.Duration) *ProbeCache {
	return &ProbeCache{client: client, ttl: imageprobe.CacheTTL(ttl)}
}

// Seen reports whether rawURL probed successfully within the TTL.
func (cache *ProbeCache) Seen(context stdctx.Context, rawURL string) (bool, error) {
	count, err := cache.client.Exists(context, ProbeKey(rawURL)).Result()
	if err != nil {
		return false, fmt.Errorf("redis: probe lookup: %w", err)
	}
	return count > 0, nil
}

// Remember records a successful probe of rawURL.
func (cache *ProbeCache) Remember(context stdctx.Context, rawURL string) error {
	if err := cache.client.Set(context, ProbeKey(rawURL), 1, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis: probe store: %w", err)
	}
	return nil
}

// ProbeKey hashes rawURL so arbitrarily long URLs map to fixed-size keys.
func ProbeKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return constants.RedisPrefixImageProbe + hex.EncodeToString(sum[:])
}
