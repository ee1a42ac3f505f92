// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package imageprobe

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/rankeverything/internal/platform/constants"
	"github.com/taibuivan/rankeverything/internal/platform/ctxutil"
)

// CacheTTL bounds ttl to constants.MaxProbeCacheTTL. Non-positive values also
// get the maximum.
func CacheTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > constants.MaxProbeCacheTTL {
		return constants.MaxProbeCacheTTL
	}
	return ttl
}

// Cache remembers URLs that recently probed as images.
type Cache interface {
	Seen(ctx context.Context, rawURL string) (bool, error)
	Remember(ctx context.Context, rawURL string) error
}

// CachingProber short-circuits probes of URLs the cache has seen succeed within
// the last [CacheTTL]. Failures are never cached, so a fixed remote resource is
// accepted on retry.
type CachingProber struct {
	next  Prober
	cache Cache
}

// NewCachingProber wraps next with cache.
func NewCachingProber(next Prober, cache Cache) *CachingProber {
	return &CachingProber{next: next, cache: cache}
}

// Probe consults the cache first and records successful probes. Cache errors
// are logged and otherwise ignored.
func (prober *CachingProber) Probe(ctx context.Context, rawURL string) error {
	logger := ctxutil.GetLogger(ctx)

	seen, err := prober.cache.Seen(ctx, rawURL)
	if err != nil {
		logger.WarnContext(ctx, "image_probe_cache_unavailable", slog.Any("error", err))
	}
	if seen {
		return nil
	}

	if err := prober.next.Probe(ctx, rawURL); err != nil {
		return err
	}

	if err := prober.cache.Remember(ctx, rawURL); err != nil {
		logger.WarnContext(ctx, "image_probe_cache_unavailable", slog.Any("error", err))
	}

	return nil
}
