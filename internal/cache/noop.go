package cache

import (
	"context"
	"time"
)

// NoopCache satisfies Cache when no Redis URL is configured. Every lookup
// misses, every write succeeds, and rate-limit counters always report 1.
// Selected once at startup; callers never branch on cache availability.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (NoopCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

func (NoopCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopCache) Delete(_ context.Context, _ string) error { return nil }

func (NoopCache) Ping(_ context.Context) error { return nil }

func (NoopCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

var _ Cache = NoopCache{}
