package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching serialized search results
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogProvider supplies product records. No ordering or ID uniqueness is guaranteed.
type CatalogProvider interface {
	Name() string
	Load(ctx context.Context) ([]Product, error)
}

// CatalogReader exposes the current immutable catalog snapshot
type CatalogReader interface {
	Snapshot() ([]Product, uint64, error)
}

// FuzzyMatcher ranks catalog products by approximate similarity to query.
// Implementations must be deterministic, return at most len(catalog) candidates,
// and return an empty slice for an empty query. threshold is a distance bound:
// a candidate is kept when 1-similarity <= threshold.
type FuzzyMatcher interface {
	Match(query string, catalog []Product, threshold float64) []FuzzyCandidate
}
