package domain

import "errors"

var (
	// ErrProductNotFound is returned when no catalog record has the requested ID
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCatalogUnavailable is returned when no catalog snapshot has been loaded yet
	ErrCatalogUnavailable = errors.New("catalog not loaded")

	// ErrCatalogSourceFailure is returned when a catalog provider cannot be read
	ErrCatalogSourceFailure = errors.New("catalog source request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
