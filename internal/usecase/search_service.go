package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoplens/backend/internal/domain"
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL time.Duration
}

// SearchService answers catalog searches against the current snapshot,
// caching rendered results per catalog version.
type SearchService struct {
	catalog  domain.CatalogReader
	cache    domain.CacheRepository
	engine   *Engine
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// QueryAnalysis explains how a query string is interpreted
type QueryAnalysis struct {
	Query     string                  `json:"query"`
	Lexical   domain.StructuredFilter `json:"lexical"`
	Intent    domain.ParsedQuery      `json:"intent"`
	Match     domain.StructuredFilter `json:"match"`
	Formatted string                  `json:"formatted"`
}

// NewSearchService creates a new search service. cache may be nil.
func NewSearchService(
	catalog domain.CatalogReader,
	cache domain.CacheRepository,
	engine *Engine,
	config SearchServiceConfig,
	logger zerolog.Logger,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	return &SearchService{
		catalog:  catalog,
		cache:    cache,
		engine:   engine,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "search").Logger(),
	}
}

// Search evaluates a request against the current catalog snapshot.
// Flow: snapshot -> check cache -> evaluate -> cache -> return
func (s *SearchService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if !request.Sort.Valid() {
		return nil, fmt.Errorf("%w: unsupported sort key %q", domain.ErrInvalidRequest, request.Sort)
	}
	if request.Page < 0 || request.PageSize < 0 {
		return nil, fmt.Errorf("%w: page and pageSize must not be negative", domain.ErrInvalidRequest)
	}

	products, version, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}

	cacheKey := generateCacheKey(version, request)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	result := s.engine.Evaluate(products, request.Query, request.Sort, request.Page, request.PageSize)

	if err := s.setInCache(ctx, cacheKey, &result); err != nil {
		s.logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache search result")
	}

	return &result, nil
}

// GetProduct returns the first catalog record with the given ID
func (s *SearchService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidRequest
	}

	products, _, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// Analyze reports the lexical and intent parses of a query without touching the catalog
func (s *SearchService) Analyze(query string) QueryAnalysis {
	return AnalyzeQuery(query)
}

// AnalyzeQuery parses query the way Evaluate does: lexically, then the
// lexical residual for intent. Match is the filter the exact path would run.
func AnalyzeQuery(query string) QueryAnalysis {
	filter := ParseFilter(query)
	intent := ParseIntent(strings.Join(filter.Terms, " "))
	return QueryAnalysis{
		Query:     query,
		Lexical:   filter,
		Intent:    intent,
		Match:     MatchFilter(filter, intent),
		Formatted: FormatQuery(intent),
	}
}

// Brands lists the distinct brands present in the catalog
func (s *SearchService) Brands(ctx context.Context) ([]string, error) {
	return s.distinct(func(p domain.Product) string { return p.Brand })
}

// Categories lists the distinct categories present in the catalog
func (s *SearchService) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(func(p domain.Product) string { return p.Category })
}

func (s *SearchService) distinct(field func(domain.Product) string) ([]string, error) {
	products, _, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	for _, p := range products {
		if v := field(p); v != "" {
			set[v] = true
		}
	}

	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// generateCacheKey creates a cache key from the catalog version and request.
// Format: "search:{version}:{normalized_query}:{sort}:{page}:{pageSize}"
func generateCacheKey(version uint64, request *domain.SearchRequest) string {
	return fmt.Sprintf("search:%d:%s:%s:%d:%d",
		version, normalizeForCacheKey(request.Query), request.Sort, request.Page, request.PageSize)
}

// normalizeForCacheKey collapses whitespace. Case and punctuation are kept
// because id: matching is case-sensitive and comparators are significant.
func normalizeForCacheKey(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// getFromCache retrieves a search result from cache
func (s *SearchService) getFromCache(ctx context.Context, key string) (*domain.SearchResult, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	return &result, nil
}

// setInCache stores a search result in cache
func (s *SearchService) setInCache(ctx context.Context, key string, result *domain.SearchResult) error {
	if s.cache == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
