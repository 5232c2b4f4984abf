package usecase

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shoplens/backend/internal/domain"
)

// DefaultFuzzyThreshold is the reference fuzzy distance bound
const DefaultFuzzyThreshold = 0.4

// EngineConfig holds configuration for the query engine
type EngineConfig struct {
	FuzzyThreshold  float64 // 0 keeps only exact fuzzy matches; negative selects DefaultFuzzyThreshold
	DefaultPageSize int
	MaxPageSize     int
}

// Engine evaluates queries against a catalog snapshot. It holds only
// immutable configuration and is safe for concurrent use.
type Engine struct {
	matcher         domain.FuzzyMatcher
	fuzzyThreshold  float64
	defaultPageSize int
	maxPageSize     int
	logger          zerolog.Logger
}

// NewEngine creates a query engine. matcher may be nil to disable fuzzy candidates.
func NewEngine(matcher domain.FuzzyMatcher, config EngineConfig, logger zerolog.Logger) *Engine {
	threshold := config.FuzzyThreshold
	if threshold < 0 {
		threshold = DefaultFuzzyThreshold
	}

	pageSize := config.DefaultPageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	maxPageSize := config.MaxPageSize
	if maxPageSize < pageSize {
		maxPageSize = pageSize
	}

	return &Engine{
		matcher:         matcher,
		fuzzyThreshold:  threshold,
		defaultPageSize: pageSize,
		maxPageSize:     maxPageSize,
		logger:          logger.With().Str("component", "engine").Logger(),
	}
}

// Evaluate runs the whole pipeline for one query:
// lexical filter -> intent parse of the residual -> exact scoring + fuzzy
// candidates -> merge -> sort -> paginate.
func (e *Engine) Evaluate(
	catalog []domain.Product,
	query string,
	sortKey domain.SortKey,
	page, pageSize int,
) domain.SearchResult {
	lexical := ParseFilter(query)
	intent := ParseIntent(strings.Join(lexical.Terms, " "))
	filter := MatchFilter(lexical, intent)

	exact := MatchAndScore(catalog, filter)
	fuzzy := e.fuzzyCandidates(catalog, filter, intent)
	merged := MergeResults(exact, fuzzy)

	key := sortKey
	if key == domain.SortNone {
		key = directiveSortKey(intent.Filter.Sort)
	}
	ordered := SortResults(merged, key)

	if pageSize <= 0 {
		pageSize = e.defaultPageSize
	}
	if pageSize > e.maxPageSize {
		pageSize = e.maxPageSize
	}

	e.logger.Debug().
		Str("query", query).
		Str("sort", string(key)).
		Int("exact", len(exact)).
		Int("fuzzy", len(fuzzy)).
		Int("merged", len(ordered)).
		Msg("evaluated query")

	brands, categories, priceRange := facets(ordered)
	return domain.SearchResult{
		SearchPage: Paginate(ordered, page, pageSize),
		Parsed:     combineParse(filter, intent),
		Brands:     brands,
		Categories: categories,
		PriceRange: priceRange,
	}
}

// MatchFilter builds the filter the exact path runs. Phrases the intent parser
// consumed are dropped from the lexical terms, and the heuristic price bounds
// apply when the query has no price: predicate.
func MatchFilter(lexical domain.StructuredFilter, intent domain.ParsedQuery) domain.StructuredFilter {
	filter := domain.StructuredFilter{
		ID:    lexical.ID,
		Price: lexical.Price,
		Terms: stripIntentPhrases(lexical.Terms),
	}
	if filter.Price == nil {
		filter.Price = intent.Filter.Price
	}
	return filter
}

// fuzzyCandidates asks the matcher for near matches on the intent keywords
// (or the detected brand and category when no keywords remain). Candidates
// must still satisfy the id and price predicates of filter.
func (e *Engine) fuzzyCandidates(
	catalog []domain.Product,
	filter domain.StructuredFilter,
	intent domain.ParsedQuery,
) []domain.FuzzyCandidate {
	if e.matcher == nil {
		return nil
	}

	q := fuzzyQuery(intent)
	if q == "" {
		return nil
	}

	candidates := e.safeMatch(q, catalog)
	var kept []domain.FuzzyCandidate
	for _, c := range candidates {
		if passesHardFilters(c.Product, filter.ID, filter.Price) {
			kept = append(kept, c)
		}
	}
	return kept
}

// safeMatch shields the pipeline from a misbehaving matcher; a panic degrades to exact-only results
func (e *Engine) safeMatch(q string, catalog []domain.Product) (candidates []domain.FuzzyCandidate) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn().Interface("panic", r).Str("query", q).Msg("fuzzy matcher failed, using exact results only")
			candidates = nil
		}
	}()
	return e.matcher.Match(q, catalog, e.fuzzyThreshold)
}

func fuzzyQuery(intent domain.ParsedQuery) string {
	if len(intent.Keywords) > 0 {
		return strings.Join(intent.Keywords, " ")
	}
	return strings.TrimSpace(intent.Filter.Brand + " " + intent.Filter.Category)
}

// combineParse reports the filter the exact path ran together with the intent signals
func combineParse(filter domain.StructuredFilter, intent domain.ParsedQuery) domain.ParsedQuery {
	combined := intent
	combined.Filter.ID = filter.ID
	combined.Filter.Terms = filter.Terms
	if filter.Price != nil {
		combined.Filter.Price = filter.Price
	}
	return combined
}

// facets collects distinct brands and categories and the price span of a result list
func facets(products []domain.Product) ([]string, []string, *domain.PriceRange) {
	brandSet := make(map[string]bool)
	categorySet := make(map[string]bool)
	var priceRange *domain.PriceRange

	for _, p := range products {
		if p.Brand != "" {
			brandSet[p.Brand] = true
		}
		if p.Category != "" {
			categorySet[p.Category] = true
		}
		if !p.HasPrice() {
			continue
		}
		if priceRange == nil {
			priceRange = &domain.PriceRange{Min: *p.Price, Max: *p.Price}
			continue
		}
		priceRange.Min = min(priceRange.Min, *p.Price)
		priceRange.Max = max(priceRange.Max, *p.Price)
	}

	return sortedKeys(brandSet), sortedKeys(categorySet), priceRange
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
