package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shoplens/backend/internal/domain"
)

// Compiled regex patterns for the strict filter grammar.
// A price number is an optional "$", digits, and up to two decimals.
var (
	// Matches "id:ABC-123", only at the start of the query or after whitespace
	idFilterPattern = regexp.MustCompile(`(?i)(?:^|\s)id:\s*([A-Za-z0-9-]+)`)

	// Matches "price:<=60", "price:$40", "price:40-120"
	priceFilterPattern = regexp.MustCompile(`(?i)price:\s*(<=|>=|<|>|=)?\s*\$?(\d+(?:\.\d{1,2})?)\s*(?:-\s*\$?(\d+(?:\.\d{1,2})?))?`)

	// Matches a bare range like "40-120" or "$40 - $120"
	bareRangePattern = regexp.MustCompile(`\$?\s*(\d+(?:\.\d{1,2})?)\s*-\s*\$?\s*(\d+(?:\.\d{1,2})?)`)

	// Matches a bare comparator like ">=500" or "< $20"
	bareComparatorPattern = regexp.MustCompile(`(<=|>=|<|>|=)\s*\$?\s*(\d+(?:\.\d{1,2})?)`)
)

// ParseFilter parses the strict mini-grammar out of a raw query.
// Each category accepts only its first match; whatever is not consumed by a
// matched expression becomes lowercased keyword terms.
func ParseFilter(query string) domain.StructuredFilter {
	filter := domain.StructuredFilter{Terms: []string{}}
	rest := strings.TrimSpace(query)
	if rest == "" {
		return filter
	}

	// Step 1: id filter. Cut before price scanning so id digits never read as a price.
	if m := idFilterPattern.FindStringSubmatchIndex(rest); m != nil {
		filter.ID = rest[m[2]:m[3]]
		rest = cutMatch(rest, m)
	}

	// Step 2: price:<op>?<num>(-<num>)?
	if m := priceFilterPattern.FindStringSubmatchIndex(rest); m != nil {
		if pred, ok := priceDirectPredicate(rest, m); ok {
			filter.Price = pred
			rest = cutMatch(rest, m)
		}
	}

	// Step 3: bare range, only when no price: form matched
	if filter.Price == nil {
		if m := bareRangePattern.FindStringSubmatchIndex(rest); m != nil {
			lo, okLo := parsePriceNumber(rest[m[2]:m[3]])
			hi, okHi := parsePriceNumber(rest[m[4]:m[5]])
			if okLo && okHi {
				filter.Price = domain.NewRangePredicate(lo, hi)
				rest = cutMatch(rest, m)
			}
		}
	}

	// Step 4: bare comparator, only when neither prior form matched
	if filter.Price == nil {
		if m := bareComparatorPattern.FindStringSubmatchIndex(rest); m != nil {
			if v, ok := parsePriceNumber(rest[m[4]:m[5]]); ok {
				filter.Price = &domain.PricePredicate{Op: domain.PriceOp(rest[m[2]:m[3]]), Value: v}
				rest = cutMatch(rest, m)
			}
		}
	}

	// Step 5: whatever is left becomes keyword terms
	filter.Terms = splitTerms(rest)
	return filter
}

// priceDirectPredicate builds a predicate from a priceFilterPattern submatch index
func priceDirectPredicate(s string, m []int) (*domain.PricePredicate, bool) {
	first, ok := parsePriceNumber(s[m[4]:m[5]])
	if !ok {
		return nil, false
	}

	if m[6] >= 0 {
		second, ok := parsePriceNumber(s[m[6]:m[7]])
		if !ok {
			return nil, false
		}
		return domain.NewRangePredicate(first, second), true
	}

	op := domain.PriceEq
	if m[2] >= 0 {
		op = domain.PriceOp(s[m[2]:m[3]])
	}
	return &domain.PricePredicate{Op: op, Value: first}, true
}

// parsePriceNumber parses "12", "12.5" or "$12.50"
func parsePriceNumber(s string) (float64, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// cutMatch replaces the whole match described by m with a single space
func cutMatch(s string, m []int) string {
	return s[:m[0]] + " " + s[m[1]:]
}

// splitTerms normalizes whitespace, lowercases and splits the residual text
func splitTerms(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	if fields == nil {
		return []string{}
	}
	return fields
}
