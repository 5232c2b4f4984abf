package usecase

import (
	"sort"
	"strings"

	"github.com/shoplens/backend/internal/domain"
)

// Scoring weights for exact matches
const (
	idExactBonus     = 1000 // product ID equals the id: filter
	idSubstringBonus = 500  // product ID contains the id: filter
	nameTermWeight   = 5    // keyword term found in the name
	descTermWeight   = 3    // keyword term found in the description
)

// MatchAndScore applies filter as hard exclusions plus additive term scoring
// and returns the surviving products in default order. Products missing an ID
// or name are skipped.
func MatchAndScore(catalog []domain.Product, filter domain.StructuredFilter) []domain.ScoredProduct {
	scored := make([]domain.ScoredProduct, 0, len(catalog))

	for _, product := range catalog {
		if !product.IsValid() {
			continue
		}
		score, ok := scoreProduct(product, filter)
		if !ok {
			continue
		}
		scored = append(scored, domain.ScoredProduct{Product: product, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return defaultLess(scored[i], scored[j])
	})
	return scored
}

// scoreProduct returns the product's score, or false when any active predicate excludes it
func scoreProduct(product domain.Product, filter domain.StructuredFilter) (int, bool) {
	score := 0

	// Step 1: id filter
	if filter.ID != "" {
		switch {
		case product.ID == filter.ID:
			score += idExactBonus
		case strings.Contains(product.ID, filter.ID):
			score += idSubstringBonus
		default:
			return 0, false
		}
	}

	// Step 2: price predicate; a product with no price never satisfies it
	if !passesPrice(product, filter.Price) {
		return 0, false
	}

	// Step 3: every term must hit name or description; hits in both count twice
	if len(filter.Terms) > 0 {
		name := strings.ToLower(product.Name)
		desc := strings.ToLower(product.Description)
		for _, term := range filter.Terms {
			inName := strings.Contains(name, term)
			inDesc := strings.Contains(desc, term)
			if !inName && !inDesc {
				return 0, false
			}
			if inName {
				score += nameTermWeight
			}
			if inDesc {
				score += descTermWeight
			}
		}
	}

	return score, true
}

// passesHardFilters checks the id and price predicates without scoring terms.
// Used for fuzzy candidates, which are not required to contain the terms.
func passesHardFilters(product domain.Product, id string, price *domain.PricePredicate) bool {
	if !product.IsValid() {
		return false
	}
	if id != "" && !strings.Contains(product.ID, id) {
		return false
	}
	return passesPrice(product, price)
}

func passesPrice(product domain.Product, price *domain.PricePredicate) bool {
	if price == nil {
		return true
	}
	if !product.HasPrice() {
		return false
	}
	return price.Matches(*product.Price)
}

// defaultLess orders by score desc, then price asc with priceless products
// last, then name. ID is the final tie-break so the order is total.
func defaultLess(a, b domain.ScoredProduct) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}

	aPriced, bPriced := a.Product.HasPrice(), b.Product.HasPrice()
	switch {
	case aPriced && bPriced:
		if *a.Product.Price != *b.Product.Price {
			return *a.Product.Price < *b.Product.Price
		}
	case aPriced:
		return true
	case bPriced:
		return false
	}

	if c := compareNames(a.Product.Name, b.Product.Name); c != 0 {
		return c < 0
	}
	return a.Product.ID < b.Product.ID
}

// compareNames compares case-folded first, then raw, so equal-ignoring-case names still order
func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
