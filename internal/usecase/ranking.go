package usecase

import (
	"sort"

	"github.com/shoplens/backend/internal/domain"
)

// DefaultPageSize is used when the caller passes a non-positive page size
const DefaultPageSize = 20

// MergeResults concatenates exact matches ahead of fuzzy candidates and drops
// any product whose ID was already emitted. Each source keeps its own order.
func MergeResults(exact []domain.ScoredProduct, fuzzy []domain.FuzzyCandidate) []domain.Product {
	merged := make([]domain.Product, 0, len(exact)+len(fuzzy))
	seen := make(map[string]bool, len(exact)+len(fuzzy))

	for _, s := range exact {
		if seen[s.Product.ID] {
			continue
		}
		seen[s.Product.ID] = true
		merged = append(merged, s.Product)
	}
	for _, c := range fuzzy {
		if seen[c.Product.ID] {
			continue
		}
		seen[c.Product.ID] = true
		merged = append(merged, c.Product)
	}

	return merged
}

// SortResults reorders a copy of products by an explicit key. The sort is
// stable and single-key: ties keep their incoming order. An empty or unknown
// key leaves the order untouched.
func SortResults(products []domain.Product, key domain.SortKey) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)

	var less func(a, b domain.Product) bool
	switch key {
	case domain.SortName:
		less = func(a, b domain.Product) bool { return compareNames(a.Name, b.Name) < 0 }
	case domain.SortID:
		less = func(a, b domain.Product) bool { return a.ID < b.ID }
	case domain.SortPriceAsc:
		less = func(a, b domain.Product) bool { return priceLess(a, b, false) }
	case domain.SortPriceDesc:
		less = func(a, b domain.Product) bool { return priceLess(a, b, true) }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// priceLess compares by price in either direction; priceless products always sort last
func priceLess(a, b domain.Product, desc bool) bool {
	aPriced, bPriced := a.HasPrice(), b.HasPrice()
	if !aPriced || !bPriced {
		return aPriced && !bPriced
	}
	if desc {
		return *a.Price > *b.Price
	}
	return *a.Price < *b.Price
}

// directiveSortKey maps a heuristic sort intent onto an explicit key.
// Intents the catalog has no field for (rating, newest, relevance) map to none.
func directiveSortKey(d domain.SortDirective) domain.SortKey {
	switch d {
	case domain.DirectivePriceLow:
		return domain.SortPriceAsc
	case domain.DirectivePriceHigh:
		return domain.SortPriceDesc
	}
	return domain.SortNone
}

// Paginate returns the 1-based page of products. HasMore is true only when at
// least one item exists beyond this page.
func Paginate(products []domain.Product, page, pageSize int) domain.SearchPage {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(products)
	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := start + min(pageSize, total-start)

	items := make([]domain.Product, end-start)
	copy(items, products[start:end])

	return domain.SearchPage{
		Items:        items,
		TotalResults: total,
		CurrentPage:  page,
		PageSize:     pageSize,
		HasMore:      end < total,
	}
}
