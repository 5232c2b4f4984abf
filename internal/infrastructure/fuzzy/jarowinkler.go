package fuzzy

import (
	"github.com/xrash/smetrics"

	"github.com/shoplens/backend/internal/domain"
)

// Jaro-Winkler parameters: prefix boost applies above boostThreshold for up to prefixSize runes
const (
	boostThreshold = 0.7
	prefixSize     = 4
)

// JaroWinkler scores each query token against its closest product token and
// averages the results, so typos and partial words still match.
type JaroWinkler struct{}

// NewJaroWinkler creates a token-level Jaro-Winkler matcher
func NewJaroWinkler() *JaroWinkler {
	return &JaroWinkler{}
}

// Match returns products whose averaged similarity clears the threshold
func (m *JaroWinkler) Match(query string, catalog []domain.Product, threshold float64) []domain.FuzzyCandidate {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return []domain.FuzzyCandidate{}
	}

	candidates := make([]domain.FuzzyCandidate, 0)
	for _, product := range catalog {
		productTokens := tokenize(searchText(product))
		if len(productTokens) == 0 {
			continue
		}

		similarity := tokenSimilarity(queryTokens, productTokens)
		if keep(similarity, threshold) {
			candidates = append(candidates, domain.FuzzyCandidate{Product: product, Similarity: similarity})
		}
	}

	rankCandidates(candidates)
	return candidates
}

// tokenSimilarity averages, over query tokens, the best Jaro-Winkler score against any product token
func tokenSimilarity(queryTokens, productTokens []string) float64 {
	total := 0.0
	for _, q := range queryTokens {
		best := 0.0
		for _, p := range productTokens {
			if s := smetrics.JaroWinkler(q, p, boostThreshold, prefixSize); s > best {
				best = s
				if best == 1 {
					break
				}
			}
		}
		total += best
	}
	return total / float64(len(queryTokens))
}
