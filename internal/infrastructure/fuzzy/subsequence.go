package fuzzy

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/shoplens/backend/internal/domain"
)

// Subsequence matches the query as an in-order subsequence of the product
// text. Similarity is the compactness of the match: query length over the
// span of matched characters.
type Subsequence struct{}

// NewSubsequence creates a subsequence matcher
func NewSubsequence() *Subsequence {
	return &Subsequence{}
}

// Match returns products containing the query as a subsequence, tightest matches first
func (m *Subsequence) Match(query string, catalog []domain.Product, threshold float64) []domain.FuzzyCandidate {
	pattern := strings.Join(tokenize(query), " ")
	if pattern == "" || len(catalog) == 0 {
		return []domain.FuzzyCandidate{}
	}

	data := make([]string, len(catalog))
	for i, product := range catalog {
		data[i] = strings.ToLower(searchText(product))
	}

	matches := fuzzy.Find(pattern, data)

	candidates := make([]domain.FuzzyCandidate, 0, len(matches))
	for _, match := range matches {
		similarity := compactness(len(pattern), match.MatchedIndexes)
		if keep(similarity, threshold) {
			candidates = append(candidates, domain.FuzzyCandidate{
				Product:    catalog[match.Index],
				Similarity: similarity,
			})
		}
	}

	rankCandidates(candidates)
	return candidates
}

// compactness is 1 when the matched characters are contiguous and falls as they spread out
func compactness(patternLen int, matched []int) float64 {
	if len(matched) == 0 || patternLen == 0 {
		return 0
	}

	span := matched[len(matched)-1] - matched[0] + 1
	if span <= patternLen {
		return 1
	}
	return float64(patternLen) / float64(span)
}
