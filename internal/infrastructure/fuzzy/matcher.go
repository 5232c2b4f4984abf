// Package fuzzy provides approximate text matchers that surface catalog
// products whose name or description is close to a query.
package fuzzy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shoplens/backend/internal/domain"
)

// Supported matcher algorithms
const (
	AlgorithmJaroWinkler = "jarowinkler"
	AlgorithmSubsequence = "subsequence"
	AlgorithmNone        = "none"
)

// tokenSplitPattern splits on anything that is not a letter or digit
var tokenSplitPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// New returns the matcher for algorithm. AlgorithmNone yields a nil matcher,
// which disables fuzzy candidates.
func New(algorithm string) (domain.FuzzyMatcher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case AlgorithmJaroWinkler, "":
		return NewJaroWinkler(), nil
	case AlgorithmSubsequence:
		return NewSubsequence(), nil
	case AlgorithmNone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown fuzzy algorithm %q", algorithm)
}

// tokenize lowercases s and splits it into letter/digit runs
func tokenize(s string) []string {
	parts := tokenSplitPattern.Split(strings.ToLower(s), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// searchText is the text a product is matched against
func searchText(p domain.Product) string {
	if p.Description == "" {
		return p.Name
	}
	return p.Name + " " + p.Description
}

// keep reports whether similarity is within the distance threshold
func keep(similarity, threshold float64) bool {
	return 1-similarity <= threshold
}

// rankCandidates orders by similarity descending; equal similarities keep catalog order
func rankCandidates(candidates []domain.FuzzyCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
}
