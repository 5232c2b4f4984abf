package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shoplens/backend/internal/domain"
)

// Confidence increments per detected signal
const (
	baseConfidence     = 1.0
	priceConfidence    = 0.2
	brandConfidence    = 0.3
	categoryConfidence = 0.3
	sortConfidence     = 0.1
	maxConfidence      = 1.0

	maxKeywords = 5
)

type priceBound int

const (
	boundMax priceBound = iota
	boundMin
	boundRange
)

// priceRule maps a natural price phrase to the bound it sets
type priceRule struct {
	pattern *regexp.Regexp
	bound   priceBound
}

// tokenRule matches one brand or category token
type tokenRule struct {
	pattern *regexp.Regexp
}

// sortRule maps a phrase to a sort directive
type sortRule struct {
	pattern   *regexp.Regexp
	directive domain.SortDirective
}

const pricePhraseNumber = `\$?(\d+(?:\.\d{1,2})?)`

// priceRules is scanned top to bottom; the first match wins
var priceRules = []priceRule{
	{regexp.MustCompile(`\bunder\s+` + pricePhraseNumber), boundMax},
	{regexp.MustCompile(`\bless\s+than\s+` + pricePhraseNumber), boundMax},
	{regexp.MustCompile(`\bbelow\s+` + pricePhraseNumber), boundMax},
	{regexp.MustCompile(pricePhraseNumber + `\s+or\s+less\b`), boundMax},
	{regexp.MustCompile(pricePhraseNumber + `\s+and\s+under\b`), boundMax},
	{regexp.MustCompile(`\bover\s+` + pricePhraseNumber), boundMin},
	{regexp.MustCompile(`\bmore\s+than\s+` + pricePhraseNumber), boundMin},
	{regexp.MustCompile(`\babove\s+` + pricePhraseNumber), boundMin},
	{regexp.MustCompile(pricePhraseNumber + `\s+or\s+more\b`), boundMin},
	{regexp.MustCompile(pricePhraseNumber + `\s+and\s+up\b`), boundMin},
	{regexp.MustCompile(`\bbetween\s+` + pricePhraseNumber + `\s+and\s+` + pricePhraseNumber), boundRange},
	{regexp.MustCompile(pricePhraseNumber + `\s*-\s*` + pricePhraseNumber), boundRange},
	{regexp.MustCompile(pricePhraseNumber + `\s+to\s+` + pricePhraseNumber), boundRange},
}

// brandRules and categoryRules are ordered; the matched text becomes the filter value
var brandRules = compileTokenRules([]string{
	`sony`, `samsung`, `apple`, `microsoft`, `google`, `nike`, `adidas`,
	`puma`, `under\s+armour`, `dell`, `hp`, `lenovo`, `asus`, `lg`,
	`panasonic`, `sharp`, `toshiba`, `canon`, `nikon`, `fujifilm`,
	`dyson`, `whirlpool`, `ge`, `maytag`, `kitchenaid`,
	`lego`, `hasbro`, `mattel`, `barbie`, `hot\s+wheels`, `nerf`,
})

var categoryRules = compileTokenRules([]string{
	`electronics`, `tv`, `television`, `phone`, `smartphone`, `laptop`,
	`computer`, `tablet`, `camera`, `headphones`, `speakers`, `audio`,
	`gaming`, `games`, `video\s+games`, `consoles?`, `playstation`,
	`xbox`, `nintendo`, `clothing`, `shoes`, `apparel`, `fashion`,
	`home`, `furniture`, `kitchen`, `appliances`, `gardening`, `tools`,
	`sports`, `fitness`, `outdoor`, `toys`, `books`, `beauty`, `health`,
	`food`, `groceries`, `pet`, `automotive`, `office`, `school`,
})

var sortRules = []sortRule{
	{regexp.MustCompile(`\b(?:cheapest|lowest\s+price)\b|\bunder\s+\$`), domain.DirectivePriceLow},
	{regexp.MustCompile(`\b(?:most\s+expensive|highest\s+price)\b|\bover\s+\$`), domain.DirectivePriceHigh},
	{regexp.MustCompile(`\b(?:best|top|highest)\s+rated\b`), domain.DirectiveRating},
	{regexp.MustCompile(`\b(?:newest|latest|recent)\b`), domain.DirectiveNewest},
	{regexp.MustCompile(`\b(?:popular|trending|hot)\b`), domain.DirectiveRelevance},
}

// fillerPattern strips conversational filler from the residual phrase
var fillerPattern = regexp.MustCompile(`\b(?:for|in|with|looking|want|need)\b`)

// keywordStopWords never become keywords
var keywordStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "up": true, "about": true,
	"into": true, "through": true, "during": true, "before": true, "after": true,
	"above": true, "below": true, "between": true, "among": true,
	"i": true, "want": true, "need": true, "looking": true, "search": true,
	"find": true, "show": true, "get": true, "buy": true, "cheap": true,
	"best": true, "good": true, "great": true, "nice": true, "new": true,
	"used": true, "like": true,
}

func compileTokenRules(sources []string) []tokenRule {
	rules := make([]tokenRule, 0, len(sources))
	for _, src := range sources {
		rules = append(rules, tokenRule{pattern: regexp.MustCompile(`\b(?:` + src + `)\b`)})
	}
	return rules
}

// ParseIntent infers price bounds, brand, category and sort intent from free
// text. Confidence is incremented per signal and then clamped to 1.0, so it
// never exceeds its base value.
func ParseIntent(query string) domain.ParsedQuery {
	normalized := strings.ToLower(strings.TrimSpace(query))
	parsed := domain.ParsedQuery{
		Filter:     domain.StructuredFilter{Terms: []string{}},
		Confidence: baseConfidence,
	}
	if normalized == "" {
		return parsed
	}

	confidence := baseConfidence

	if minPrice, maxPrice, ok := extractPriceBounds(normalized); ok {
		parsed.MinPrice = minPrice
		parsed.MaxPrice = maxPrice
		parsed.Filter.Price = boundsPredicate(minPrice, maxPrice)
		confidence += priceConfidence
	}

	brand, brandRule := extractToken(normalized, brandRules)
	if brandRule != nil {
		parsed.Filter.Brand = brand
		confidence += brandConfidence
	}

	category, categoryRule := extractToken(normalized, categoryRules)
	if categoryRule != nil {
		parsed.Filter.Category = category
		confidence += categoryConfidence
	}

	if directive, ok := extractSortDirective(normalized); ok {
		parsed.Filter.Sort = directive
		confidence += sortConfidence
	}

	parsed.SearchTerm = cleanupSearchTerm(normalized, brandRule, categoryRule)
	parsed.Keywords = extractKeywords(parsed.SearchTerm)
	parsed.Filter.Terms = append(parsed.Filter.Terms, parsed.Keywords...)
	parsed.Confidence = math.Min(confidence, maxConfidence)

	return parsed
}

// extractPriceBounds applies the first matching price rule
func extractPriceBounds(query string) (minPrice, maxPrice *float64, ok bool) {
	for _, rule := range priceRules {
		m := rule.pattern.FindStringSubmatch(query)
		if m == nil {
			continue
		}

		first, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}

		switch rule.bound {
		case boundMax:
			return nil, &first, true
		case boundMin:
			return &first, nil, true
		case boundRange:
			second, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			if first > second {
				first, second = second, first
			}
			return &first, &second, true
		}
	}
	return nil, nil, false
}

// boundsPredicate converts inclusive min/max bounds into a price predicate
func boundsPredicate(minPrice, maxPrice *float64) *domain.PricePredicate {
	switch {
	case minPrice != nil && maxPrice != nil:
		return domain.NewRangePredicate(*minPrice, *maxPrice)
	case maxPrice != nil:
		return &domain.PricePredicate{Op: domain.PriceLte, Value: *maxPrice}
	case minPrice != nil:
		return &domain.PricePredicate{Op: domain.PriceGte, Value: *minPrice}
	}
	return nil
}

// extractToken returns the text matched by the first rule that matches, and that rule
func extractToken(query string, rules []tokenRule) (string, *tokenRule) {
	for i := range rules {
		if match := rules[i].pattern.FindString(query); match != "" {
			return strings.Join(strings.Fields(match), " "), &rules[i]
		}
	}
	return "", nil
}

func extractSortDirective(query string) (domain.SortDirective, bool) {
	for _, rule := range sortRules {
		if rule.pattern.MatchString(query) {
			return rule.directive, true
		}
	}
	return "", false
}

// cleanupSearchTerm strips every recognized phrase and filler word from the query
func cleanupSearchTerm(query string, brand, category *tokenRule) string {
	cleaned := query

	for _, rule := range priceRules {
		cleaned = rule.pattern.ReplaceAllString(cleaned, " ")
	}
	if brand != nil {
		cleaned = brand.pattern.ReplaceAllString(cleaned, " ")
	}
	if category != nil {
		cleaned = category.pattern.ReplaceAllString(cleaned, " ")
	}
	for _, rule := range sortRules {
		cleaned = rule.pattern.ReplaceAllString(cleaned, " ")
	}
	cleaned = fillerPattern.ReplaceAllString(cleaned, " ")

	return strings.Join(strings.Fields(cleaned), " ")
}

// stripIntentPhrases drops the words the intent parser consumes as price
// bounds, sort wording, fillers or stopwords. Brand and category words stay.
func stripIntentPhrases(terms []string) []string {
	cleaned := strings.Join(terms, " ")
	for _, rule := range priceRules {
		cleaned = rule.pattern.ReplaceAllString(cleaned, " ")
	}
	for _, rule := range sortRules {
		cleaned = rule.pattern.ReplaceAllString(cleaned, " ")
	}
	cleaned = fillerPattern.ReplaceAllString(cleaned, " ")

	kept := make([]string, 0, len(terms))
	for _, word := range strings.Fields(cleaned) {
		if keywordStopWords[word] {
			continue
		}
		kept = append(kept, word)
	}
	return kept
}

// extractKeywords keeps up to maxKeywords meaningful tokens of the residual phrase
func extractKeywords(searchTerm string) []string {
	var keywords []string
	for _, word := range strings.Fields(searchTerm) {
		if utf8.RuneCountInString(word) <= 2 || keywordStopWords[word] {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// FormatQuery renders a parsed query back into the filter mini-language,
// e.g. "bluetooth brand:sony category:tv price:100-300 sort:price_low".
func FormatQuery(parsed domain.ParsedQuery) string {
	var parts []string
	if parsed.SearchTerm != "" {
		parts = append(parts, parsed.SearchTerm)
	}
	if parsed.Filter.Brand != "" {
		parts = append(parts, "brand:"+parsed.Filter.Brand)
	}
	if parsed.Filter.Category != "" {
		parts = append(parts, "category:"+parsed.Filter.Category)
	}

	switch {
	case parsed.MinPrice != nil && parsed.MaxPrice != nil:
		parts = append(parts, "price:"+formatPrice(*parsed.MinPrice)+"-"+formatPrice(*parsed.MaxPrice))
	case parsed.MinPrice != nil:
		parts = append(parts, "price:>"+formatPrice(*parsed.MinPrice))
	case parsed.MaxPrice != nil:
		parts = append(parts, "price:<"+formatPrice(*parsed.MaxPrice))
	}

	if parsed.Filter.Sort != "" {
		parts = append(parts, "sort:"+string(parsed.Filter.Sort))
	}
	return strings.Join(parts, " ")
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
