package domain

// PriceOp is the comparison applied by a price predicate
type PriceOp string

const (
	PriceEq      PriceOp = "="
	PriceLt      PriceOp = "<"
	PriceGt      PriceOp = ">"
	PriceLte     PriceOp = "<="
	PriceGte     PriceOp = ">="
	PriceBetween PriceOp = "range"
)

// PricePredicate is either a single comparison against Value or an inclusive
// [Min, Max] range when Op is PriceBetween.
type PricePredicate struct {
	Op    PriceOp `json:"op"`
	Value float64 `json:"value,omitempty"`
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
}

// NewRangePredicate builds a range predicate, swapping the bounds if inverted
func NewRangePredicate(lo, hi float64) *PricePredicate {
	if lo > hi {
		lo, hi = hi, lo
	}
	return &PricePredicate{Op: PriceBetween, Min: lo, Max: hi}
}

// Matches reports whether price v satisfies the predicate
func (p PricePredicate) Matches(v float64) bool {
	switch p.Op {
	case PriceBetween:
		return v >= p.Min && v <= p.Max
	case PriceLt:
		return v < p.Value
	case PriceGt:
		return v > p.Value
	case PriceLte:
		return v <= p.Value
	case PriceGte:
		return v >= p.Value
	case PriceEq:
		return v == p.Value
	}
	return false
}

// SortKey is an explicit, caller-chosen ordering
type SortKey string

const (
	SortNone      SortKey = ""
	SortName      SortKey = "name"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortID        SortKey = "id"
)

// Valid reports whether k is one of the supported explicit keys (or empty)
func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortName, SortPriceAsc, SortPriceDesc, SortID:
		return true
	}
	return false
}

// SortDirective is a sort intent inferred from free text
type SortDirective string

const (
	DirectivePriceLow  SortDirective = "price_low"
	DirectivePriceHigh SortDirective = "price_high"
	DirectiveRating    SortDirective = "rating"
	DirectiveNewest    SortDirective = "newest"
	DirectiveRelevance SortDirective = "relevance"
)

// StructuredFilter is the hard-filter form of a query
type StructuredFilter struct {
	ID       string          `json:"id,omitempty"`
	Price    *PricePredicate `json:"price,omitempty"`
	Terms    []string        `json:"terms"`
	Brand    string          `json:"brand,omitempty"`
	Category string          `json:"category,omitempty"`
	Sort     SortDirective   `json:"sort,omitempty"`
}

// IsEmpty reports whether the filter carries no predicate at all
func (f StructuredFilter) IsEmpty() bool {
	return f.ID == "" && f.Price == nil && len(f.Terms) == 0
}

// ParsedQuery is the output of the heuristic intent parser.
// Confidence starts at 1.0 and is clamped to at most 1.0.
type ParsedQuery struct {
	Filter     StructuredFilter `json:"filters"`
	SearchTerm string           `json:"searchTerm"`
	Keywords   []string         `json:"keywords,omitempty"`
	MinPrice   *float64         `json:"minPrice,omitempty"`
	MaxPrice   *float64         `json:"maxPrice,omitempty"`
	Confidence float64          `json:"confidence"`
}
