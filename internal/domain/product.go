package domain

// Product represents a single catalog record as supplied by a catalog provider.
// The query engine only reads and copies products, it never mutates them.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty"` // nil means no price, never zero
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	URL         string   `json:"url,omitempty"`
	Image       string   `json:"image,omitempty"`
}

// HasPrice reports whether the product carries a numeric price
func (p Product) HasPrice() bool {
	return p.Price != nil
}

// IsValid reports whether the product has the fields required for display and matching
func (p Product) IsValid() bool {
	return p.ID != "" && p.Name != ""
}

// ScoredProduct pairs a product with the score computed for one ranking pass
type ScoredProduct struct {
	Product Product
	Score   int
}

// FuzzyCandidate is a product surfaced by approximate text similarity
type FuzzyCandidate struct {
	Product    Product
	Similarity float64 // 0-1, higher is closer
}

// PriceOf returns a pointer to a copy of v, handy for building products
func PriceOf(v float64) *float64 {
	return &v
}
