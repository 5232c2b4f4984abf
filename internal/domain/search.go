package domain

// SearchPage is one page of an ordered result list
type SearchPage struct {
	Items        []Product `json:"items"`
	TotalResults int       `json:"totalResults"`
	CurrentPage  int       `json:"currentPage"`
	PageSize     int       `json:"pageSize"`
	HasMore      bool      `json:"hasMore"`
}

// PriceRange is the span of prices seen in a result set
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SearchResult is a page plus the parse that produced it and facets over the
// full ordered result (before pagination).
type SearchResult struct {
	SearchPage
	Parsed     ParsedQuery `json:"parsedQuery"`
	Brands     []string    `json:"brands,omitempty"`
	Categories []string    `json:"categories,omitempty"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
}

// SearchRequest represents a catalog search request
type SearchRequest struct {
	Query    string  `form:"q" json:"q"`
	Sort     SortKey `form:"sort" json:"sort,omitempty"`
	Page     int     `form:"page" json:"page,omitempty"`
	PageSize int     `form:"pageSize" json:"pageSize,omitempty"`
}
