package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/shoplens/backend/internal/domain"
	"github.com/shoplens/backend/internal/usecase"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	nameColor   = color.New(color.Bold)
	priceColor  = color.New(color.FgGreen)
	dimColor    = color.New(color.Faint)
)

func printSearchResult(w io.Writer, result *domain.SearchResult) {
	headerColor.Fprintf(w, "%d results", result.TotalResults)
	fmt.Fprintf(w, " (page %d, %d per page)\n", result.CurrentPage, result.PageSize)

	if len(result.Items) == 0 {
		dimColor.Fprintln(w, "No products matched.")
		return
	}

	for i, p := range result.Items {
		position := (result.CurrentPage-1)*result.PageSize + i + 1
		fmt.Fprintf(w, "%3d. ", position)
		nameColor.Fprint(w, p.Name)
		fmt.Fprint(w, "  ")
		priceColor.Fprint(w, formatPrice(p.Price))
		dimColor.Fprintf(w, "  [%s]", p.ID)
		if p.Brand != "" {
			dimColor.Fprintf(w, " %s", p.Brand)
		}
		fmt.Fprintln(w)
	}

	if result.HasMore {
		dimColor.Fprintf(w, "More results on page %d\n", result.CurrentPage+1)
	}
	if len(result.Brands) > 0 {
		fmt.Fprintf(w, "Brands: %s\n", strings.Join(result.Brands, ", "))
	}
	if len(result.Categories) > 0 {
		fmt.Fprintf(w, "Categories: %s\n", strings.Join(result.Categories, ", "))
	}
	if result.PriceRange != nil {
		fmt.Fprintf(w, "Price range: %s - %s\n",
			formatPrice(&result.PriceRange.Min), formatPrice(&result.PriceRange.Max))
	}
}

func printAnalysis(w io.Writer, analysis usecase.QueryAnalysis) {
	headerColor.Fprintln(w, "Filter")
	if analysis.Lexical.ID != "" {
		fmt.Fprintf(w, "  id contains: %s\n", analysis.Lexical.ID)
	}
	if p := analysis.Lexical.Price; p != nil {
		fmt.Fprintf(w, "  price: %s\n", describePredicate(p))
	}
	fmt.Fprintf(w, "  terms: %s\n", strings.Join(analysis.Lexical.Terms, ", "))

	headerColor.Fprintln(w, "Intent")
	intent := analysis.Intent
	if intent.Filter.Brand != "" {
		fmt.Fprintf(w, "  brand: %s\n", intent.Filter.Brand)
	}
	if intent.Filter.Category != "" {
		fmt.Fprintf(w, "  category: %s\n", intent.Filter.Category)
	}
	if intent.Filter.Sort != "" {
		fmt.Fprintf(w, "  sort: %s\n", intent.Filter.Sort)
	}
	if p := intent.Filter.Price; p != nil {
		fmt.Fprintf(w, "  price: %s\n", describePredicate(p))
	}
	if len(intent.Keywords) > 0 {
		fmt.Fprintf(w, "  keywords: %s\n", strings.Join(intent.Keywords, ", "))
	}
	fmt.Fprintf(w, "  confidence: %.2f\n", intent.Confidence)

	if analysis.Formatted != "" {
		fmt.Fprint(w, "Formatted: ")
		nameColor.Fprintln(w, analysis.Formatted)
	}
}

func describePredicate(p *domain.PricePredicate) string {
	if p.Op == domain.PriceBetween {
		return fmt.Sprintf("%s to %s", formatNumber(p.Min), formatNumber(p.Max))
	}
	return fmt.Sprintf("%s %s", p.Op, formatNumber(p.Value))
}

func formatPrice(price *float64) string {
	if price == nil {
		return "no price"
	}
	return "$" + strconv.FormatFloat(*price, 'f', 2, 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
