// Package catalog loads product records from files, HTTP endpoints and
// SQLite, and holds the merged snapshot the search engine reads.
package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shoplens/backend/internal/domain"
)

// Field fallbacks, first non-empty wins
var (
	idFields          = []string{"itemId", "usItemId", "gtin", "id"}
	nameFields        = []string{"name", "productName", "title"}
	descriptionFields = []string{"shortDescription", "description"}
	priceFields       = []string{"currentItemPrice.price", "price", "currentPrice"}
	brandFields       = []string{"brand", "brandName"}
	categoryFields    = []string{"category", "categoryPath"}
	urlFields         = []string{"url", "productUrl"}
	imageFields       = []string{"imageUrl", "images.0.url", "image", "thumbnailImage"}
)

// Mapper converts raw provider records into products
type Mapper struct {
	// URLTemplate builds a product URL from its ID when the record has none, e.g. "https://shop.example.com/ip/%s"
	URLTemplate string
}

// MapRecord converts one raw record. Missing fields stay empty and a price
// that cannot be read as a number stays nil.
func (m Mapper) MapRecord(raw map[string]interface{}) domain.Product {
	product := domain.Product{
		ID:          strings.TrimSpace(firstString(raw, idFields)),
		Name:        strings.TrimSpace(firstString(raw, nameFields)),
		Description: firstString(raw, descriptionFields),
		Price:       firstPrice(raw, priceFields),
		Brand:       firstString(raw, brandFields),
		Category:    firstString(raw, categoryFields),
		URL:         firstString(raw, urlFields),
		Image:       firstString(raw, imageFields),
	}

	if product.URL == "" && product.ID != "" && m.URLTemplate != "" {
		product.URL = fmt.Sprintf(m.URLTemplate, product.ID)
	}
	return product
}

// MapRecords converts raw records, keeping their order
func (m Mapper) MapRecords(raws []map[string]interface{}) []domain.Product {
	products := make([]domain.Product, 0, len(raws))
	for _, raw := range raws {
		products = append(products, m.MapRecord(raw))
	}
	return products
}

func firstString(raw map[string]interface{}, paths []string) string {
	for _, path := range paths {
		if s := stringValue(lookup(raw, path)); s != "" {
			return s
		}
	}
	return ""
}

func firstPrice(raw map[string]interface{}, paths []string) *float64 {
	for _, path := range paths {
		if v, ok := numberValue(lookup(raw, path)); ok {
			return &v
		}
	}
	return nil
}

// lookup resolves a dotted path; numeric segments index into lists
func lookup(raw map[string]interface{}, path string) interface{} {
	var current interface{} = raw
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			current = node[segment]
		case []interface{}:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			current = node[i]
		default:
			return nil
		}
	}
	return current
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}

// numberValue reads numbers and numeric strings such as "$1,299.00"
func numberValue(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		return ParsePrice(val)
	}
	return 0, false
}

// ParsePrice parses price text, ignoring a leading currency sign and thousands separators
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
