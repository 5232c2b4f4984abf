package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shoplens/backend/internal/domain"
)

// Format is the encoding of a catalog document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// DecodeRecords parses a catalog document. The document is either a list of
// records or an object carrying the list under "items" or "data.items".
func DecodeRecords(data []byte, format Format) ([]map[string]interface{}, error) {
	var doc interface{}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: invalid yaml: %v", domain.ErrCatalogSourceFailure, err)
		}
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: invalid json: %v", domain.ErrCatalogSourceFailure, err)
		}
	}

	list, ok := recordList(doc)
	if !ok {
		return nil, fmt.Errorf("%w: no record list in document", domain.ErrCatalogSourceFailure)
	}

	records := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if record, ok := item.(map[string]interface{}); ok {
			records = append(records, record)
		}
	}
	return records, nil
}

func recordList(doc interface{}) ([]interface{}, bool) {
	switch node := doc.(type) {
	case nil:
		return []interface{}{}, true
	case []interface{}:
		return node, true
	case map[string]interface{}:
		if items, ok := node["items"].([]interface{}); ok {
			return items, true
		}
		if items, ok := lookup(node, "data.items").([]interface{}); ok {
			return items, true
		}
	}
	return nil, false
}
