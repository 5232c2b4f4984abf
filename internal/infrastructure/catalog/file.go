package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shoplens/backend/internal/domain"
)

// FileProvider reads a JSON or YAML catalog file
type FileProvider struct {
	path   string
	format Format
	mapper Mapper
}

// NewFileProvider creates a provider for path; the format follows the extension
func NewFileProvider(path string, mapper Mapper) *FileProvider {
	return &FileProvider{path: path, format: FormatFromPath(path), mapper: mapper}
}

// Name identifies the provider in logs
func (p *FileProvider) Name() string {
	return "file:" + p.path
}

// Load reads and maps every record in the file
func (p *FileProvider) Load(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogSourceFailure, err)
	}

	records, err := DecodeRecords(data, p.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.path, err)
	}
	return p.mapper.MapRecords(records), nil
}

// WriteFile writes products as an indented JSON or YAML list, creating parent directories
func WriteFile(path string, products []domain.Product) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if FormatFromPath(path) == FormatYAML {
		data, err = yaml.Marshal(toRecords(products))
	} else {
		data, err = json.MarshalIndent(products, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// toRecords shapes products for YAML using the same keys as the JSON encoding
func toRecords(products []domain.Product) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(products))
	for _, p := range products {
		record := map[string]interface{}{
			"id":          p.ID,
			"name":        p.Name,
			"description": p.Description,
		}
		if p.Price != nil {
			record["price"] = *p.Price
		}
		for key, value := range map[string]string{
			"brand": p.Brand, "category": p.Category, "url": p.URL, "image": p.Image,
		} {
			if value != "" {
				record[key] = value
			}
		}
		records = append(records, record)
	}
	return records
}
